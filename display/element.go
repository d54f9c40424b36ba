package display

import "sync"

// Element keeps the latest outcome in memory, like a page element whose text
// and color are overwritten on each write.
type Element struct {
	mutex   sync.Mutex
	current Outcome
	writes  int
}

// NewElement creates an empty Element.
func NewElement() *Element {
	return &Element{}
}

// Show replaces the displayed outcome.
func (e *Element) Show(outcome Outcome) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.current = outcome
	e.writes++
}

// Outcome returns the displayed outcome.
func (e *Element) Outcome() Outcome {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.current
}

// Text returns the displayed text.
func (e *Element) Text() string {
	return e.Outcome().Text
}

// Color returns the displayed color name, empty before the first write.
func (e *Element) Color() string {
	return e.Outcome().Status.Color()
}

// Writes returns how many outcomes have been shown.
func (e *Element) Writes() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.writes
}
