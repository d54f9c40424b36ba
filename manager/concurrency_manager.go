package manager

import (
	"errors"
	"sync"
	"time"

	"formpost/config"
)

// ErrInFlight is returned when a form already has as many submissions in
// flight as it allows.
var ErrInFlight = errors.New("submission already in flight")

// FormMetrics holds the in-flight metrics for a specific form.
type FormMetrics struct {
	Form                 string
	InFlight             int
	Rejected             int
	LastLogTime          time.Time
	inFlightChanged      bool
	rejectedCountChanged bool
	mu                   sync.Mutex
}

// InFlightManager caps overlapping submissions per form. A form with a limit
// of 0 is never capped.
type InFlightManager struct {
	semMap     map[string]chan struct{}
	metricsMap map[string]*FormMetrics
	mu         sync.Mutex
	closed     chan struct{}
	closeOnce  sync.Once
}

// NewInFlightManager initializes an InFlightManager from the form configurations.
func NewInFlightManager(forms []config.FormConfig) *InFlightManager {
	m := &InFlightManager{
		semMap:     make(map[string]chan struct{}),
		metricsMap: make(map[string]*FormMetrics),
		closed:     make(chan struct{}),
	}

	for _, form := range forms {
		m.metricsMap[form.Name] = &FormMetrics{Form: form.Name}
		if form.MaxInFlight > 0 {
			m.semMap[form.Name] = make(chan struct{}, form.MaxInFlight)
		}
	}

	for _, metrics := range m.metricsMap {
		go m.monitorMetrics(metrics)
	}

	return m
}

// Configure applies the limits of a reloaded configuration. A form whose
// limit changed gets a fresh semaphore; submissions already in flight release
// into the one they acquired. Forms that are no longer configured lose their
// limit.
func (m *InFlightManager) Configure(forms []config.FormConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	limits := make(map[string]int, len(forms))
	for _, form := range forms {
		limits[form.Name] = form.MaxInFlight
		if _, ok := m.metricsMap[form.Name]; !ok {
			metrics := &FormMetrics{Form: form.Name}
			m.metricsMap[form.Name] = metrics
			go m.monitorMetrics(metrics)
		}
	}

	for name, sem := range m.semMap {
		if limits[name] != cap(sem) {
			delete(m.semMap, name)
		}
	}
	for name, limit := range limits {
		if _, ok := m.semMap[name]; !ok && limit > 0 {
			m.semMap[name] = make(chan struct{}, limit)
		}
	}
	log.Debugf("Applied in-flight limits for %d form(s)", len(forms))
}

// Acquire takes an in-flight slot for form without waiting. The returned
// release func must be called once the submission completes.
func (m *InFlightManager) Acquire(form string) (func(), error) {
	m.mu.Lock()
	sem := m.semMap[form]
	metrics, ok := m.metricsMap[form]
	if !ok {
		metrics = &FormMetrics{Form: form}
		m.metricsMap[form] = metrics
		go m.monitorMetrics(metrics)
	}
	m.mu.Unlock()

	if sem == nil {
		metrics.incrementInFlight()
		return releaseOnce(metrics, nil), nil
	}

	select {
	case sem <- struct{}{}:
		metrics.incrementInFlight()
		return releaseOnce(metrics, sem), nil
	default:
		metrics.incrementRejected()
		return nil, ErrInFlight
	}
}

func releaseOnce(metrics *FormMetrics, sem chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			metrics.decrementInFlight()
			if sem != nil {
				<-sem
			}
		})
	}
}

// InFlight returns the number of submissions in flight for form.
func (m *InFlightManager) InFlight(form string) int {
	m.mu.Lock()
	metrics, ok := m.metricsMap[form]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	return metrics.InFlight
}

// Shutdown stops the metrics monitors.
func (m *InFlightManager) Shutdown() {
	m.closeOnce.Do(func() { close(m.closed) })
}

// monitorMetrics logs changes in the metrics at most once per second.
func (m *InFlightManager) monitorMetrics(metrics *FormMetrics) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.closed:
			return
		case <-ticker.C:
		}

		metrics.mu.Lock()
		currentTime := time.Now()
		if (metrics.inFlightChanged || metrics.rejectedCountChanged) &&
			currentTime.Sub(metrics.LastLogTime) >= time.Second {
			log.Debugf("Form: %s | In flight: %d | Rejected: %d",
				metrics.Form, metrics.InFlight, metrics.Rejected)
			metrics.LastLogTime = currentTime
			metrics.resetChangeFlags()
		}
		metrics.mu.Unlock()
	}
}

func (f *FormMetrics) incrementInFlight() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InFlight++
	f.inFlightChanged = true
}

func (f *FormMetrics) decrementInFlight() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InFlight > 0 {
		f.InFlight--
		f.inFlightChanged = true
	}
}

func (f *FormMetrics) incrementRejected() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rejected++
	f.rejectedCountChanged = true
}

func (f *FormMetrics) resetChangeFlags() {
	f.inFlightChanged = false
	f.rejectedCountChanged = false
}
