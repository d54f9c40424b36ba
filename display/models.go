package display

// Status is the color indicator of a displayed outcome.
type Status int

const (
	// None means nothing has been displayed yet.
	None Status = iota
	Success
	Failure
)

// Color returns the indicator color name.
func (s Status) Color() string {
	switch s {
	case Success:
		return "green"
	case Failure:
		return "red"
	default:
		return ""
	}
}

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "none"
	}
}

// Outcome is the text and color of one completed submission.
type Outcome struct {
	Text   string
	Status Status
}

// Target is the single surface a submission writes its outcome to.
// Each Show replaces whatever was displayed before.
type Target interface {
	Show(outcome Outcome)
}
