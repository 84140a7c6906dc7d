package pipeline

// State is a step of a pipeline run. Runs move strictly forward through
// Received, Transcribing, Extracting, Assembling, Persisting and Done, and
// may jump to Failed from any state before Done.
type State int

const (
	Received State = iota
	Transcribing
	Extracting
	Assembling
	Persisting
	Done
	Failed
)

var stateNames = [...]string{
	Received:     "received",
	Transcribing: "transcribing",
	Extracting:   "extracting",
	Assembling:   "assembling",
	Persisting:   "persisting",
	Done:         "done",
	Failed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText lets State appear by name in JSON responses and logs.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
