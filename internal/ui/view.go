package ui

import (
	"html/template"

	"github.com/queryscope/console/internal/render"
)

// MessageKind selects the banner styling.
type MessageKind string

const (
	MessageInfo  MessageKind = "info"
	MessageError MessageKind = "error"
)

// Run control labels.
const (
	LabelReady   = "▶ Run Analysis"
	LabelRunning = "⏳ Running..."
)

// State is the interaction state of a controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateResults
	StateMessage
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateResults:
		return "results"
	case StateMessage:
		return "message"
	default:
		return "idle"
	}
}

// Input is a text or select field.
type Input struct {
	Value string
}

// Button is a clickable control.
type Button struct {
	Disabled bool
	Label    string
}

// Panel is a container that can be hidden.
type Panel struct {
	Hidden bool
}

// Region is an output area holding an HTML fragment.
type Region struct {
	ID      string
	Content template.HTML
}

// Banner is the single message line shown above the results.
type Banner struct {
	Text    string      `json:"text"`
	Kind    MessageKind `json:"kind"`
	Visible bool        `json:"visible"`
}

// View holds the handles a controller reads from and writes to.
type View struct {
	Query         *Input
	Sandbox       *Input
	Run           *Button
	Results       *Panel
	Regions       map[render.Region]*Region
	Message       *Banner
	SchemaResults *Region
}

// NewView creates a view in its initial state: empty query, sandbox off,
// run control ready, results hidden.
func NewView() *View {
	v := &View{
		Query:         &Input{},
		Sandbox:       &Input{Value: "false"},
		Run:           &Button{Label: LabelReady},
		Results:       &Panel{Hidden: true},
		Regions:       make(map[render.Region]*Region, len(render.Regions)),
		Message:       &Banner{},
		SchemaResults: &Region{ID: "schema-results"},
	}
	for _, r := range render.Regions {
		v.Regions[r] = &Region{ID: string(r)}
	}
	return v
}

// Snapshot is a point-in-time copy of a view, safe to read without the
// controller's lock.
type Snapshot struct {
	State          string                   `json:"state"`
	Query          string                   `json:"query"`
	Sandbox        bool                     `json:"sandbox"`
	RunDisabled    bool                     `json:"run_disabled"`
	RunLabel       string                   `json:"run_label"`
	ResultsVisible bool                     `json:"results_visible"`
	Regions        map[string]template.HTML `json:"regions"`
	Message        *Banner                  `json:"message,omitempty"`
	SchemaResults  template.HTML            `json:"schema_results,omitempty"`
}

// Region returns the content of the named region.
func (s Snapshot) Region(name string) template.HTML {
	return s.Regions[name]
}
