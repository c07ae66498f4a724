package printing

import "fmt"

// ErrorMarker reports a schema step that could not be resolved. It is
// collected in place of the step's output; the render carries on.
type ErrorMarker struct {
	Valid int    `json:"valid"`
	Error string `json:"error"`
	// Position is the command stream length when the step was reached
	Position int `json:"position"`
}

// NewErrorMarker creates the marker for an unresolved step
func NewErrorMarker(step string, position int) ErrorMarker {
	return ErrorMarker{Valid: 0, Error: step, Position: position}
}

// String renders the marker in its inline form, {valid:0, error:<step>}
func (m ErrorMarker) String() string {
	return fmt.Sprintf("{valid:%d, error:%s}", m.Valid, m.Error)
}
