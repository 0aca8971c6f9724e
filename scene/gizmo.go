package scene

import "fmt"

// TransformMode selects which gizmo manipulation is active.
type TransformMode int

const (
	ModeTranslate TransformMode = iota
	ModeRotate
	ModeScale

	numTransformModes
)

func (m TransformMode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	default:
		return fmt.Sprintf("TransformMode(%d)", int(m))
	}
}

// Valid reports whether m is a recognized transform mode.
func (m TransformMode) Valid() bool {
	return m >= ModeTranslate && m < numTransformModes
}

// Gizmo is the on-screen translate/rotate/scale handle set shown in
// debug mode. Pointer interaction is the host UI's job; the scene only
// tracks which manipulation is armed and whether the handles render.
type Gizmo struct {
	Visible bool
	Mode    TransformMode
}
