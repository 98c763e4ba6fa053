package form

// State do formulário: idle -> submitting -> success | error.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Editable: o usuário pode mexer nos campos e reenviar.
func (s State) Editable() bool {
	return s == StateIdle || s == StateError
}
