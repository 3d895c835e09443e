package types

// ValidationError reports a value that failed a content or format
// constraint. It is shared by the comment validator, id parsing, and the
// schema migrator so callers can discriminate validation failures from I/O
// failures with errors.As.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}
