package domain

// UpstreamGenerationError reports that the generative API returned a
// non-success status or an unusable response shape. The message is
// surfaced verbatim to the caller.
type UpstreamGenerationError struct {
	Message string
}

func (e *UpstreamGenerationError) Error() string {
	return e.Message
}

// MalformedGenerationError reports that the generative API's content could
// not be parsed as JSON. It is never retried.
type MalformedGenerationError struct {
	Cause error
}

func (e *MalformedGenerationError) Error() string {
	return "failed to parse book recommendations"
}

func (e *MalformedGenerationError) Unwrap() error {
	return e.Cause
}
