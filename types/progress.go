package types

// ProgressEvent is one message on the push channel. Progress runs 0-100,
// Status is a human-readable stage description.
type ProgressEvent struct {
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

// Done reports whether this event terminates the stream.
func (e ProgressEvent) Done() bool {
	return e.Progress >= 100
}
