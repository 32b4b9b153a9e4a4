package types

// LogRecord is one row of the processing log exposed to admins.
type LogRecord struct {
	User   string `json:"user"`
	Date   string `json:"date"`
	OK     int    `json:"ok"`
	Errors int    `json:"errors"`
	Reason string `json:"reason,omitempty"`
}
