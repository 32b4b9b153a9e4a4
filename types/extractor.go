package types

import "context"

// Extractor turns one PDF into one Excel workbook. The actual table
// detection and OCR live in an external collaborator behind this boundary.
type Extractor interface {
	// Extract receives the original file name (for logging and routing
	// hints) and the PDF bytes, and returns xlsx bytes.
	Extract(ctx context.Context, name string, pdf []byte) ([]byte, error)
}
