// Package views wires user actions to the session store, staging lists and
// transfer client. Controllers own their state explicitly and render through
// the View interface, so the action flow is testable without a terminal.
package views

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frvega/conversor-go/transfer"
	"github.com/frvega/conversor-go/types"
)

// View is the rendering surface a controller drives. Implementations must
// tolerate being called from the single goroutine running the controller.
type View interface {
	// SetBusy marks the action as in flight with a changed label.
	SetBusy(label string)
	// Ready re-enables the action after a recoverable failure.
	Ready(label string)
	// ShowAlert renders a dismissible error or notice.
	ShowAlert(msg string)
	// ShowUploadProgress renders upload byte progress (0-100).
	ShowUploadProgress(pct int)
	// ShowJobProgress renders a push-channel event from the server-side job.
	ShowJobProgress(ev types.ProgressEvent)
	// ShowDownload exposes the saved result to the user.
	ShowDownload(path string)
	// ShowLogs renders the processing-log table.
	ShowLogs(records []types.LogRecord)
}

// TerminalView renders controller state to stdout.
type TerminalView struct{}

func (TerminalView) SetBusy(label string) {
	fmt.Printf("%s...\n", label)
}

func (TerminalView) Ready(label string) {
	fmt.Printf("%s ready, try again\n", label)
}

func (TerminalView) ShowAlert(msg string) {
	fmt.Fprintf(os.Stderr, "! %s\n", msg)
}

func (TerminalView) ShowUploadProgress(pct int) {
	fmt.Printf("\rUploading: %3d%%", pct)
	if pct >= 100 {
		fmt.Println()
	}
}

func (TerminalView) ShowJobProgress(ev types.ProgressEvent) {
	fmt.Printf("\rProcessing: %3d%% %s", ev.Progress, ev.Status)
	if ev.Done() {
		fmt.Println()
	}
}

func (TerminalView) ShowDownload(path string) {
	fmt.Printf("Result saved to %s\n", path)
}

func (TerminalView) ShowLogs(records []types.LogRecord) {
	fmt.Printf("%-12s %-12s %4s %7s  %s\n", "USER", "DATE", "OK", "ERRORS", "REASON")
	for _, r := range records {
		fmt.Printf("%-12s %-12s %4d %7d  %s\n", r.User, r.Date, r.OK, r.Errors, r.Reason)
	}
	if len(records) == 0 {
		fmt.Println(strings.Repeat("-", 24) + " no records " + strings.Repeat("-", 24))
	}
}

// alertFor maps a classified transfer error to the message the user sees.
// The 413 and 401 cases must stay distinct from the generic HTTP message.
func alertFor(err error) string {
	var statusErr *transfer.StatusError
	switch {
	case errors.Is(err, transfer.ErrPayloadTooLarge):
		return "The upload is too large for the server"
	case errors.Is(err, transfer.ErrSessionExpired):
		return "Session expired, please login again"
	case errors.Is(err, transfer.ErrTimeout):
		return "The request timed out, try again with fewer files"
	case errors.Is(err, transfer.ErrNetwork):
		return "Could not reach the server, check your connection"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The server answered with HTTP %d", statusErr.Code)
	default:
		return err.Error()
	}
}
