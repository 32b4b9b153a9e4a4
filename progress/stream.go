// Package progress implements the client side of the progress push channel:
// a one-directional server-sent-event stream scoped by the session token.
// The stream and the upload race independently against the same server-side
// job; callers must close the stream themselves when the upload settles
// first, and must not assume either one finishes before the other.
package progress

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// Stream is a live subscription handle. Close is idempotent and safe to call
// from the upload cleanup path while the reader is still running.
type Stream struct {
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Subscribe opens the push channel for the given token and invokes onEvent
// for every well-formed message. The token travels as a query parameter
// because the underlying transport cannot set custom headers. The stream
// self-closes when an event reports progress >= 100 and closes without retry
// on any transport error.
func Subscribe(base, token string, onEvent func(types.ProgressEvent)) (*Stream, error) {
	ctx, cancel := context.WithCancel(context.Background())

	endpoint := fmt.Sprintf("%s/api/progress?token=%s", strings.TrimRight(base, "/"), url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create progress request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := tool.NewStreamingHTTPClient().Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open progress stream: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("progress stream rejected: %s", resp.Status)
	}

	s := &Stream{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.readLoop(ctx, resp, onEvent)
	return s, nil
}

// Close tears the channel down. No callbacks fire after Close returns the
// reader to rest; closing an already-closed stream does nothing.
func (s *Stream) Close() {
	s.closeOnce.Do(s.cancel)
	<-s.done
}

// Done is closed once the reader has stopped, whether by a final event, a
// transport error or an explicit Close.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

func (s *Stream) readLoop(ctx context.Context, resp *http.Response, onEvent func(types.ProgressEvent)) {
	defer close(s.done)
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close progress stream body: %v", err)
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event types.ProgressEvent
		if err := sonic.UnmarshalString(payload, &event); err != nil {
			// Malformed messages are logged and skipped, the stream stays open.
			tool.DefaultLogger.Debugf("Ignoring malformed progress message %q: %v", payload, err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
		if onEvent != nil {
			onEvent(event)
		}
		if event.Done() {
			return
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		// Transport-level failure: close without retry.
		tool.DefaultLogger.Warnf("Progress stream ended with error: %v", err)
	}
}
