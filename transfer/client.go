// Package transfer implements the outbound HTTP calls against the conversion
// API: login, the two multipart uploads and the processing-log fetch. Each
// upload is a single in-flight request with a fixed timeout ceiling; there is
// no queueing, retry or partial-failure recovery.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/frvega/conversor-go/staging"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// UploadFieldName is the repeated multipart field carrying every staged file.
const UploadFieldName = "files"

// Client talks to one API base URL. Conversion and consolidation get their
// own HTTP clients because their timeout ceilings differ.
type Client struct {
	base          string
	defaultClient *http.Client
	convertClient *http.Client
	mergeClient   *http.Client
}

// New creates a client for the given API base (scheme://host:port, no
// trailing slash required).
func New(base string, convertTimeout, mergeTimeout time.Duration) *Client {
	return &Client{
		base:          trimSlash(base),
		defaultClient: tool.NewHTTPClient(0),
		convertClient: tool.NewHTTPClient(convertTimeout),
		mergeClient:   tool.NewHTTPClient(mergeTimeout),
	}
}

func trimSlash(base string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base
}

// Login exchanges credentials for a bearer token and role.
func (c *Client) Login(ctx context.Context, username, password string) (types.LoginResponse, error) {
	var out types.LoginResponse
	body, err := sonic.Marshal(types.LoginRequest{Username: username, Password: password})
	if err != nil {
		return out, fmt.Errorf("failed to encode login request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/login", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to create login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.defaultClient.Do(req)
	if err != nil {
		return out, classifyTransport(ctx, err)
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return out, ErrAuthFailed
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return out, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if err := sonic.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to parse login response: %v", err)
	}
	if out.Token == "" {
		return out, fmt.Errorf("login response carried no token")
	}
	return out, nil
}

// Convert uploads the staged PDFs to /api/convert and returns the result
// archive (ZIP). onProgress, when non-nil, receives upload byte progress as
// a 0-100 percentage.
func (c *Client) Convert(ctx context.Context, token string, files []staging.Entry, onProgress func(int)) ([]byte, error) {
	return c.multipartUpload(ctx, c.convertClient, "/api/convert", token, files, onProgress)
}

// Merge uploads the staged spreadsheets to /api/unificar and returns the
// consolidated workbook.
func (c *Client) Merge(ctx context.Context, token string, files []staging.Entry, onProgress func(int)) ([]byte, error) {
	return c.multipartUpload(ctx, c.mergeClient, "/api/unificar", token, files, onProgress)
}

// FetchLogs retrieves the processing-log records.
func (c *Client) FetchLogs(ctx context.Context, token string) ([]types.LogRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/logs", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create logs request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.defaultClient.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer closeBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, classifyStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	var records []types.LogRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse logs response: %v", err)
	}
	return records, nil
}

func (c *Client) multipartUpload(ctx context.Context, hc *http.Client, path, token string, files []staging.Entry, onProgress func(int)) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files staged for upload")
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}
	counter := &progressCounter{total: total, onProgress: onProgress}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeParts(mw, files, counter)
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return data, nil
}

func writeParts(mw *multipart.Writer, files []staging.Entry, counter *progressCounter) error {
	for _, entry := range files {
		part, err := mw.CreateFormFile(UploadFieldName, entry.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file for %s: %v", entry.Name, err)
		}
		f, err := os.Open(entry.Path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %v", entry.Path, err)
		}
		_, err = io.Copy(part, io.TeeReader(f, counter))
		if closeErr := f.Close(); closeErr != nil {
			tool.DefaultLogger.Errorf("Failed to close %s: %v", entry.Path, closeErr)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %v", entry.Path, err)
		}
	}
	return nil
}

// progressCounter reports upload percentage as file bytes flow into the
// multipart body. Only whole-percent changes reach the callback.
type progressCounter struct {
	total      int64
	written    int64
	lastPct    int
	onProgress func(int)
}

func (p *progressCounter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.onProgress != nil && p.total > 0 {
		pct := int(p.written * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct != p.lastPct {
			p.lastPct = pct
			p.onProgress(pct)
		}
	}
	return len(b), nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
	}
}
