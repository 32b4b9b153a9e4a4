package views

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/frvega/conversor-go/session"
	"github.com/frvega/conversor-go/transfer"
	"github.com/frvega/conversor-go/types"
)

// fakeView records every render call so controller transitions are
// observable without a terminal.
type fakeView struct {
	busy      []string
	ready     []string
	alerts    []string
	uploads   []int
	jobEvents []types.ProgressEvent
	downloads []string
	logs      [][]types.LogRecord
}

func (v *fakeView) SetBusy(label string)                    { v.busy = append(v.busy, label) }
func (v *fakeView) Ready(label string)                      { v.ready = append(v.ready, label) }
func (v *fakeView) ShowAlert(msg string)                    { v.alerts = append(v.alerts, msg) }
func (v *fakeView) ShowUploadProgress(pct int)              { v.uploads = append(v.uploads, pct) }
func (v *fakeView) ShowJobProgress(ev types.ProgressEvent)  { v.jobEvents = append(v.jobEvents, ev) }
func (v *fakeView) ShowDownload(path string)                { v.downloads = append(v.downloads, path) }
func (v *fakeView) ShowLogs(records []types.LogRecord)      { v.logs = append(v.logs, records) }

func loggedInStore(t *testing.T, role string) *session.Store {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	store.Set("tok", role, true)
	require.NoError(t, store.Persist())
	return store
}

func stagePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func stageXLSX(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake workbook"), 0o644))
	return path
}

func newClient(base string) *transfer.Client {
	return transfer.New(base, time.Minute, time.Minute)
}

func TestConverterSessionExpiryClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/progress" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	view := &fakeView{}
	store := loggedInStore(t, "user")
	ctrl := &ConverterController{
		View:      view,
		Store:     store,
		Client:    newClient(server.URL),
		APIBase:   server.URL,
		OutputDir: t.TempDir(),
	}

	err := ctrl.Run(context.Background(), []string{stagePDF(t)})
	require.ErrorIs(t, err, transfer.ErrSessionExpired)
	require.Contains(t, view.alerts, "Session expired, please login again")

	// Session torn down: the next protected command must fail fast.
	_, err = store.Require()
	require.ErrorIs(t, err, session.ErrNoSession)
	// No retry path is offered after expiry.
	require.Empty(t, view.ready)
}

func TestConverterSavesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/progress":
			flusher := w.(http.Flusher)
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte("data: {\"progress\": 100, \"status\": \"Finalizado\"}\n\n"))
			flusher.Flush()
		case "/api/convert":
			w.Header().Set("Content-Type", "application/zip")
			_, _ = w.Write([]byte("ZIPDATA"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	outDir := t.TempDir()
	view := &fakeView{}
	ctrl := &ConverterController{
		View:      view,
		Store:     loggedInStore(t, "user"),
		Client:    newClient(server.URL),
		APIBase:   server.URL,
		OutputDir: outDir,
	}

	require.NoError(t, ctrl.Run(context.Background(), []string{stagePDF(t)}))
	require.Len(t, view.downloads, 1)

	saved, err := os.ReadFile(view.downloads[0])
	require.NoError(t, err)
	require.Equal(t, []byte("ZIPDATA"), saved)
	require.Equal(t, ResultArchiveName, filepath.Base(view.downloads[0]))
}

func TestConverterRejectsEmptyStaging(t *testing.T) {
	view := &fakeView{}
	ctrl := &ConverterController{
		View:      view,
		Store:     loggedInStore(t, "user"),
		Client:    newClient("http://localhost:0"),
		APIBase:   "http://localhost:0",
		OutputDir: t.TempDir(),
	}

	err := ctrl.Run(context.Background(), nil)
	require.Error(t, err)
	require.NotEmpty(t, view.alerts)
	require.Empty(t, view.busy)
}

func TestMergePayloadTooLargeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer server.Close()

	view := &fakeView{}
	ctrl := &MergeController{
		View:      view,
		Store:     loggedInStore(t, "user"),
		Client:    newClient(server.URL),
		OutputDir: t.TempDir(),
	}

	err := ctrl.Run(context.Background(), []string{stageXLSX(t, "enero.xlsx")})
	require.ErrorIs(t, err, transfer.ErrPayloadTooLarge)
	// The 413 classification, not the generic HTTP-error message.
	require.Equal(t, []string{"The upload is too large for the server"}, view.alerts)
	// Recoverable: the action is offered again.
	require.Equal(t, []string{mergeLabel}, view.ready)
}

func TestMergeSavesConsolidatedWorkbook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("XLSXDATA"))
	}))
	defer server.Close()

	outDir := t.TempDir()
	view := &fakeView{}
	ctrl := &MergeController{
		View:      view,
		Store:     loggedInStore(t, "user"),
		Client:    newClient(server.URL),
		OutputDir: outDir,
	}

	paths := []string{stageXLSX(t, "enero.xlsx"), stageXLSX(t, "febrero.xlsx")}
	require.NoError(t, ctrl.Run(context.Background(), paths))

	require.Len(t, view.downloads, 1)
	require.Equal(t, MergedWorkbookName, filepath.Base(view.downloads[0]))
	saved, err := os.ReadFile(view.downloads[0])
	require.NoError(t, err)
	require.Equal(t, []byte("XLSXDATA"), saved)
	// One-shot: no re-enable after success.
	require.Empty(t, view.ready)
}

func TestAdminRoleGate(t *testing.T) {
	view := &fakeView{}
	ctrl := &AdminController{
		View:   view,
		Store:  loggedInStore(t, "user"),
		Client: newClient("http://localhost:0"),
	}

	err := ctrl.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, view.alerts[0], "admin")
	require.Empty(t, view.logs)
}

func TestAdminRendersLogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"user":"ana","date":"2025-09-23","ok":5,"errors":0}]`))
	}))
	defer server.Close()

	view := &fakeView{}
	ctrl := &AdminController{
		View:   view,
		Store:  loggedInStore(t, "admin"),
		Client: newClient(server.URL),
	}

	require.NoError(t, ctrl.Run(context.Background()))
	require.Len(t, view.logs, 1)
	require.Equal(t, "ana", view.logs[0][0].User)
}

func TestLoginPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-9","role":"admin"}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "session.yaml")
	store := session.NewStore(path)
	view := &fakeView{}
	ctrl := &LoginController{View: view, Store: store, Client: newClient(server.URL)}

	require.NoError(t, ctrl.Run(context.Background(), "admin", "admin123", true))

	reloaded := session.NewStore(path)
	require.NoError(t, reloaded.Load())
	require.Equal(t, "tok-9", reloaded.Token())
	require.True(t, reloaded.IsAdmin())
}

func TestLoginRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := session.NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	view := &fakeView{}
	ctrl := &LoginController{View: view, Store: store, Client: newClient(server.URL)}

	err := ctrl.Run(context.Background(), "admin", "nope", false)
	require.ErrorIs(t, err, transfer.ErrAuthFailed)
	require.Contains(t, view.alerts, "Invalid username or password")
	_, err = store.Require()
	require.ErrorIs(t, err, session.ErrNoSession)
}
