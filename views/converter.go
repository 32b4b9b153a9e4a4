package views

import (
	"context"
	"errors"
	"os"

	"github.com/frvega/conversor-go/progress"
	"github.com/frvega/conversor-go/session"
	"github.com/frvega/conversor-go/staging"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/transfer"
)

// ConverterController runs the PDF-to-Excel action: stage PDFs, open the
// progress channel, upload, save the result archive. One shot per run; a
// failure leaves the action ready for an explicit retry by the user.
type ConverterController struct {
	View      View
	Store     *session.Store
	Client    *transfer.Client
	APIBase   string
	OutputDir string
}

const convertLabel = "Convert"

// ResultArchiveName is what the conversion endpoint calls its ZIP.
const ResultArchiveName = "resultado.zip"

func (c *ConverterController) Run(ctx context.Context, paths []string) error {
	var list staging.List
	list.Add(paths, staging.PDFOnly)
	if list.Empty() {
		c.View.ShowAlert("No PDF files staged, nothing to convert")
		return errors.New("empty staging list")
	}

	token, err := c.Store.Require()
	if err != nil {
		c.View.ShowAlert(err.Error())
		return err
	}

	c.View.SetBusy(convertLabel)

	// The push channel and the upload run concurrently and are not mutually
	// cancelling; the deferred Close covers every exit path, including the
	// upload settling before the stream sees its final event.
	stream, err := progress.Subscribe(c.APIBase, token, c.View.ShowJobProgress)
	if err != nil {
		tool.DefaultLogger.Warnf("Progress channel unavailable: %v", err)
	} else {
		defer stream.Close()
	}

	data, err := c.Client.Convert(ctx, token, list.Entries(), c.View.ShowUploadProgress)
	if err != nil {
		return c.fail(err)
	}

	dest := tool.NextAvailablePath(c.OutputDir, ResultArchiveName)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		c.View.ShowAlert("Failed to save result: " + err.Error())
		return err
	}
	c.View.ShowDownload(dest)
	return nil
}

func (c *ConverterController) fail(err error) error {
	c.View.ShowAlert(alertFor(err))
	if errors.Is(err, transfer.ErrSessionExpired) {
		if clearErr := c.Store.Clear(); clearErr != nil {
			tool.DefaultLogger.Warnf("Failed to clear session: %v", clearErr)
		}
		return err
	}
	c.View.Ready(convertLabel)
	return err
}
