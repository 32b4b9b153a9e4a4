package views

import (
	"context"
	"errors"
	"os"

	"github.com/frvega/conversor-go/session"
	"github.com/frvega/conversor-go/staging"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/transfer"
)

// MergeController runs the consolidation action: stage spreadsheets, upload
// them to the merge endpoint and save the single consolidated workbook.
// Consolidation has no server-side progress channel, the job is quick.
type MergeController struct {
	View      View
	Store     *session.Store
	Client    *transfer.Client
	OutputDir string
}

const mergeLabel = "Consolidate"

// MergedWorkbookName is what the merge endpoint calls its output.
const MergedWorkbookName = "consolidado_anual.xlsx"

func (c *MergeController) Run(ctx context.Context, paths []string) error {
	var list staging.List
	list.Add(paths, staging.SpreadsheetOnly)
	if list.Empty() {
		c.View.ShowAlert("No spreadsheets staged, nothing to consolidate")
		return errors.New("empty staging list")
	}

	token, err := c.Store.Require()
	if err != nil {
		c.View.ShowAlert(err.Error())
		return err
	}

	c.View.SetBusy(mergeLabel)

	data, err := c.Client.Merge(ctx, token, list.Entries(), c.View.ShowUploadProgress)
	if err != nil {
		c.View.ShowAlert(alertFor(err))
		if errors.Is(err, transfer.ErrSessionExpired) {
			if clearErr := c.Store.Clear(); clearErr != nil {
				tool.DefaultLogger.Warnf("Failed to clear session: %v", clearErr)
			}
			return err
		}
		c.View.Ready(mergeLabel)
		return err
	}

	dest := tool.NextAvailablePath(c.OutputDir, MergedWorkbookName)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		c.View.ShowAlert("Failed to save result: " + err.Error())
		return err
	}
	c.View.ShowDownload(dest)
	return nil
}
