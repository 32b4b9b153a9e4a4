package views

import (
	"context"
	"errors"

	"github.com/frvega/conversor-go/session"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/transfer"
)

// AdminController fetches and renders the processing-log table. Read-only.
type AdminController struct {
	View   View
	Store  *session.Store
	Client *transfer.Client
}

func (c *AdminController) Run(ctx context.Context) error {
	token, err := c.Store.Require()
	if err != nil {
		c.View.ShowAlert(err.Error())
		return err
	}
	if !c.Store.IsAdmin() {
		c.View.ShowAlert("The processing log is only available to admins")
		return errors.New("admin role required")
	}

	records, err := c.Client.FetchLogs(ctx, token)
	if err != nil {
		c.View.ShowAlert(alertFor(err))
		if errors.Is(err, transfer.ErrSessionExpired) {
			if clearErr := c.Store.Clear(); clearErr != nil {
				tool.DefaultLogger.Warnf("Failed to clear session: %v", clearErr)
			}
		}
		return err
	}

	c.View.ShowLogs(records)
	return nil
}
