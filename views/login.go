package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/frvega/conversor-go/session"
	"github.com/frvega/conversor-go/transfer"
)

// LoginController exchanges credentials for a session. Any rejection is a
// typed error, never a silent nil result.
type LoginController struct {
	View   View
	Store  *session.Store
	Client *transfer.Client
}

func (c *LoginController) Run(ctx context.Context, username, password string, remember bool) error {
	if username == "" || password == "" {
		c.View.ShowAlert("Username and password are required")
		return errors.New("missing credentials")
	}

	resp, err := c.Client.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, transfer.ErrAuthFailed) {
			c.View.ShowAlert("Invalid username or password")
		} else {
			c.View.ShowAlert(alertFor(err))
		}
		return err
	}

	c.Store.Set(resp.Token, resp.Role, remember)
	if err := c.Store.Persist(); err != nil {
		c.View.ShowAlert("Logged in, but the session could not be saved: " + err.Error())
		return err
	}
	c.View.ShowAlert(fmt.Sprintf("Logged in as %s (%s)", username, resp.Role))
	return nil
}
