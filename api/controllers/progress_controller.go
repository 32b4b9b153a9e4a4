package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/frvega/conversor-go/api/middlewares"
	"github.com/frvega/conversor-go/api/models"
	"github.com/frvega/conversor-go/tool"
)

// ProgressController streams per-user job state as server-sent events. The
// channel ticks once per interval, emits only on change, ends after the
// final event and tells idle clients to reconnect after the idle limit.
type ProgressController struct {
	Tick      time.Duration
	IdleLimit int
}

func NewProgressController() *ProgressController {
	return &ProgressController{
		Tick:      time.Second,
		IdleLimit: 3000,
	}
}

func (ctrl *ProgressController) HandleProgress(c *gin.Context) {
	user := c.GetString(middlewares.ContextUserKey)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	lastPayload := ""
	idleTicks := 0
	for idleTicks < ctrl.IdleLimit {
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(ctrl.Tick):
		}
		idleTicks++

		event := models.GetProgress(user)
		if event == nil {
			continue
		}
		payload, err := sonic.MarshalString(event)
		if err != nil {
			tool.DefaultLogger.Errorf("[Progress] Failed to encode event: %v", err)
			continue
		}
		if payload != lastPayload {
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			c.Writer.Flush()
			lastPayload = payload
			idleTicks = 0
		}
		if event.Done() {
			return
		}
	}

	fmt.Fprint(c.Writer, "data: {\"progress\": 0, \"status\": \"Timeout - reconecta\"}\n\n")
	c.Writer.Flush()
}
