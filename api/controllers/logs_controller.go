package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frvega/conversor-go/api/middlewares"
	"github.com/frvega/conversor-go/api/models"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// LogsController serves the processing-log records, admins only.
type LogsController struct {
	Logs *models.LogStore
}

func NewLogsController(logs *models.LogStore) *LogsController {
	return &LogsController{Logs: logs}
}

func (ctrl *LogsController) HandleLogs(c *gin.Context) {
	if c.GetString(middlewares.ContextRoleKey) != types.RoleAdmin {
		c.JSON(http.StatusForbidden, tool.FastReturnError("Solo para administradores"))
		return
	}
	c.JSON(http.StatusOK, ctrl.Logs.List())
}
