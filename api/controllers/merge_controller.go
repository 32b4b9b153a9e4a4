package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frvega/conversor-go/tool"
)

// MergedWorkbookName is the download name of the consolidation result.
const MergedWorkbookName = "consolidado_anual.xlsx"

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MergeController consolidates previously generated workbooks into one.
type MergeController struct {
	MaxUploadSize int64
}

func NewMergeController(maxUploadSize int64) *MergeController {
	return &MergeController{MaxUploadSize: maxUploadSize}
}

func (ctrl *MergeController) HandleMerge(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid multipart body"))
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No se enviaron archivos"))
		return
	}

	inputs := make([][]byte, 0, len(uploads))
	for _, upload := range uploads {
		if ctrl.MaxUploadSize > 0 && upload.Size > ctrl.MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, tool.FastReturnError("Archivo supera el tamano permitido"))
			return
		}
		data, err := readUpload(upload.Open())
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(fmt.Sprintf("Failed to read %s", upload.Filename)))
			return
		}
		inputs = append(inputs, data)
	}

	merged, err := MergeWorkbooks(inputs)
	if err != nil {
		tool.DefaultLogger.Errorf("[Merge] Consolidation failed: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("No se pudo generar el consolidado"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", MergedWorkbookName))
	c.Data(http.StatusOK, xlsxMimeType, merged)
}
