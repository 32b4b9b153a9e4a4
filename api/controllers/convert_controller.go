package controllers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/frvega/conversor-go/api/middlewares"
	"github.com/frvega/conversor-go/api/models"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// ResultArchiveName is the download name of the conversion result.
const ResultArchiveName = "resultado.zip"

// ConvertController receives the multipart PDF batch, runs the extractor
// file by file while publishing progress, and answers with a ZIP holding one
// workbook (or one error note) per input plus a consolidated workbook and a
// plain-text log.
type ConvertController struct {
	Extractor     types.Extractor
	MaxUploadSize int64
	Logs          *models.LogStore
}

func NewConvertController(extractor types.Extractor, maxUploadSize int64, logs *models.LogStore) *ConvertController {
	return &ConvertController{
		Extractor:     extractor,
		MaxUploadSize: maxUploadSize,
		Logs:          logs,
	}
}

func (ctrl *ConvertController) HandleConvert(c *gin.Context) {
	user := c.GetString(middlewares.ContextUserKey)

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
	for _, upload := range uploads {
		if ctrl.MaxUploadSize > 0 && upload.Size > ctrl.MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, tool.FastReturnError("Archivo supera el tamano permitido"))
			return
		}
	}

	jobID := uuid.NewString()
	total := len(uploads)
	tool.DefaultLogger.Infof("[Convert] Job %s: %d file(s) from user %s", jobID, total, user)
	models.UpdateProgress(user, 0, "Iniciando conversion")

	var output bytes.Buffer
	archive := zip.NewWriter(&output)
	var workbooks [][]byte
	var logLines []string
	okCount, errCount := 0, 0
	failReason := ""

	for i, upload := range uploads {
		name := filepath.Base(upload.Filename)
		if name == "" || name == "." {
			name = fmt.Sprintf("archivo_%d.pdf", i+1)
		}
		models.UpdateProgress(user, i*100/total, "Procesando "+name)

		data, err := readUpload(upload.Open())
		if err == nil {
			var xlsx []byte
			xlsx, err = ctrl.Extractor.Extract(c.Request.Context(), name, data)
			if err == nil {
				stem := strings.TrimSuffix(name, filepath.Ext(name))
				err = writeArchiveFile(archive, stem+".xlsx", xlsx)
				if err == nil {
					workbooks = append(workbooks, xlsx)
				}
			}
		}

		if err != nil {
			errCount++
			message := fmt.Sprintf("%s: ERROR - %v", name, err)
			if failReason == "" {
				failReason = message
			}
			logLines = append(logLines, message)
			tool.DefaultLogger.Errorf("[Convert] Job %s: %s", jobID, message)
			if writeErr := writeArchiveFile(archive, name+"-ERROR.txt", []byte(message)); writeErr != nil {
				tool.DefaultLogger.Errorf("[Convert] Job %s: failed to record error note: %v", jobID, writeErr)
			}
		} else {
			okCount++
			logLines = append(logLines, fmt.Sprintf("%s: OK", name))
		}

		models.UpdateProgress(user, (i+1)*100/total, "Completado "+name)
	}

	if len(workbooks) > 0 {
		merged, err := MergeWorkbooks(workbooks)
		if err != nil {
			tool.DefaultLogger.Errorf("[Convert] Job %s: consolidation failed: %v", jobID, err)
			logLines = append(logLines, "No se pudo generar consolidado")
		} else if err := writeArchiveFile(archive, "consolidado.xlsx", merged); err != nil {
			tool.DefaultLogger.Errorf("[Convert] Job %s: failed to add consolidado: %v", jobID, err)
		} else {
			logLines = append(logLines, "Consolidado generado con exito")
		}
	} else {
		logLines = append(logLines, "No se pudo generar consolidado")
	}

	if err := writeArchiveFile(archive, "log.txt", []byte(strings.Join(logLines, "\n"))); err != nil {
		tool.DefaultLogger.Errorf("[Convert] Job %s: failed to add log: %v", jobID, err)
	}
	if err := archive.Close(); err != nil {
		models.UpdateProgress(user, 100, "Finalizado")
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to build result archive"))
		return
	}

	models.UpdateProgress(user, 100, "Finalizado")
	if ctrl.Logs != nil {
		ctrl.Logs.Append(types.LogRecord{
			User:   user,
			Date:   time.Now().Format("2006-01-02"),
			OK:     okCount,
			Errors: errCount,
			Reason: failReason,
		})
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", ResultArchiveName))
	c.Data(http.StatusOK, "application/zip", output.Bytes())
}

func readUpload(f io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %v", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			tool.DefaultLogger.Errorf("Failed to close upload: %v", closeErr)
		}
	}()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %v", err)
	}
	return data, nil
}

func writeArchiveFile(archive *zip.Writer, name string, data []byte) error {
	w, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s in archive: %v", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s to archive: %v", name, err)
	}
	return nil
}
