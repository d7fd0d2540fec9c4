package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"vvf-listone/internal/dto"
	"vvf-listone/internal/service"
	"vvf-listone/pkg/response"
)

// ExportHandler Listone exports
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// GenerateDocument renders the posted Listone payload to PDF.
// Errors are plain text, not the JSON envelope.
// POST /generate-document, POST /api/generate-pdf
func (h *ExportHandler) GenerateDocument(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Text(c, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		response.Text(c, http.StatusBadRequest, "Missing data")
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		response.Text(c, http.StatusBadRequest, "Missing data")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		response.Text(c, http.StatusBadRequest, "Invalid data: expected a JSON object")
		return
	}

	pdf, filename, err := h.exportSvc.GenerateListonePDF(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrExportMissingPayload) {
			response.Text(c, http.StatusBadRequest, "Missing data")
			return
		}
		response.Text(c, http.StatusInternalServerError, "Error generating PDF: "+err.Error())
		return
	}

	c.Set(ctxKeyExportFile, filename)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportSheet stored events of one day as a spreadsheet
// GET /api/v1/export/listone.xlsx?date=YYYY-MM-DD
func (h *ExportHandler) ExportSheet(c *gin.Context) {
	var q dto.ExportSheetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid query")
		return
	}

	buf, filename, err := h.exportSvc.ExportListoneSheet(c.Request.Context(), q.Date)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Set(ctxKeyExportFile, filename)
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13001, "date must be YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
