package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable/internal/dto"
	"github.com/noah-isme/campus-timetable/internal/service"
	appErrors "github.com/noah-isme/campus-timetable/pkg/errors"
	"github.com/noah-isme/campus-timetable/pkg/response"
)

// ExportHandler renders a generated Result to CSV/PDF and serves it back
// behind a signed, time-limited token.
type ExportHandler struct {
	export *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Generate renders the requested dataset and returns a signed download reference.
func (h *ExportHandler) Generate(c *gin.Context) {
	var req dto.ExportRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.export.Generate(service.ExportRequest{
		Kind:     service.ExportKind(req.Kind),
		Format:   service.ExportFormat(req.Format),
		TargetID: req.TargetID,
		Result:   &req.Result,
	})
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	response.JSON(c, http.StatusOK, dto.ExportResponse{
		Token:     result.Token,
		URL:       result.URL,
		Format:    string(result.Format),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	}, nil)
}

// Download streams the file behind a signed token.
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	_, relPath, _, err := h.export.ParseToken(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export not found or expired"))
		return
	}

	f, err := h.export.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export not found"))
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", "attachment")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, f)
}
