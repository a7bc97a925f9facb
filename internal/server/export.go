package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	"github.com/AbdelrahmanM1/invoicemaker/internal/export"
	obsctx "github.com/AbdelrahmanM1/invoicemaker/internal/observability/context"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type exportRequest struct {
	PreviewID string `json:"previewId"`
}

// @Summary      Export PDF
// @Description  Print a preview to an A4 PDF
// @Tags         export
// @Accept       json
// @Produce      application/pdf
// @Param        request body exportRequest true "Preview to export"
// @Router       /export/pdf [post]
func (s *Server) ExportPDF(c *gin.Context) {
	s.exportPreview(c, export.FormatPDF)
}

// @Summary      Export PNG
// @Description  Full page screenshot of a preview
// @Tags         export
// @Accept       json
// @Produce      png
// @Param        request body exportRequest true "Preview to export"
// @Router       /export/png [post]
func (s *Server) ExportPNG(c *gin.Context) {
	s.exportPreview(c, export.FormatPNG)
}

func (s *Server) exportPreview(c *gin.Context, format export.Format) {
	var req exportRequest
	if !bindJSON(c, &req) {
		return
	}
	previewID := strings.TrimSpace(req.PreviewID)
	if previewID == "" {
		AbortWithError(c, previewdomain.ErrInvalidID)
		return
	}

	ctx := obsctx.WithPreviewID(c.Request.Context(), previewID)
	c.Request = c.Request.WithContext(ctx)

	if _, err := s.previewSvc.Resolve(ctx, previewID); err != nil {
		AbortWithError(c, err)
		return
	}

	// The browser loads the page through the public preview route, the same
	// one clients use.
	url := s.cfg.PublicBaseURL + previewdomain.Path(previewID)
	start := s.clock.Now()
	data, err := s.exporter.Render(ctx, url, format)
	s.previewMetrics.ObserveExport(string(format), err != nil, s.clock.Now().Sub(start))
	if err != nil {
		s.log.Warn("export failed",
			zap.String("preview_id", previewID),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		AbortWithError(c, exportError{format: format, err: err})
		return
	}

	s.bus.Emit(ctx, events.EventDocumentExported, previewID, events.ExportPayload{
		PreviewID: previewID,
		Format:    string(format),
		Bytes:     len(data),
	}.ToMap())

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.%s", previewID, format))
	c.Data(http.StatusOK, format.ContentType(), data)
}
