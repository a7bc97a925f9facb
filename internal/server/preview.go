package server

import (
	"errors"
	"net/http"
	"strings"

	obsctx "github.com/AbdelrahmanM1/invoicemaker/internal/observability/context"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/gin-gonic/gin"
)

const previewMissingText = "Preview not found or expired"

type createPreviewRequest struct {
	TemplateID  string         `json:"templateId"`
	InvoiceData map[string]any `json:"invoiceData"`
}

// @Summary      Create Preview
// @Description  Render invoice data into a template and cache the result
// @Tags         preview
// @Accept       json
// @Produce      json
// @Param        request body createPreviewRequest true "Preview request"
// @Success      200  {object}  previewdomain.CreateResponse
// @Router       /preview [post]
func (s *Server) CreatePreview(c *gin.Context) {
	var req createPreviewRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := s.previewSvc.Create(c.Request.Context(), previewdomain.CreateRequest{
		TemplateID: strings.TrimSpace(req.TemplateID),
		Data:       req.InvoiceData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"previewId":  resp.PreviewID,
		"previewUrl": resp.PreviewURL,
	})
}

// ServePreview returns the rendered HTML. Misses are plain text, not JSON,
// since the page is opened directly by browsers.
func (s *Server) ServePreview(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Request = c.Request.WithContext(obsctx.WithPreviewID(c.Request.Context(), id))

	p, err := s.previewSvc.Resolve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, previewdomain.ErrNotFound) || errors.Is(err, previewdomain.ErrInvalidID) {
			c.String(http.StatusNotFound, previewMissingText)
			return
		}
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(p.HTML))
}
