package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AbdelrahmanM1/invoicemaker/internal/events"
	"github.com/AbdelrahmanM1/invoicemaker/internal/export"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	"github.com/gin-gonic/gin"
)

type updateTemplatesRequest struct {
	NewTemplates json.RawMessage `json:"newTemplates"`
}

// @Summary      List Templates
// @Description  List the template catalog without HTML
// @Tags         templates
// @Produce      json
// @Success      200  {object}  []templatedomain.Summary
// @Router       /templates [get]
func (s *Server) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": s.templateSvc.List(),
	})
}

// @Summary      Get Template
// @Description  Get a template including its HTML
// @Tags         templates
// @Produce      json
// @Param        id   path      string  true  "Template ID"
// @Success      200  {object}  templatedomain.Template
// @Router       /templates/{id} [get]
func (s *Server) GetTemplateByID(c *gin.Context) {
	tmpl, err := s.templateSvc.Get(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"template": tmpl,
	})
}

// @Summary      Template Thumbnail
// @Description  PNG thumbnail of a template rendered with sample data
// @Tags         templates
// @Produce      png
// @Param        id   path      string  true  "Template ID"
// @Router       /templates/{id}/thumbnail [get]
func (s *Server) GetTemplateThumbnail(c *gin.Context) {
	tmpl, err := s.templateSvc.Get(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	html, err := s.renderer.RenderHTML(render.RenderInput{
		TemplateID: tmpl.ID,
		HTML:       tmpl.HTML,
		Record:     render.RecordFromMap(s.templateSvc.Sample()),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	img, err := s.thumbnails.Thumbnail(c.Request.Context(), tmpl.ID, html)
	if err != nil {
		AbortWithError(c, exportError{format: export.FormatPNG, err: err})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", img)
}

// @Summary      Append Templates
// @Description  Add templates whose id is not yet in the catalog
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request body updateTemplatesRequest true "New templates"
// @Router       /templates/update [post]
func (s *Server) UpdateTemplates(c *gin.Context) {
	var req updateTemplatesRequest
	if !bindJSON(c, &req) {
		return
	}

	raw := strings.TrimSpace(string(req.NewTemplates))
	if !strings.HasPrefix(raw, "[") {
		AbortWithError(c, newValidationError("newTemplates", "required", "New templates array is required"))
		return
	}
	var templates []templatedomain.Template
	if err := json.Unmarshal(req.NewTemplates, &templates); err != nil {
		AbortWithError(c, newValidationError("newTemplates", "invalid", "New templates array is required"))
		return
	}

	before := s.templateSvc.Len()
	total := s.templateSvc.Append(templates)
	if added := total - before; added > 0 {
		s.bus.Emit(c.Request.Context(), events.EventTemplatesAppended, "", map[string]any{
			"added": added,
			"total": total,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Templates updated successfully",
		"totalTemplates": total,
	})
}
