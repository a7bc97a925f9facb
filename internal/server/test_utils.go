package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestSweep runs the preview retention sweep on demand. It is only routed
// outside production, for end-to-end tests that cannot wait an hour.
func (s *Server) TestSweep(c *gin.Context) {
	if s.cfg.Environment == "production" {
		AbortWithError(c, ErrNotFound)
		return
	}

	removed, err := s.previewSvc.Sweep(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}
