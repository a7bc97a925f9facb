package server

import (
	"net/http"

	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

type saveInvoiceRequest struct {
	InvoiceID   string         `json:"invoiceId"`
	TemplateID  string         `json:"templateId"`
	InvoiceData map[string]any `json:"invoiceData"`
}

// @Summary      Save Invoice
// @Description  Store or replace invoice data under a client-chosen id
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body saveInvoiceRequest true "Invoice to save"
// @Router       /invoices/save [post]
func (s *Server) SaveInvoice(c *gin.Context) {
	var req saveInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := s.invoiceSvc.Save(c.Request.Context(), invoicedomain.SaveRequest{
		InvoiceID:  req.InvoiceID,
		TemplateID: req.TemplateID,
		Data:       req.InvoiceData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Invoice saved successfully",
		"invoiceId": saved.ID,
	})
}

// @Summary      Get Invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.SavedInvoice
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoiceByID(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"invoice": inv,
	})
}

// @Summary      List Invoices
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  []invoicedomain.Summary
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	list, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"invoices": list,
	})
}
