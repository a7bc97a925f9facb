package server

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/AbdelrahmanM1/invoicemaker/internal/export"
	invoicedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoice/domain"
	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	templatedomain "github.com/AbdelrahmanM1/invoicemaker/internal/invoicetemplate/domain"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrRateLimited = errors.New("rate_limited")
	ErrBodyTooBig  = errors.New("request_body_too_large")
)

const internalErrorMessage = "Something went wrong!"

// errorResponse is the envelope returned for every failure.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code,omitempty"`
}

type validationError struct {
	field   string
	code    string
	message string
}

func (e validationError) Error() string {
	return e.code
}

func newValidationError(field, code, message string) error {
	return validationError{field: field, code: code, message: message}
}

func invalidRequestError() error {
	return newValidationError("body", "invalid_request", "Invalid request body")
}

// exportError reports a failed browser render for a given format.
type exportError struct {
	format export.Format
	err    error
}

func (e exportError) Error() string {
	return fmt.Sprintf("%s export: %v", e.format, e.err)
}

func (e exportError) Unwrap() error {
	return e.err
}

func (e exportError) message() string {
	switch e.format {
	case export.FormatPNG:
		return "Failed to export PNG"
	default:
		return "Failed to export PDF"
	}
}

// AbortWithError writes the JSON envelope for err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	status, resp := errorEnvelope(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func errorEnvelope(err error) (int, errorResponse) {
	var (
		verr validationError
		xerr exportError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Message: verr.message, Field: verr.field, Code: verr.code}
	case errors.As(err, &xerr):
		return http.StatusInternalServerError, errorResponse{Message: xerr.message(), Error: xerr.err.Error()}

	case errors.Is(err, templatedomain.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{Message: "Template ID is required"}
	case errors.Is(err, templatedomain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "Template not found"}
	case errors.Is(err, render.ErrMalformedTemplate):
		return http.StatusBadRequest, errorResponse{Message: "Template is malformed", Error: err.Error()}

	case errors.Is(err, previewdomain.ErrInvalidRequest):
		return http.StatusBadRequest, errorResponse{Message: "Template ID and invoice data are required"}
	case errors.Is(err, previewdomain.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{Message: "Preview ID is required"}
	case errors.Is(err, previewdomain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "Preview not found"}

	case errors.Is(err, invoicedomain.ErrInvalidSaveRequest):
		return http.StatusBadRequest, errorResponse{Message: "Invoice ID, template ID, and invoice data are required"}
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID):
		return http.StatusBadRequest, errorResponse{Message: "Invoice ID is required"}
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return http.StatusNotFound, errorResponse{Message: "Invoice not found"}

	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest, errorResponse{Message: "Unsupported export format"}
	case errors.Is(err, ErrBodyTooBig):
		return http.StatusRequestEntityTooLarge, errorResponse{Message: "Request body too large"}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorResponse{Message: "Too many export requests, try again later"}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "Endpoint not found"}
	default:
		return http.StatusInternalServerError, errorResponse{Message: internalErrorMessage}
	}
}

// recoveryMiddleware converts panics into the 500 envelope. The panic value
// is only echoed back in development.
func recoveryMiddleware(log *zap.Logger, development bool) gin.HandlerFunc {
	log = log.Named("recovery")
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if errors.Is(asError(rec), http.ErrAbortHandler) {
				panic(rec)
			}
			log.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("route", c.FullPath()),
				zap.String("method", c.Request.Method),
				zap.ByteString("stack", debug.Stack()),
			)
			resp := errorResponse{Message: internalErrorMessage}
			if development {
				resp.Error = fmt.Sprint(rec)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}

func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return nil
}
