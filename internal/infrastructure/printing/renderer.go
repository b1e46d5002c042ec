package printing

import (
	"context"
	"errors"
	"time"

	"github.com/foodcourt/pos/internal/domain/printing"
)

// Render failure codes
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateMissing  = "TEMPLATE_MISSING"
	ErrCodeQRFailed         = "QR_FAILED"
)

// RenderRequest is one HTML document to print on the paper described by Layout.
// A zero Timeout uses the renderer's default.
type RenderRequest struct {
	HTML    string
	Layout  printing.Layout
	Title   string
	Timeout time.Duration
}

// RenderResult is the PDF produced for a RenderRequest
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer turns receipts, KOT slips and bills into PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError is a printing failure tagged with one of the ErrCode values
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }

// Temporary reports whether a retry can succeed; only timeouts qualify since
// the browser pool frees up again
func (e *RenderError) Temporary() bool { return e.Code == ErrCodeRenderTimeout }

// IsTemporary reports whether err carries a temporary RenderError
func IsTemporary(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr) && renderErr.Temporary()
}
