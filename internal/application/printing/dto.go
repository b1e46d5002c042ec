package printing

import (
	"github.com/foodcourt/pos/internal/domain/printing"
)

// Output formats a print can be returned in
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// PrintRequest selects the paper and output format of a print.
// Empty values fall back to the document type's default layout and PDF.
type PrintRequest struct {
	PaperSize string `form:"paperSize" json:"paperSize"`
	Format    string `form:"format" json:"format" binding:"omitempty,oneof=pdf html"`
}

// QRRequest sets the size of a payment QR in pixels
type QRRequest struct {
	Size int `form:"size" binding:"omitempty,min=64,max=1024"`
}

// Output is a rendered document ready to be streamed to the client
type Output struct {
	Document    printing.Document
	Content     []byte
	ContentType string
	PageCount   int
}

// QRCode is a PNG payment QR and the UPI link it encodes
type QRCode struct {
	PNG     []byte
	Payload string
}
