package printing

import (
	"github.com/foodcourt/pos/internal/domain/shared"
)

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a Margins value, each side between 0 and 50mm
func NewMargins(top, right, bottom, left int) (Margins, error) {
	for _, v := range []int{top, right, bottom, left} {
		if v < 0 || v > 50 {
			return Margins{}, shared.NewValidationError("margins must be between 0 and 50mm")
		}
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// ReceiptMargins returns minimal margins for receipt rolls
func ReceiptMargins() Margins {
	return Margins{Top: 2, Right: 2, Bottom: 2, Left: 2}
}

// PageMargins returns the margins for cut sheets
func PageMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// Layout is the page setup a slip is rendered with
type Layout struct {
	Paper       PaperSize   `json:"paper"`
	Orientation Orientation `json:"orientation"`
	Margins     Margins     `json:"margins"`
}

// NewLayout validates a paper size and picks margins that suit it
func NewLayout(paper PaperSize) (Layout, error) {
	if !paper.IsValid() {
		return Layout{}, shared.NewValidationError("unknown paper size %q", paper)
	}
	l := Layout{Paper: paper, Orientation: OrientationPortrait, Margins: PageMargins()}
	if paper.IsReceipt() {
		l.Margins = ReceiptMargins()
	}
	return l, nil
}

// DefaultLayout returns the layout a document type prints with when none is configured
func DefaultLayout(doc DocType) Layout {
	paper := PaperSizeReceipt80MM
	if doc == DocTypePurchaseOrder {
		paper = PaperSizeA4
	}
	l, _ := NewLayout(paper)
	return l
}

// Document is a rendered slip ready to be printed or exported to PDF
type Document struct {
	Type     DocType `json:"type"`
	Number   string  `json:"number"`
	Layout   Layout  `json:"layout"`
	HTML     string  `json:"-"`
	FileName string  `json:"fileName"`
}
