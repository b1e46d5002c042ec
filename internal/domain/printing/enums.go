package printing

// DocType represents the kind of slip being printed
type DocType string

const (
	DocTypeKOTSlip       DocType = "KOT_SLIP"
	DocTypeGSTBill       DocType = "GST_BILL"
	DocTypeEstimateBill  DocType = "ESTIMATE_BILL"
	DocTypePurchaseOrder DocType = "PURCHASE_ORDER"
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	switch d {
	case DocTypeKOTSlip, DocTypeGSTBill, DocTypeEstimateBill, DocTypePurchaseOrder:
		return true
	}
	return false
}

// DisplayName returns the heading printed on the slip
func (d DocType) DisplayName() string {
	switch d {
	case DocTypeKOTSlip:
		return "Kitchen Order Ticket"
	case DocTypeGSTBill:
		return "Tax Invoice"
	case DocTypeEstimateBill:
		return "Estimate"
	case DocTypePurchaseOrder:
		return "Purchase Order"
	default:
		return string(d)
	}
}

// PaperSize represents the paper the slip is laid out for
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"
	PaperSizeA5          PaperSize = "A5"
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM"
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM"
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeReceipt58MM, PaperSizeReceipt80MM:
		return true
	}
	return false
}

// Dimensions returns the paper size in millimeters. Receipt rolls have no fixed height.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeReceipt58MM:
		return 58, 0
	case PaperSizeReceipt80MM:
		return 80, 0
	default:
		return 210, 297
	}
}

// IsReceipt returns true for thermal receipt rolls
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt58MM || p == PaperSizeReceipt80MM
}

// Orientation represents the page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)
