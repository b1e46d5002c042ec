package printing

import (
	"embed"
	"fmt"

	"github.com/foodcourt/pos/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate is a built-in template and the layout it is designed for
type DefaultTemplate struct {
	DocType  printing.DocType
	Name     string
	Layout   printing.Layout
	FilePath string // Path within embed.FS
}

// GetDefaultTemplates returns the built-in templates, one per document type
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			DocType:  printing.DocTypeKOTSlip,
			Name:     "Kitchen ticket 80mm",
			Layout:   printing.DefaultLayout(printing.DocTypeKOTSlip),
			FilePath: "templates/kot_slip.html",
		},
		{
			DocType:  printing.DocTypeGSTBill,
			Name:     "Tax invoice 80mm",
			Layout:   printing.DefaultLayout(printing.DocTypeGSTBill),
			FilePath: "templates/bill_receipt.html",
		},
		{
			DocType:  printing.DocTypeEstimateBill,
			Name:     "Estimate 80mm",
			Layout:   printing.DefaultLayout(printing.DocTypeEstimateBill),
			FilePath: "templates/bill_receipt.html",
		},
		{
			DocType:  printing.DocTypePurchaseOrder,
			Name:     "Purchase order A4",
			Layout:   printing.DefaultLayout(printing.DocTypePurchaseOrder),
			FilePath: "templates/purchase_order_a4.html",
		},
	}
}

// LoadTemplateContent reads a template from the embedded filesystem
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", filePath, err)
	}
	return string(content), nil
}

// DefaultTemplateFor returns the built-in template of a document type, or nil
func DefaultTemplateFor(docType printing.DocType) *DefaultTemplate {
	for _, t := range GetDefaultTemplates() {
		if t.DocType == docType {
			return &t
		}
	}
	return nil
}
