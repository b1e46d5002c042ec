package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocType_IsValid(t *testing.T) {
	tests := []struct {
		doc   DocType
		valid bool
	}{
		{DocTypeKOTSlip, true},
		{DocTypeGSTBill, true},
		{DocTypeEstimateBill, true},
		{DocTypePurchaseOrder, true},
		{DocType("SALES_RETURN"), false},
		{DocType(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.doc), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.doc.IsValid())
		})
	}
	assert.Equal(t, "Tax Invoice", DocTypeGSTBill.DisplayName())
}

func TestPaperSize_Dimensions(t *testing.T) {
	w, h := PaperSizeReceipt58MM.Dimensions()
	assert.Equal(t, 58, w)
	assert.Zero(t, h)
	w, h = PaperSizeA4.Dimensions()
	assert.Equal(t, 210, w)
	assert.Equal(t, 297, h)
	assert.True(t, PaperSizeReceipt80MM.IsReceipt())
	assert.False(t, PaperSizeA5.IsReceipt())
}

func TestNewMargins(t *testing.T) {
	m, err := NewMargins(5, 5, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Left)

	_, err = NewMargins(-1, 0, 0, 0)
	assert.Error(t, err)
	_, err = NewMargins(0, 51, 0, 0)
	assert.Error(t, err)
}

func TestLayouts(t *testing.T) {
	assert.Equal(t, PaperSizeReceipt80MM, DefaultLayout(DocTypeKOTSlip).Paper)
	assert.Equal(t, ReceiptMargins(), DefaultLayout(DocTypeGSTBill).Margins)
	assert.Equal(t, PaperSizeA4, DefaultLayout(DocTypePurchaseOrder).Paper)
	assert.Equal(t, PageMargins(), DefaultLayout(DocTypePurchaseOrder).Margins)

	_, err := NewLayout("LETTER")
	assert.Error(t, err)
}
