package printing

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "decimal", in: decimal.RequireFromString("1234.5"), want: "₹1,234.50"},
		{name: "int", in: 50, want: "₹50.00"},
		{name: "negative", in: decimal.NewFromInt(-75), want: "-₹75.00"},
		{name: "string", in: "0.005", want: "₹0.01"},
		{name: "unsupported", in: struct{}{}, want: "₹0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.in))
		})
	}

	assert.Contains(t, formatAmount(decimal.RequireFromString("123456.78")), "23,456.78")
}

func TestFormatQtyAndPercent(t *testing.T) {
	assert.Equal(t, "2.5", formatQty(decimal.RequireFromString("2.5000")))
	assert.Equal(t, "3", formatQty(3))
	assert.Equal(t, "18%", formatPercent(decimal.NewFromInt(18)))
	assert.Equal(t, "2.5%", formatPercent("2.50"))
}

func TestTemplateEngine_DatesUseLocation(t *testing.T) {
	e := NewTemplateEngine(WithLocation(ist))
	at := time.Date(2026, 3, 14, 18, 45, 0, 0, time.UTC)

	assert.Equal(t, "15-03-2026", e.formatDate(at))
	assert.Equal(t, "15-03-2026 00:15", e.formatDateTime(&at))
	assert.Equal(t, "00:15", e.formatTime(at))
	assert.Empty(t, e.formatDate((*time.Time)(nil)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Paneer", truncate("Paneer", 10))
	assert.Equal(t, "Paneer ...", truncate("Paneer Butter Masala", 10))
	assert.Equal(t, "Pa", truncate("Paneer", 2))
}

func TestStatusTextAndDefault(t *testing.T) {
	assert.Equal(t, "UPI", statusText("upi"))
	assert.Equal(t, "Partially Paid", statusText("partial"))
	assert.Equal(t, "mystery", statusText("mystery"))
	assert.Equal(t, "Walk-in", defaultFunc("", "Walk-in"))
	assert.Equal(t, "Asha", defaultFunc("Asha", "Walk-in"))
}

func TestTemplateEngine_RenderString(t *testing.T) {
	e := NewTemplateEngine()
	ctx := context.Background()

	t.Run("binds data and escapes it", func(t *testing.T) {
		out, err := e.RenderString(ctx, "t", `<b>{{.Name}}</b> {{formatMoney .Amount}}`, map[string]any{
			"Name":   "<script>",
			"Amount": decimal.NewFromInt(99),
		})

		require.NoError(t, err)
		assert.Equal(t, "<b>&lt;script&gt;</b> ₹99.00", out)
	})

	t.Run("empty template", func(t *testing.T) {
		_, err := e.RenderString(ctx, "t", "", nil)
		assert.ErrorContains(t, err, "template content is empty")
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := e.RenderString(ctx, "t", "{{.Name", nil)
		assert.ErrorContains(t, err, "failed to parse template")
	})
}

func TestTemplateEngine_RenderKOTSlip(t *testing.T) {
	e := NewTemplateEngine(WithLocation(ist))
	createdAt := time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC)

	html, err := e.RenderDefault(context.Background(), printing.DocTypeKOTSlip, KOTSlip{
		Number:      "KOT-0042",
		TableNumber: "T7",
		KOTType:     "dine-in",
		CreatedAt:   createdAt,
		PrintedAt:   createdAt,
		Reprint:     true,
		Lines: []KOTSlipLine{
			{Name: "Paneer Tikka", Quantity: 2, Note: "less spicy"},
			{Name: "Lassi", Variant: "Large", Quantity: 1, Cancelled: true},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, html, "KOT KOT-0042")
	assert.Contains(t, html, "DINE-IN")
	assert.Contains(t, html, "** REPRINT **")
	assert.Contains(t, html, "Paneer Tikka")
	assert.Contains(t, html, "x2")
	assert.Contains(t, html, "&gt; less spicy")
	assert.Contains(t, html, "Lassi (Large)")
	assert.Contains(t, html, `class="cancelled"`)
	assert.Contains(t, html, "14-03-2026 12:30")
}

func TestTemplateEngine_RenderBill(t *testing.T) {
	e := NewTemplateEngine(WithLocation(ist))
	bill := Bill{
		Shop:   ShopInfo{Name: "Spice Court", GSTIN: "29ABCDE1234F1Z5"},
		Title:  printing.DocTypeGSTBill.DisplayName(),
		Number: "MGGST202603140001",
		Date:   time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		Lines: []DocumentLine{{
			Name:     "Masala Dosa",
			Quantity: decimal.NewFromInt(2),
			Price:    decimal.NewFromInt(80),
			TaxRate:  decimal.NewFromInt(5),
			Total:    decimal.NewFromInt(160),
		}},
		Totals: Totals{
			SubTotal:       decimal.NewFromInt(160),
			Tax:            decimal.NewFromInt(8),
			GrandTotal:     decimal.NewFromInt(168),
			AmountReceived: decimal.NewFromInt(100),
			Balance:        decimal.NewFromInt(68),
		},
		PaymentMethod: "upi",
		ShowTax:       true,
		UPIID:         "spicecourt@okbank",
		QRCode:        PNGDataURL([]byte{0x89, 'P', 'N', 'G'}),
	}

	t.Run("tax invoice", func(t *testing.T) {
		html, err := e.RenderDefault(context.Background(), printing.DocTypeGSTBill, bill)

		require.NoError(t, err)
		assert.Contains(t, html, "Tax Invoice")
		assert.Contains(t, html, "GSTIN: 29ABCDE1234F1Z5")
		assert.Contains(t, html, "@5%")
		assert.Contains(t, html, "₹168.00")
		assert.Contains(t, html, "Balance due")
		assert.Contains(t, html, "Paid (UPI)")
		assert.Contains(t, html, `src="data:image/png;base64,`)
		assert.NotContains(t, html, "CANCELLED")
	})

	t.Run("estimate hides tax", func(t *testing.T) {
		estimate := bill
		estimate.ShowTax = false
		estimate.Title = printing.DocTypeEstimateBill.DisplayName()
		estimate.QRCode = ""
		estimate.Cancelled = true

		html, err := e.RenderDefault(context.Background(), printing.DocTypeEstimateBill, estimate)

		require.NoError(t, err)
		assert.Contains(t, html, "Estimate")
		assert.NotContains(t, html, "GSTIN")
		assert.NotContains(t, html, "UPI QR")
		assert.Contains(t, html, "CANCELLED")
	})
}

func TestTemplateEngine_RenderPurchaseOrder(t *testing.T) {
	e := NewTemplateEngine()

	html, err := e.RenderDefault(context.Background(), printing.DocTypePurchaseOrder, PurchaseOrder{
		Number:     "PO-2026-0007",
		VendorName: "Meena Traders",
		Status:     "ordered",
		Lines: []DocumentLine{
			{Name: "Basmati Rice", Quantity: decimal.NewFromInt(25), Price: decimal.NewFromInt(90), TaxRate: decimal.NewFromInt(5), Total: decimal.NewFromInt(2362)},
			{Name: "Ghee", Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(600), Total: decimal.NewFromInt(3000)},
		},
		Totals:        Totals{GrandTotal: decimal.NewFromInt(5362), Balance: decimal.NewFromInt(5362)},
		PaymentStatus: "pending",
	})

	require.NoError(t, err)
	assert.Contains(t, html, "PO-2026-0007")
	assert.Contains(t, html, "Meena Traders")
	assert.Contains(t, html, "<td>2</td>")
	assert.Contains(t, html, "₹5,362.00")
	assert.Contains(t, html, "Balance (Pending)")
	assert.Contains(t, html, "Status: Ordered")
}

func TestDefaultTemplates(t *testing.T) {
	e := NewTemplateEngine()

	for _, def := range GetDefaultTemplates() {
		t.Run(string(def.DocType), func(t *testing.T) {
			assert.True(t, def.Layout.Paper.IsValid())
			content, err := LoadTemplateContent(def.FilePath)
			require.NoError(t, err)
			assert.Contains(t, content, "<!DOCTYPE html>")

			_, err = e.defaultTemplate(def.DocType)
			require.NoError(t, err)
		})
	}

	assert.Nil(t, DefaultTemplateFor("DELIVERY_NOTE"))
	_, err := e.RenderDefault(context.Background(), "DELIVERY_NOTE", nil)
	assert.ErrorContains(t, err, "no template")
	_, err = LoadTemplateContent("templates/missing.html")
	assert.Error(t, err)
}
