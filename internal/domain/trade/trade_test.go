package trade

import (
	"errors"
	"testing"

	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLines() []LineInput {
	return []LineInput{
		{ItemID: uuid.New(), ItemName: "Paneer Tikka", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("5")},
		{ItemID: uuid.New(), ItemName: "Lime Soda", Quantity: dec("1"), UnitPrice: dec("50")},
	}
}

func createTestSale(t *testing.T, charges Charges, received string) *Sale {
	t.Helper()
	s, err := NewSale(uuid.New(), "MGGST20240115-0001", SaleInput{
		BillType:       BillTypeGST,
		Lines:          testLines(),
		Charges:        charges,
		PaymentMethod:  PaymentMethodCash,
		AmountReceived: dec(received),
	})
	require.NoError(t, err)
	return s
}

func errCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================
// Pricing Tests
// ============================================

func TestNewPricing_GrandTotalFormula(t *testing.T) {
	p, err := NewPricing(dec("250"), dec("10"), Charges{
		DiscountAmount: dec("20"),
		ServiceCharge:  dec("12.5"),
		ACCharge:       dec("5"),
		WaiterTip:      dec("10"),
		RoundOff:       dec("-0.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "267.00", p.GrandTotal.StringFixed(2))
	assert.True(t, p.IsConsistent())
}

func TestNewPricing_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		charges Charges
	}{
		{"negative discount", Charges{DiscountAmount: dec("-1")}},
		{"negative service charge", Charges{ServiceCharge: dec("-1")}},
		{"negative tip", Charges{WaiterTip: dec("-0.01")}},
		{"discount above bill", Charges{DiscountAmount: dec("500")}},
		{"round off drives total negative", Charges{DiscountAmount: dec("110"), RoundOff: dec("-1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPricing(dec("100"), dec("10"), tt.charges)
			require.Error(t, err)
			assert.Equal(t, shared.CodeValidationFailed, errCode(err))
		})
	}
}

func TestCharges_Validate_NamesFirstNegativeCharge(t *testing.T) {
	allNegative := Charges{DiscountAmount: dec("-1"), ServiceCharge: dec("-1"), ACCharge: dec("-1"), WaiterTip: dec("-1")}
	for i := 0; i < 20; i++ {
		err := allNegative.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "discount cannot be negative")
	}

	err := Charges{ServiceCharge: dec("-2"), WaiterTip: dec("-3")}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service charge cannot be negative")

	assert.NoError(t, Charges{RoundOff: dec("-0.4")}.Validate())
}

func TestPricing_VerifyClientTotal(t *testing.T) {
	p, err := NewPricing(dec("100"), dec("5"), Charges{})
	require.NoError(t, err)

	assert.NoError(t, p.VerifyClientTotal(decimal.Zero))
	assert.NoError(t, p.VerifyClientTotal(dec("105")))
	assert.NoError(t, p.VerifyClientTotal(dec("105.01")))

	err = p.VerifyClientTotal(dec("104.98"))
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidationFailed, errCode(err))
	assert.Contains(t, err.Error(), "105.00")
}

func TestLineAmounts(t *testing.T) {
	total, tax := LineAmounts(dec("3"), dec("33.33"), dec("18"))
	assert.Equal(t, "99.99", total.StringFixed(2))
	assert.Equal(t, "18.00", tax.StringFixed(2))
}

// ============================================
// Payment Tests
// ============================================

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		received string
		total    string
		want     PaymentStatus
	}{
		{"0", "100", PaymentStatusPending},
		{"40", "100", PaymentStatusPartial},
		{"100", "100", PaymentStatusPaid},
		{"150", "100", PaymentStatusPaid},
		{"0", "0", PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.received+"/"+tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(dec(tt.received), dec(tt.total)))
		})
	}
}

func TestNewPayment_Validation(t *testing.T) {
	p, err := NewPayment("", dec("10"), dec("20"))
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, p.Method)
	assert.Equal(t, "10.00", p.Balance(dec("20")).StringFixed(2))
	assert.True(t, p.Balance(dec("5")).IsZero())

	_, err = NewPayment("cheque", dec("10"), dec("20"))
	assert.Equal(t, shared.CodeValidationFailed, errCode(err))

	_, err = NewPayment(PaymentMethodUPI, dec("-1"), dec("20"))
	assert.Equal(t, shared.CodeValidationFailed, errCode(err))
}

// ============================================
// Sale Tests
// ============================================

func TestNewSale_DerivesPricingAndPayment(t *testing.T) {
	s := createTestSale(t, Charges{ServiceCharge: dec("10")}, "100")

	assert.Equal(t, SaleStatusCompleted, s.Status)
	require.Len(t, s.Items, 2)
	assert.Equal(t, "200.00", s.Items[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "10.00", s.Items[0].TaxAmount.StringFixed(2))
	assert.Equal(t, s.ID, s.Items[0].SaleID)
	assert.Equal(t, "250.00", s.Pricing.SubTotal.StringFixed(2))
	assert.Equal(t, "10.00", s.Pricing.TaxAmount.StringFixed(2))
	assert.Equal(t, "270.00", s.Pricing.GrandTotal.StringFixed(2))
	assert.Equal(t, PaymentStatusPartial, s.Payment.Status)

	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSaleCreated, events[0].EventType())
}

func TestNewSale_Validation(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name   string
		number string
		in     SaleInput
	}{
		{"unknown bill type", "X1", SaleInput{BillType: "proforma", Lines: testLines()}},
		{"missing number", "", SaleInput{BillType: BillTypeGST, Lines: testLines()}},
		{"no lines", "X1", SaleInput{BillType: BillTypeGST}},
		{"zero quantity", "X1", SaleInput{BillType: BillTypeGST, Lines: []LineInput{{ItemID: uuid.New(), Quantity: decimal.Zero, UnitPrice: dec("1")}}}},
		{"missing item", "X1", SaleInput{BillType: BillTypeGST, Lines: []LineInput{{Quantity: dec("1"), UnitPrice: dec("1")}}}},
		{"tax above 100", "X1", SaleInput{BillType: BillTypeGST, Lines: []LineInput{{ItemID: uuid.New(), Quantity: dec("1"), UnitPrice: dec("1"), TaxRate: dec("101")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSale(tenantID, tt.number, tt.in)
			require.Error(t, err)
			assert.Equal(t, shared.CodeValidationFailed, errCode(err))
		})
	}
}

func TestBillType_SequenceKind(t *testing.T) {
	assert.Equal(t, sequence.KindGSTBill, BillTypeGST.SequenceKind())
	assert.Equal(t, sequence.KindEstimateBill, BillTypeEstimate.SequenceKind())
}

func TestSale_ApplyCoupon(t *testing.T) {
	s := createTestSale(t, Charges{DiscountAmount: dec("10")}, "250")
	require.NoError(t, s.ApplyCoupon(" save10 ", dec("25")))

	assert.Equal(t, "SAVE10", s.CouponCode)
	assert.Equal(t, "35.00", s.Pricing.DiscountAmount.StringFixed(2))
	assert.Equal(t, "225.00", s.Pricing.GrandTotal.StringFixed(2))
	assert.Equal(t, PaymentStatusPaid, s.Payment.Status)
}

func TestSale_RecordPayment(t *testing.T) {
	s := createTestSale(t, Charges{}, "0")
	assert.Equal(t, PaymentStatusPending, s.Payment.Status)

	require.NoError(t, s.RecordPayment(PaymentMethodUPI, dec("260")))
	assert.Equal(t, PaymentStatusPaid, s.Payment.Status)
	assert.Equal(t, PaymentMethodUPI, s.Payment.Method)
	assert.Equal(t, 2, s.GetVersion())
}

func TestSale_Cancel(t *testing.T) {
	s := createTestSale(t, Charges{}, "260")
	require.NoError(t, s.Cancel("wrong table"))
	assert.True(t, s.IsCancelled())
	assert.NotNil(t, s.CancelledAt)
	assert.Equal(t, "wrong table", s.CancelReason)

	err := s.Cancel("again")
	assert.Equal(t, shared.CodeInvalidState, errCode(err))
	err = s.RecordPayment(PaymentMethodCash, dec("1"))
	assert.Equal(t, shared.CodeInvalidState, errCode(err))
	err = s.ApplyCoupon("X", dec("1"))
	assert.Equal(t, shared.CodeInvalidState, errCode(err))
}

// ============================================
// Purchase Tests
// ============================================

func createTestPurchase(t *testing.T) *Purchase {
	t.Helper()
	p, err := NewPurchase(uuid.New(), "PUR20240115-0001", PurchaseInput{
		VendorName:    "Fresh Farms",
		InvoiceNumber: "INV-77",
		Lines:         testLines(),
	})
	require.NoError(t, err)
	return p
}

func TestPurchaseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from PurchaseStatus
		to   PurchaseStatus
		want bool
	}{
		{PurchaseStatusOrdered, PurchaseStatusReceived, true},
		{PurchaseStatusOrdered, PurchaseStatusCancelled, true},
		{PurchaseStatusReceived, PurchaseStatusCancelled, false},
		{PurchaseStatusCancelled, PurchaseStatusReceived, false},
		{PurchaseStatusReceived, PurchaseStatusOrdered, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPurchase(t *testing.T) {
	p := createTestPurchase(t)
	assert.Equal(t, PurchaseStatusOrdered, p.Status)
	assert.Equal(t, "260.00", p.Pricing.GrandTotal.StringFixed(2))
	assert.Equal(t, PaymentStatusPending, p.Payment.Status)
	assert.Equal(t, p.ID, p.Items[0].PurchaseID)
	assert.True(t, p.CanDelete())

	_, err := NewPurchase(uuid.New(), "PUR1", PurchaseInput{Lines: testLines()})
	assert.Equal(t, shared.CodeValidationFailed, errCode(err))
}

func TestPurchase_Receive(t *testing.T) {
	p := createTestPurchase(t)
	p.ClearDomainEvents()

	require.NoError(t, p.Receive())
	assert.Equal(t, PurchaseStatusReceived, p.Status)
	assert.NotNil(t, p.ReceivedAt)
	assert.False(t, p.CanDelete())

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	received, ok := events[0].(*PurchaseEvent)
	require.True(t, ok)
	assert.Len(t, received.Items, 2)

	assert.Equal(t, shared.CodeInvalidTransition, errCode(p.Receive()))
	assert.Equal(t, shared.CodeInvalidTransition, errCode(p.Cancel()))
	assert.Equal(t, shared.CodeInvalidState, errCode(p.MarkDeleted()))
}

func TestPurchase_Cancel(t *testing.T) {
	p := createTestPurchase(t)
	require.NoError(t, p.Cancel())
	assert.NotNil(t, p.CancelledAt)
	assert.True(t, p.CanDelete())
	assert.NoError(t, p.MarkDeleted())

	err := p.RecordPayment(PaymentMethodCash, dec("10"))
	assert.Equal(t, shared.CodeInvalidState, errCode(err))
}
