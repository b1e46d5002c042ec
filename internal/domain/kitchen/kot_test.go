package kitchen

import (
	"regexp"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name string, qty int, price int64) LineInput {
	return LineInput{
		ItemID:   uuid.New(),
		ItemName: name,
		Quantity: qty,
		Price:    decimal.NewFromInt(price),
	}
}

func createTestKOT(t *testing.T, lines ...LineInput) *KOT {
	t.Helper()
	if len(lines) == 0 {
		lines = []LineInput{line("Masala Tea", 2, 50)}
	}
	kot, err := NewKOT(uuid.New(), "KOT20240115001", "T1", "Tea Shop (KOT1)", lines)
	require.NoError(t, err)
	return kot
}

func assertTotalInvariant(t *testing.T, kot *KOT) {
	t.Helper()
	sum := decimal.Zero
	for _, l := range kot.Items {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, kot.TotalAmount.Equal(sum), "total %s != sum %s", kot.TotalAmount, sum)
}

// ============ Creation Tests ============

func TestNewKOT_Scenario(t *testing.T) {
	kot := createTestKOT(t)

	assert.True(t, kot.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, KOTStatusActive, kot.Status)
	assert.Regexp(t, regexp.MustCompile(`^KOT\d{8}\d{3}$`), kot.KOTNumber)
	require.Len(t, kot.Items, 1)
	assert.Equal(t, ItemStatusPending, kot.Items[0].Status)
	assert.Equal(t, kot.ID, kot.Items[0].KOTID)
	assert.True(t, kot.Items[0].TotalAmount.Equal(decimal.NewFromInt(100)))
	require.Len(t, kot.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeKOTCreated, kot.GetDomainEvents()[0].EventType())
}

func TestNewKOT_Validation(t *testing.T) {
	tenantID := uuid.New()
	tests := []struct {
		name    string
		number  string
		table   string
		kotType string
		lines   []LineInput
	}{
		{"missing number", "", "T1", "Tea Shop (KOT1)", []LineInput{line("Tea", 1, 10)}},
		{"missing table", "KOT1", " ", "Tea Shop (KOT1)", []LineInput{line("Tea", 1, 10)}},
		{"missing type", "KOT1", "T1", "", []LineInput{line("Tea", 1, 10)}},
		{"no lines", "KOT1", "T1", "Tea Shop (KOT1)", nil},
		{"zero quantity", "KOT1", "T1", "Tea Shop (KOT1)", []LineInput{line("Tea", 0, 10)}},
		{"negative price", "KOT1", "T1", "Tea Shop (KOT1)", []LineInput{line("Tea", 1, -10)}},
		{"nil item id", "KOT1", "T1", "Tea Shop (KOT1)", []LineInput{{ItemName: "Tea", Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKOT(tenantID, tt.number, tt.table, tt.kotType, tt.lines)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

// ============ Transition Table Tests ============

func TestItemStatus_CanTransitionTo(t *testing.T) {
	all := []ItemStatus{ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed, ItemStatusCancelled}
	allowed := map[ItemStatus][]ItemStatus{
		ItemStatusPending:   {ItemStatusPreparing, ItemStatusReady, ItemStatusServed, ItemStatusCancelled},
		ItemStatusPreparing: {ItemStatusReady, ItemStatusServed, ItemStatusCancelled},
		ItemStatusReady:     {ItemStatusServed, ItemStatusCancelled},
		ItemStatusServed:    {},
		ItemStatusCancelled: {},
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, ItemStatusPending.CanTransitionTo(ItemStatus("burnt")))
}

func TestParseItemStatus(t *testing.T) {
	s, err := ParseItemStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, ItemStatusReady, s)

	_, err = ParseItemStatus("burnt")
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

// ============ Item Status Update Tests ============

func TestUpdateItemStatus_ServedCompletesSingleLineTicket(t *testing.T) {
	kot := createTestKOT(t)
	before := time.Now()

	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusServed))

	assert.Equal(t, KOTStatusCompleted, kot.Status)
	require.NotNil(t, kot.CompletedAt)
	assert.False(t, kot.CompletedAt.Before(before))
	require.NotNil(t, kot.Items[0].ServedAt)
	assertTotalInvariant(t, kot)
}

func TestUpdateItemStatus_StampsTimestamps(t *testing.T) {
	kot := createTestKOT(t, line("Tea", 1, 10), line("Coffee", 1, 20))
	id := kot.Items[0].ID

	require.NoError(t, kot.UpdateItemStatus(id, ItemStatusPreparing))
	assert.Nil(t, kot.Items[0].PreparedAt)

	require.NoError(t, kot.UpdateItemStatus(id, ItemStatusReady))
	assert.NotNil(t, kot.Items[0].PreparedAt)
	assert.Nil(t, kot.Items[0].ServedAt)

	require.NoError(t, kot.UpdateItemStatus(id, ItemStatusServed))
	assert.NotNil(t, kot.Items[0].ServedAt)
	assert.Equal(t, KOTStatusActive, kot.Status, "second line still pending")
}

func TestUpdateItemStatus_CompletesWhenMixOfServedAndCancelled(t *testing.T) {
	kot := createTestKOT(t, line("Tea", 1, 10), line("Coffee", 2, 20))

	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusCancelled))
	assert.Equal(t, KOTStatusActive, kot.Status)

	require.NoError(t, kot.UpdateItemStatus(kot.Items[1].ID, ItemStatusServed))
	assert.Equal(t, KOTStatusCompleted, kot.Status)
	assert.NotNil(t, kot.CompletedAt)
	assertTotalInvariant(t, kot)
	assert.True(t, kot.TotalAmount.Equal(decimal.NewFromInt(50)))
}

func TestUpdateItemStatus_Errors(t *testing.T) {
	kot := createTestKOT(t, line("Tea", 1, 10), line("Coffee", 1, 20))
	id := kot.Items[0].ID

	err := kot.UpdateItemStatus(uuid.New(), ItemStatusReady)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = kot.UpdateItemStatus(id, ItemStatus("burnt"))
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)

	require.NoError(t, kot.UpdateItemStatus(id, ItemStatusReady))
	err = kot.UpdateItemStatus(id, ItemStatusPending)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	require.NoError(t, kot.UpdateItemStatus(id, ItemStatusServed))
	err = kot.UpdateItemStatus(id, ItemStatusCancelled)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestUpdateItemStatus_SameStatusIsNoop(t *testing.T) {
	kot := createTestKOT(t)
	kot.ClearDomainEvents()
	version := kot.Version

	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusPending))
	assert.Equal(t, version, kot.Version)
	assert.Empty(t, kot.GetDomainEvents())

	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusServed))
	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusServed), "retry after completion")
}

func TestUpdateItemStatus_ResolvesByCatalogItemID(t *testing.T) {
	kot := createTestKOT(t)
	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ItemID, ItemStatusPreparing))
	assert.Equal(t, ItemStatusPreparing, kot.Items[0].Status)
}

func TestUpdateItemStatus_EmitsEvents(t *testing.T) {
	kot := createTestKOT(t)
	kot.ClearDomainEvents()

	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusServed))
	events := kot.GetDomainEvents()
	require.Len(t, events, 2)
	changed, ok := events[0].(*KOTItemStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, ItemStatusPending, changed.From)
	assert.Equal(t, ItemStatusServed, changed.To)
	assert.Equal(t, EventTypeKOTCompleted, events[1].EventType())
}

// ============ Ticket Level Tests ============

func TestComplete_ForcesServedExceptCancelled(t *testing.T) {
	kot := createTestKOT(t, line("Tea", 1, 10), line("Coffee", 1, 20), line("Bun", 3, 5))
	require.NoError(t, kot.UpdateItemStatus(kot.Items[1].ID, ItemStatusCancelled))
	require.NoError(t, kot.UpdateItemStatus(kot.Items[2].ID, ItemStatusReady))

	require.NoError(t, kot.Complete())

	assert.Equal(t, KOTStatusCompleted, kot.Status)
	assert.NotNil(t, kot.CompletedAt)
	assert.Equal(t, ItemStatusServed, kot.Items[0].Status)
	assert.NotNil(t, kot.Items[0].ServedAt)
	assert.Equal(t, ItemStatusCancelled, kot.Items[1].Status)
	assert.Nil(t, kot.Items[1].ServedAt)
	assert.Equal(t, ItemStatusServed, kot.Items[2].Status)
	assertTotalInvariant(t, kot)

	require.NoError(t, kot.Complete(), "completing twice is a no-op")
}

func TestCancel(t *testing.T) {
	kot := createTestKOT(t, line("Tea", 1, 10), line("Coffee", 1, 20))
	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusServed))

	require.NoError(t, kot.Cancel("guest left"))
	assert.Equal(t, KOTStatusCancelled, kot.Status)
	assert.NotNil(t, kot.CancelledAt)
	assert.Equal(t, ItemStatusServed, kot.Items[0].Status)
	assert.Equal(t, ItemStatusCancelled, kot.Items[1].Status)
	assert.Contains(t, kot.Notes, "guest left")

	assert.ErrorIs(t, kot.Complete(), shared.ErrInvalidState)
	_, err := kot.AddItem(line("Bun", 1, 5))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	require.NoError(t, kot.Cancel(""), "cancelling twice is a no-op")
}

func TestMutationsKeepTotalInvariant(t *testing.T) {
	kot := createTestKOT(t)

	_, err := kot.AddItem(line("Samosa", 3, 15))
	require.NoError(t, err)
	assertTotalInvariant(t, kot)
	assert.True(t, kot.TotalAmount.Equal(decimal.NewFromInt(145)))

	require.NoError(t, kot.ReplaceItems([]LineInput{line("Coffee", 4, 25)}))
	assertTotalInvariant(t, kot)
	assert.True(t, kot.TotalAmount.Equal(decimal.NewFromInt(100)))

	require.NoError(t, kot.UpdateDetails("T9", "", "ORD-1", "no sugar", CustomerDetails{Name: " Asha "}))
	assertTotalInvariant(t, kot)
	assert.Equal(t, "T9", kot.TableNumber)
	assert.Equal(t, "Tea Shop (KOT1)", kot.KOTType)
	assert.Equal(t, "Asha", kot.Customer.Name)

	assert.False(t, kot.MarkPrinted())
	assert.NotNil(t, kot.PrintedAt)
	assert.True(t, kot.MarkPrinted(), "second print is a reprint")
	assertTotalInvariant(t, kot)

	// a stale total is corrected by the recompute that runs before save
	kot.TotalAmount = decimal.NewFromInt(1)
	kot.RecalculateTotal()
	assertTotalInvariant(t, kot)

	assert.ErrorIs(t, kot.ReplaceItems(nil), shared.ErrValidation)
}

func TestStatusCounts(t *testing.T) {
	kot := createTestKOT(t, line("Tea", 1, 10), line("Coffee", 1, 20), line("Bun", 1, 5))
	require.NoError(t, kot.UpdateItemStatus(kot.Items[0].ID, ItemStatusReady))
	counts := kot.StatusCounts()
	assert.Equal(t, 2, counts[ItemStatusPending])
	assert.Equal(t, 1, counts[ItemStatusReady])
}
