package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ NextNumber Tests ============

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		dateKey  string
		existing []string
		width    int
		want     string
	}{
		{
			name:    "empty day starts at one",
			prefix:  "KOT",
			dateKey: "20240115",
			width:   3,
			want:    "KOT20240115001",
		},
		{
			name:     "increments the max suffix",
			prefix:   "KOT",
			dateKey:  "20240115",
			existing: []string{"KOT20240115001", "KOT20240115007", "KOT20240115003"},
			width:    3,
			want:     "KOT20240115008",
		},
		{
			name:     "ignores other days and prefixes",
			prefix:   "MGGST",
			dateKey:  "20240115",
			existing: []string{"MGGST202401140099", "MGEST202401150050", "MGGST202401150002"},
			width:    4,
			want:     "MGGST202401150003",
		},
		{
			name:     "ignores malformed suffixes",
			prefix:   "PUR",
			dateKey:  "20240115",
			existing: []string{"PUR20240115abc", "PUR202401150004"},
			width:    4,
			want:     "PUR202401150005",
		},
		{
			name:     "overflow keeps all digits",
			prefix:   "KOT",
			dateKey:  "20240115",
			existing: []string{"KOT20240115999"},
			width:    3,
			want:     "KOT202401151000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextNumber(tt.prefix, tt.dateKey, tt.existing, tt.width))
		})
	}
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "20240105", DateKey(ts))
}

// ============ Generator Tests ============

type memoryCounter struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{values: make(map[string]int64)}
}

func (c *memoryCounter) Next(_ context.Context, tenantID uuid.UUID, prefix, dateKey string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := tenantID.String() + prefix + dateKey
	c.values[key]++
	return c.values[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerator_Next(t *testing.T) {
	counter := newMemoryCounter()
	gen := NewGenerator(counter, time.UTC).WithClock(fixedClock(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
	tenantID := uuid.New()
	ctx := context.Background()

	first, err := gen.Next(ctx, tenantID, KindKOT)
	require.NoError(t, err)
	assert.Equal(t, "KOT20240115001", first)

	second, err := gen.Next(ctx, tenantID, KindKOT)
	require.NoError(t, err)
	assert.Equal(t, "KOT20240115002", second)

	bill, err := gen.Next(ctx, tenantID, KindGSTBill)
	require.NoError(t, err)
	assert.Equal(t, "MGGST202401150001", bill)

	other, err := gen.Next(ctx, uuid.New(), KindKOT)
	require.NoError(t, err)
	assert.Equal(t, "KOT20240115001", other)
}

func TestGenerator_AgreesWithNextNumber(t *testing.T) {
	day := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	gen := NewGenerator(newMemoryCounter(), time.UTC).WithClock(fixedClock(day))
	tenantID := uuid.New()
	ctx := context.Background()

	for _, kind := range []Kind{KindKOT, KindGSTBill, KindPurchase} {
		var issued []string
		for i := 0; i < 12; i++ {
			want := NextNumber(kind.Prefix, DateKey(day), issued, kind.Width)
			got, err := gen.Next(ctx, tenantID, kind)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			issued = append(issued, got)
		}
	}
}

func TestGenerator_UsesConfiguredZone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	gen := NewGenerator(newMemoryCounter(), kolkata).
		WithClock(fixedClock(time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)))

	number, err := gen.Next(context.Background(), uuid.New(), KindPurchase)
	require.NoError(t, err)
	assert.Equal(t, "PUR202401160001", number)
}

func TestGenerator_CounterError(t *testing.T) {
	counter := newMemoryCounter()
	counter.err = errors.New("db down")
	gen := NewGenerator(counter, time.UTC)

	_, err := gen.Next(context.Background(), uuid.New(), KindKOT)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestGenerator_ConcurrentCallsYieldDistinctNumbers(t *testing.T) {
	gen := NewGenerator(newMemoryCounter(), time.UTC)
	tenantID := uuid.New()

	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Next(context.Background(), tenantID, KindKOT)
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for number := range results {
		assert.False(t, seen[number], "duplicate %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, n)
}
