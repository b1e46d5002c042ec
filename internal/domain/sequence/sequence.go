// Package sequence produces human-readable document numbers such as
// KOT20240115001 or MGGST202401150007.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a numbered document family
type Kind struct {
	Prefix string
	Width  int
}

// Document number families
var (
	KindKOT          = Kind{Prefix: "KOT", Width: 3}
	KindGSTBill      = Kind{Prefix: "MGGST", Width: 4}
	KindEstimateBill = Kind{Prefix: "MGEST", Width: 4}
	KindPurchase     = Kind{Prefix: "PUR", Width: 4}
)

// DateKey formats a day as YYYYMMDD
func DateKey(t time.Time) string {
	return t.Format("20060102")
}

// Format renders prefix + dateKey + seq zero-padded to width.
// A sequence wider than width is rendered in full rather than truncated.
func Format(prefix, dateKey string, seq int64, width int) string {
	return fmt.Sprintf("%s%s%0*d", prefix, dateKey, width, seq)
}

// NextNumber returns the number following the highest suffix among existing numbers
// that start with prefix+dateKey. With no matching numbers the sequence starts at 1.
// Entries that do not carry the prefix or whose suffix is not numeric are ignored.
//
// NextNumber is the numbering rule stated over a list of issued numbers. It is not
// safe for live numbering, since two callers reading the same list get the same
// result. Documents are numbered by Generator, whose Counter applies the same rule
// atomically: for any day, Generator.Next returns what NextNumber would return over
// the numbers issued so far.
func NextNumber(prefix, dateKey string, existing []string, width int) string {
	head := prefix + dateKey
	var max int64
	for _, number := range existing {
		if !strings.HasPrefix(number, head) {
			continue
		}
		n, err := strconv.ParseInt(number[len(head):], 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return Format(prefix, dateKey, max+1, width)
}

// Counter hands out strictly increasing values per (tenant, prefix, dateKey).
// Implementations must be atomic across concurrent callers.
type Counter interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix, dateKey string) (int64, error)
}

// Generator formats counter values into document numbers for a time zone
type Generator struct {
	counter  Counter
	location *time.Location
	now      func() time.Time
}

// NewGenerator creates a Generator. A nil location means the server's local zone.
func NewGenerator(counter Counter, location *time.Location) *Generator {
	if location == nil {
		location = time.Local
	}
	return &Generator{
		counter:  counter,
		location: location,
		now:      time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next returns the next number of the given kind for today
func (g *Generator) Next(ctx context.Context, tenantID uuid.UUID, kind Kind) (string, error) {
	dateKey := DateKey(g.now().In(g.location))
	seq, err := g.counter.Next(ctx, tenantID, kind.Prefix, dateKey)
	if err != nil {
		return "", fmt.Errorf("next %s sequence: %w", kind.Prefix, err)
	}
	return Format(kind.Prefix, dateKey, seq, kind.Width), nil
}

// WithCounter returns a Generator sharing this one's clock and zone but drawing
// from another counter, typically one bound to an open transaction.
func (g *Generator) WithCounter(counter Counter) *Generator {
	return &Generator{
		counter:  counter,
		location: g.location,
		now:      g.now,
	}
}
