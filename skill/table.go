package skill

import (
	"math"
	"strconv"
)

// Bucket is one row of a Table. A rating r belongs to the bucket when
// Lower <= r < Upper; the last row also holds +Inf.
type Bucket struct {
	Label string
	Lower float64
	Upper float64
	Index int
}

// Table is the explicit, label-keyed form of a Categorizer. Labels read
// "<1100", "1100-1199", ..., ">=2000".
type Table struct {
	buckets []Bucket
	byLabel map[string]int
}

// NewTable expands a Categorizer into its bucket rows, ordered by Index.
func NewTable(c Categorizer) *Table {
	t := &Table{byLabel: make(map[string]int)}
	add := func(label string, lo, hi float64) {
		b := Bucket{Label: label, Lower: lo, Upper: hi, Index: len(t.buckets)}
		t.buckets = append(t.buckets, b)
		t.byLabel[label] = b.Index
	}

	add("<"+itoa(c.Start), math.Inf(-1), c.Start)
	for lo := c.Start; lo < c.End; lo += c.Interval {
		hi := lo + c.Interval
		add(itoa(lo)+"-"+itoa(hi-1), lo, hi)
	}
	add(">="+itoa(c.End), c.End, math.Inf(1))
	return t
}

// Categorize scans the rows for the bucket containing rating.
func (t *Table) Categorize(rating float64) int {
	for _, b := range t.buckets {
		if rating >= b.Lower && (rating < b.Upper || math.IsInf(b.Upper, 1)) {
			return b.Index
		}
	}
	return 0
}

// Lookup returns the index for a bucket label.
func (t *Table) Lookup(label string) (int, bool) {
	i, ok := t.byLabel[label]
	return i, ok
}

// Buckets returns a copy of the rows.
func (t *Table) Buckets() []Bucket {
	out := make([]Bucket, len(t.buckets))
	copy(out, t.buckets)
	return out
}

// Len is the number of buckets.
func (t *Table) Len() int { return len(t.buckets) }

func itoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
