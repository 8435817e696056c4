// Package skill maps ratings to the discrete categories the network was
// trained with.
package skill

import "math"

// Categorizer buckets ratings into one "below" bucket, (End-Start)/Interval
// interior buckets and one "above" bucket.
type Categorizer struct {
	Start    float64
	End      float64
	Interval float64
}

// Trained is the configuration the released weights expect: 1100..2000 in
// steps of 100, eleven buckets in total.
var Trained = Categorizer{Start: 1100, End: 2000, Interval: 100}

// Count returns the number of buckets.
func (c Categorizer) Count() int {
	return int((c.End-c.Start)/c.Interval) + 2
}

// Categorize returns the bucket of a rating. Every real number maps to a
// bucket in [0, Count()-1]; NaN falls into the lowest bucket.
func (c Categorizer) Categorize(rating float64) int {
	switch {
	case !(rating >= c.Start):
		return 0
	case rating >= c.End:
		return c.Count() - 1
	default:
		return int(math.Floor((rating-c.Start)/c.Interval)) + 1
	}
}
