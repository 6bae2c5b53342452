package matcher

import (
	"github.com/shopspring/decimal"

	"revenue-reconciliation-service/internal/models"
)

// Candidate is the shape a deposit-side record must expose to be indexed.
// Both single POS deposits and round-four aggregated groups implement it, so
// aggregates index exactly like single records.
type Candidate interface {
	NormalizedAmount() decimal.Decimal
	DateKey() string
	MethodCode() string
	CurrentStatus() models.MatchStatus
}

// BucketKey composes the second-level index key from a calendar-day key and
// a payment method code
func BucketKey(dateKey, method string) string {
	return dateKey + "-" + method
}

// DepositIndex is a two-level lookup over deposit candidates:
// normalized amount -> "{date}-{method}" -> ordered candidate list.
//
// The index is built fresh per run and shrinks as matches consume entries;
// an exhausted bucket is deleted so later lookups miss cleanly.
type DepositIndex[D Candidate] struct {
	buckets map[string]map[string][]D
	size    int
}

// NewDepositIndex builds the two-level index from a candidate set, keeping
// the input ordering within each bucket
func NewDepositIndex[D Candidate](deposits []D) *DepositIndex[D] {
	idx := &DepositIndex[D]{
		buckets: make(map[string]map[string][]D),
	}
	for _, d := range deposits {
		amountKey := models.AmountKey(d.NormalizedAmount())
		bucketKey := BucketKey(d.DateKey(), d.MethodCode())

		byDate, ok := idx.buckets[amountKey]
		if !ok {
			byDate = make(map[string][]D)
			idx.buckets[amountKey] = byDate
		}
		byDate[bucketKey] = append(byDate[bucketKey], d)
		idx.size++
	}
	return idx
}

// Lookup returns the candidates for an amount and bucket key, in insertion
// order. The returned slice is the live bucket; callers must not mutate it.
func (idx *DepositIndex[D]) Lookup(amount decimal.Decimal, bucketKey string) []D {
	byDate, ok := idx.buckets[models.AmountKey(amount)]
	if !ok {
		return nil
	}
	return byDate[bucketKey]
}

// Take scans the bucket for an amount and bucket key and removes the first
// candidate accepted by the predicate. An exhausted bucket is deleted, as is
// an exhausted amount level.
func (idx *DepositIndex[D]) Take(amount decimal.Decimal, bucketKey string, accept func(D) bool) (D, bool) {
	var zero D

	amountKey := models.AmountKey(amount)
	byDate, ok := idx.buckets[amountKey]
	if !ok {
		return zero, false
	}

	bucket := byDate[bucketKey]
	for i, d := range bucket {
		if !accept(d) {
			continue
		}

		remaining := append(bucket[:i:i], bucket[i+1:]...)
		if len(remaining) > 0 {
			byDate[bucketKey] = remaining
		} else {
			delete(byDate, bucketKey)
			if len(byDate) == 0 {
				delete(idx.buckets, amountKey)
			}
		}
		idx.size--
		return d, true
	}

	return zero, false
}

// Remaining returns every candidate still resident in the index
func (idx *DepositIndex[D]) Remaining() []D {
	out := make([]D, 0, idx.size)
	for _, byDate := range idx.buckets {
		for _, bucket := range byDate {
			out = append(out, bucket...)
		}
	}
	return out
}

// Size returns the number of candidates still resident in the index
func (idx *DepositIndex[D]) Size() int {
	return idx.size
}
