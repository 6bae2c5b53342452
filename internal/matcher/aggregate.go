package matcher

import (
	"sort"

	"github.com/shopspring/decimal"

	"revenue-reconciliation-service/internal/models"
)

// AggregatePosPayments groups POS payments by (transaction date, method),
// summing amounts. Groups are returned in key order so a run is reproducible
// regardless of map iteration.
func AggregatePosPayments(payments []*models.Payment) []*models.AggregatedPosPayment {
	groups := make(map[string]*models.AggregatedPosPayment)

	for _, p := range payments {
		key := BucketKey(p.DateKey(), p.Method.Method)
		g, ok := groups[key]
		if !ok {
			g = &models.AggregatedPosPayment{
				Date:   p.TransactionDate,
				Method: p.Method,
				Amount: decimal.Zero,
				Status: p.Status,
			}
			groups[key] = g
		}
		g.Amount = g.Amount.Add(p.Amount)
		g.Payments = append(g.Payments, p)
	}

	return sortedGroups(groups)
}

// AggregatePosDeposits groups POS deposits by (transaction date, method),
// summing amounts
func AggregatePosDeposits(deposits []*models.PosDeposit) []*models.AggregatedPosDeposit {
	groups := make(map[string]*models.AggregatedPosDeposit)

	for _, d := range deposits {
		key := BucketKey(d.DateKey(), d.Method.Method)
		g, ok := groups[key]
		if !ok {
			g = &models.AggregatedPosDeposit{
				Date:   d.TransactionDate,
				Method: d.Method,
				Amount: decimal.Zero,
				Status: d.Status,
			}
			groups[key] = g
		}
		g.Amount = g.Amount.Add(d.Amount)
		g.Deposits = append(g.Deposits, d)
	}

	return sortedGroups(groups)
}

// AggregateCashPayments groups cash payments by fiscal close date, summing
// amounts. One group corresponds to the cash expected in one day's deposit.
func AggregateCashPayments(payments []*models.Payment) []*models.AggregatedCashPayment {
	groups := make(map[string]*models.AggregatedCashPayment)

	for _, p := range payments {
		date := p.FiscalCloseDate
		if date.IsZero() {
			date = p.TransactionDate
		}
		key := date.Format(models.DateFormat)

		g, ok := groups[key]
		if !ok {
			g = &models.AggregatedCashPayment{
				LocationID: p.LocationID,
				Date:       date,
				Amount:     decimal.Zero,
				Status:     p.Status,
			}
			groups[key] = g
		}
		g.Amount = g.Amount.Add(p.Amount)
		g.Payments = append(g.Payments, p)
	}

	return sortedGroups(groups)
}

// sortedGroups flattens a group map into a slice ordered by key
func sortedGroups[G any](groups map[string]G) []G {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]G, 0, len(groups))
	for _, k := range keys {
		out = append(out, groups[k])
	}
	return out
}
