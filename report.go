package capgains

import "iter"

// MatchResult is one realized disposal: the portion of a sell matched
// against a single buy lot. A sell spanning several lots yields several
// results. Values are expressed in the reporting currency. Immutable
// once produced.
type MatchResult struct {
	Symbol    string
	Quantity  Quantity
	BuyDate   Date
	SellDate  Date
	Proceeds  Money // prorated share of the sell's proceeds
	CostBasis Money // FIFO-derived or deemed acquisition cost, whichever was chosen
	Realized  Money // Proceeds - CostBasis, signed
}

// Report accumulates realized disposals into running totals and an
// ordered detail sequence. It is owned by the caller and mutated by
// successive Ledger.AddTrades calls; it is never implicitly reset.
//
// Sign convention: Gains sums the positive realized results, Losses sums
// the magnitude of the negative ones, so both totals are non-negative
// and net result = Gains - Losses.
type Report struct {
	Prices  Money // total sell proceeds
	Gains   Money // total positive realized results
	Losses  Money // total negative realized results, as a positive magnitude
	details []MatchResult
}

// NewReport returns an empty report accumulating values in the given
// reporting currency.
func NewReport(currency string) *Report {
	return &Report{
		Prices: M(0, currency),
		Gains:  M(0, currency),
		Losses: M(0, currency),
	}
}

// add folds one realized disposal into the totals and the detail list.
func (r *Report) add(m MatchResult) {
	r.Prices = r.Prices.Add(m.Proceeds)
	if m.Realized.IsNegative() {
		r.Losses = r.Losses.Sub(m.Realized)
	} else {
		r.Gains = r.Gains.Add(m.Realized)
	}
	r.details = append(r.details, m)
}

// Net returns the net realized result, Gains - Losses.
func (r *Report) Net() Money { return r.Gains.Sub(r.Losses) }

// Len returns the number of realized disposals accumulated so far.
func (r *Report) Len() int { return len(r.details) }

// Details iterates over the realized disposals in original match order.
// The sequence is restartable and reflects the report at call time.
func (r *Report) Details() iter.Seq[MatchResult] {
	details := r.details
	return func(yield func(MatchResult) bool) {
		for _, m := range details {
			if !yield(m) {
				return
			}
		}
	}
}
