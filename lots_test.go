package capgains

import (
	"testing"
	"time"
)

func TestLotQueue_FIFOConsumption(t *testing.T) {
	var q lotQueue
	q.push(lot{Date: day(2023, time.January, 1), Quantity: Q(10), Cost: EUR(100)})
	q.push(lot{Date: day(2023, time.January, 2), Quantity: Q(10), Cost: EUR(300)})

	taken, acquired, cost := q.consume(Q(4))
	if !taken.Equal(Q(4)) || acquired != day(2023, time.January, 1) || !cost.Equal(EUR(40)) {
		t.Errorf("consume(4) = %s on %s for %s, want 4 on 2023-01-01 for 40 EUR", taken, acquired, cost)
	}

	// The residual lot keeps the exact remainder.
	if got := q.front().Cost; !got.Equal(EUR(60)) {
		t.Errorf("front cost = %s, want 60 EUR", got)
	}

	// Draining the first lot returns its remaining cost as-is.
	taken, _, cost = q.consume(Q(100))
	if !taken.Equal(Q(6)) || !cost.Equal(EUR(60)) {
		t.Errorf("consume(100) = %s for %s, want 6 for 60 EUR", taken, cost)
	}

	// Now the second lot is at the front.
	taken, acquired, cost = q.consume(Q(10))
	if !taken.Equal(Q(10)) || acquired != day(2023, time.January, 2) || !cost.Equal(EUR(300)) {
		t.Errorf("consume(10) = %s on %s for %s, want the full second lot", taken, acquired, cost)
	}
	if !q.empty() {
		t.Error("queue not empty after consuming both lots")
	}
}

func TestLotQueue_CostNeverLost(t *testing.T) {
	// Consuming a lot in awkward thirds returns its cost exactly once.
	var q lotQueue
	q.push(lot{Date: day(2023, time.January, 1), Quantity: Q(3), Cost: EUR(100)})

	var total Money
	for !q.empty() {
		_, _, cost := q.consume(Q(1))
		total = total.Add(cost)
	}
	if !total.Equal(EUR(100)) {
		t.Errorf("total consumed cost = %s, want exactly 100 EUR", total)
	}
}

func TestLotQueue_Available(t *testing.T) {
	var q lotQueue
	if !q.available().IsZero() {
		t.Errorf("available() = %s on empty queue, want 0", q.available())
	}
	q.push(lot{Date: day(2023, time.January, 1), Quantity: Q(10), Cost: EUR(100)})
	q.push(lot{Date: day(2023, time.January, 2), Quantity: Q(5), Cost: EUR(50)})

	// consume takes from one lot at a time: 12 drains the first lot,
	// the remaining 2 come from the second.
	taken, _, _ := q.consume(Q(12))
	if !taken.Equal(Q(10)) {
		t.Errorf("consume(12) = %s, want 10 (the whole front lot)", taken)
	}
	q.consume(Q(2))
	if got := q.available(); !got.Equal(Q(3)) {
		t.Errorf("available() = %s, want 3", got)
	}
}
