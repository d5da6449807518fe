package capgains

// lot represents a single open purchase of an instrument, awaiting
// matching against a future sell.
type lot struct {
	Date       Date     // acquisition date
	Quantity   Quantity // remaining unconsumed quantity
	Cost       Money    // remaining cost in the reporting currency
	NativeCost Money    // original cost as paid, kept for audit
}

// lotQueue holds the open lots of one instrument in strict FIFO order.
// Lots are never re-sorted after insertion; same-day buys keep insertion
// order. The head index advances as lots are fully consumed, giving
// amortized O(1) pop-from-front without a linked structure.
type lotQueue struct {
	lots []lot
	head int
}

// push appends a new open lot at the back of the queue.
func (q *lotQueue) push(l lot) {
	q.lots = append(q.lots, l)
}

// front returns the earliest open lot. It must not be called on an
// empty queue.
func (q *lotQueue) front() *lot {
	return &q.lots[q.head]
}

// pop discards the earliest open lot once fully consumed.
func (q *lotQueue) pop() {
	q.lots[q.head] = lot{} // release for gc
	q.head++
	if q.head == len(q.lots) {
		q.lots = q.lots[:0]
		q.head = 0
	}
}

// empty reports whether there is no open lot left.
func (q *lotQueue) empty() bool {
	return q.head == len(q.lots)
}

// available is the total open quantity across all lots in the queue.
func (q *lotQueue) available() Quantity {
	var total Quantity
	for _, l := range q.lots[q.head:] {
		total = total.Add(l.Quantity)
	}
	return total
}

// consume takes up to want from the front lot, removing it when drained.
// It returns the consumed quantity, the acquisition date, and the exact
// cost of the consumed portion in the reporting currency.
//
// A partial consumption prorates the lot's remaining cost by quantity
// and subtracts the portion from the lot, so the residual lot keeps the
// exact remainder. The final portion takes the remaining cost as-is:
// summed over all portions, a lot's cost is returned exactly once.
func (q *lotQueue) consume(want Quantity) (taken Quantity, acquired Date, cost Money) {
	l := q.front()
	acquired = l.Date
	if l.Quantity.GreaterThan(want) {
		taken = want
		cost = l.Cost.Mul(taken).Div(l.Quantity)
		l.Quantity = l.Quantity.Sub(taken)
		l.Cost = l.Cost.Sub(cost)
		return taken, acquired, cost
	}
	taken = l.Quantity
	cost = l.Cost
	q.pop()
	return taken, acquired, cost
}
