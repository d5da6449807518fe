// Package capgains computes tax-reportable realized capital gains and
// losses from brokerage trade-activity exports.
//
// The core functionalities include:
//   - Trade Matching: pairing each sell against prior buy lots held in a
//     strict FIFO queue per instrument, emitting one realized result per
//     lot portion consumed.
//   - Deemed Acquisition Cost: an optional alternative cost basis computed
//     as a percentage of the selling price (20%, or 40% after ten years of
//     ownership), applied per matched portion whenever it is more
//     favorable than the actual cost.
//   - Exchange Rates: historical daily euro cross-rates published by the
//     European Central Bank, fetched once per process, cached through a
//     pluggable store (local disk, S3, or Google Cloud Storage), and
//     resolved with a bounded fallback to the previous trading day.
//   - Report Aggregation: running totals of sell proceeds, gains, and
//     losses plus an ordered, append-only sequence of disposal details.
//
// All monetary values and rates use exact decimal arithmetic; binary
// floating point never appears on a money path.
//
// This package serves as the foundational logic for the `cgt` command-line
// tool. Statement parsing lives in the ibkr subpackage and rate snapshot
// persistence in the ratestore subpackage.
package capgains
