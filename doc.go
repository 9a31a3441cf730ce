// Package dashboard provides the data model and the retrieval side of a
// portfolio dashboard. A remote aggregation service computes a Snapshot of the
// portfolio (holdings grouped by sector, with investment, present value,
// gain/loss and portfolio share already computed) and this package fetches and
// decodes it.
//
// The core functionalities include:
//   - Snapshot Model: Stock, SectorSummary and Snapshot, with exact decimal
//     value types (Money, Quantity, Percent, Ratio) and explicit absence
//     (Maybe) so that missing figures are never confused with zero.
//   - Snapshot Retrieval: the Fetcher interface and its HTTP implementation,
//     which reports every failure as a single kind of error (ErrFetch).
//   - Display Formatting: Currency formats amounts with exactly two decimals
//     behind the currency symbol.
//
// The figures in a Snapshot are trusted as given: nothing in this module
// recomputes or verifies the upstream aggregates.
//
// Periodic refresh lives in package poll (and in package tui for the terminal
// dashboard); turning a Snapshot into display text lives in package renderer.
package dashboard
