// Package models defines the core domain models for the group request tools.
//
// # Models
//
//   - Recipient: one person read from the recipients table
//   - Outcome: which bucket a recipient ended up in after a dispatch run
//   - Run: one dispatch run and the per-recipient results, as stored in the ledger
//
// Recipients are identified by their payment handle. The handle "no-account"
// marks a person that has no account on file; nobody is ever charged for it.
//
// # Design Principles
//
// 1. **Immutable inputs**: a Recipient is built once from a table row and never changed
// 2. **Plain values**: amounts travel as decimal.Decimal, never float64
// 3. **No pointers between models**: runs reference recipients by position
package models
