// Package models defines the core domain models for Cheq.
//
// # Current Models
//
//   - Bill: a published bill with its line items and tax/tip policy
//   - Item: a single claimable line item on a bill
//   - ClaimEvent: an immutable record of one committed claim transition
//
// Guests are identified by self-reported display names (no user accounts).
// The label "HOST" is reserved for items the bill's author keeps for
// themselves.
//
// # Design Principles
//
//  1. **Authoritative vs local**: these models describe server-owned state
//     only. A guest's uncommitted selection never appears here; it lives in
//     the client and is replaced, not merged, after every commit attempt.
//  2. **One-way claims**: an item's ClaimedBy moves from empty to a single
//     label exactly once. Nothing in the model reverts a claim; a host
//     "reset" is a brand-new bill.
//  3. **Exact money**: prices and rates are decimals. Rounding to two
//     places happens at display time only.
package models
