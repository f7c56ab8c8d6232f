// Package models defines the core domain models for Tripsplit.
//
// # Entities
//
//   - User: a registered participant, referenced by ID from groups and expenses
//   - Group: a set of users who share expenses
//   - Expense: a cost paid by one member and split among others
//   - Settlement: a recorded payment between members that reduces a debt
//
// # Derived values
//
//   - Balance: "from owes to amount", computed by the ledger, never persisted
//   - Transaction: one proposed payment in an optimized settlement plan
//
// # Design principles
//
//  1. **IDs over pointers**: relationships use ID strings to avoid circular references
//  2. **Decimal money**: amounts are shopspring decimals, never float64, so the
//     documented rounding rules (4 internal digits, 2 at presentation) are exact
//  3. **Tagged splits**: how an expense divides is a variant keyed by SplitType,
//     so validation can be exhaustive
//  4. **Derived values are transient**: balances and plans are recomputed on demand
//     from a frozen snapshot of a group's records
package models
