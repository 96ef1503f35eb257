// Package models defines the core domain types for the expense ledger:
// users, groups and memberships, expenses with per-participant splits, and
// payments with their confirmation lifecycle.
//
// Monetary fields are money.Amount (integer cents) everywhere; decimal
// representations exist only at the API boundary. Relationships are held as
// ID strings rather than pointers to avoid circular references.
package models
