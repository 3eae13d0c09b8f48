// Package services provides domain services that span several aggregates of
// the escrow engine.
//
// The package includes:
//   - Settlement: turns an order outcome into the ledger entries that move its escrow
//   - PenaltyPolicy: applies a dispute penalty to the penalised member
package services
