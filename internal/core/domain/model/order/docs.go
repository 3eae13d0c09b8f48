// Package order provides the Order aggregate: the escrowed sale of one listing
// moving from payment through pickup and delivery to completion, or to a
// refund or cancellation.
//
// The package includes:
//   - Order: the aggregate root holding the fee breakdown, escrow state, handoff codes and status history
//   - Status: a closed enum of lifecycle states
//   - Trigger: the events that move an order, checked against a single transition table
//
// Key business rules:
//   - Every transition appends one history entry and bumps the version
//   - A disputed order is frozen until an admin resolves the dispute
//   - Terminal states (completed, refunded, cancelled) accept no trigger
//   - Buyer confirmation and auto-confirmation share one completion path
package order
