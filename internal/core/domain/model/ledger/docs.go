// Package ledger models the append-only record of money movements tied to an
// order. A transaction is only ever mutated from pending to completed or
// failed; everything else about it is fixed at creation.
package ledger
