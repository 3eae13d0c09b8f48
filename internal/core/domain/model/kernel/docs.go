// Package kernel provides the value objects shared by every aggregate of the
// escrow engine: identifiers, money, GPS coordinates and the calling actor.
//
// All of them are immutable. Money is kept at two decimal places with
// half-up rounding, which every fee and settlement computation relies on.
package kernel
