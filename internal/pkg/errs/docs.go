// Package errs provides standardized error types for the escrow engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package groups errors into the categories callers act on:
//   - Validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - Lookup: ObjectNotFoundError
//   - Precondition: PreconditionFailedError (invalid transition, code mismatch, ...)
//   - Concurrency: ConcurrentModificationError (lost optimistic-concurrency race)
//   - Integrity: IntegrityViolationError (reference collision, broken conservation)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() exposing the category sentinel and, when present, the cause
//
// errors.Is therefore matches both the category and the specific reason.
package errs
