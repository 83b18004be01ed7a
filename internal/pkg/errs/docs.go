// Package errs provides the error taxonomy of the order fulfillment service.
// Every error type follows the same shape: a sentinel variable, a struct with
// the error details, constructors with and without cause, Error() and Unwrap()
// returning the sentinel so callers can branch with errors.Is.
//
// Validation errors:
//   - ValueIsRequiredError: a mandatory value is missing
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//
// Fulfillment errors:
//   - ObjectNotFoundError: an order, material or user id did not resolve
//   - TransitionRejectedError: an order transition was attempted from the wrong
//     state or by the wrong admin; carries the expected state
//   - UnauthorizedError: the caller failed a role or ownership check; the reason
//     is for logs only
//   - CourierFailureError: the delivery courier could not be reached or answered
//     with a non-success status
package errs
