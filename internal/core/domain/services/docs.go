// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - AccessGate: role and ownership checks applied to a user before any order
//     operation runs
package services
