// Package kernel holds the value objects shared by every aggregate of the
// fulfillment domain. Today that is UUID, the identifier of orders, users and
// materials.
package kernel
