// Package order provides the Order aggregate root of the fulfillment domain and
// the state machine that drives it.
//
// Lifecycle:
//
//	PENDING ──accept──> PRINTING ──markReady──> READY ──markDelivered (pickup)──────────> DELIVERED
//	                                              │                                          ^
//	                                              └─attachShipment (delivery)─> OUT_FOR_DELIVERY
//
// Key business rules:
//   - An order has at least one line item, every quantity is positive, and unit
//     prices are snapshotted from the catalogue at creation
//   - The delivery type is fixed at creation; DELIVERY orders carry an address
//     and a phone, PICKUP orders carry neither
//   - An admin must be assigned before the order leaves PENDING
//   - Status never moves backwards; DELIVERED is final
//   - A pickup order can only be handed over by its assigned admin
//   - A courier tracking id exists only on DELIVERY orders whose shipment was
//     created, and from then on the order is OUT_FOR_DELIVERY or DELIVERED
//
// Every transition records an Event; callers drain them with PullEvents after
// the change is committed.
package order
