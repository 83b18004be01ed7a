// Package user models the accounts that act on orders: students placing them
// and admins fulfilling them. A user carries a set of roles and a blocked flag;
// both feed the authorization gate in the services package.
package user
