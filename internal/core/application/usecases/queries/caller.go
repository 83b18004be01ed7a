// Package queries contains the read side of order fulfillment. Handlers read
// straight from the database with raw SQL and never open a transaction.
package queries

import (
	"context"
	"database/sql"

	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/pkg/errs"

	"github.com/go-faster/errors"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// loadCaller resolves the account behind callerID. An unknown caller is
// reported as unauthorized, not as a missing object.
func loadCaller(ctx context.Context, db *gorm.DB, callerID kernel.UUID) (*user.User, error) {
	var (
		email, fullName, phone, region sql.NullString
		roles                          pq.StringArray
		blocked                        bool
	)

	row := db.WithContext(ctx).Raw(`
		SELECT email, full_name, phone, region, roles, blocked
		FROM users
		WHERE id = ?
	`, callerID.Bytes()).Row()
	if err := row.Scan(&email, &fullName, &phone, &region, &roles, &blocked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewUnauthorizedError("unknown caller " + callerID.String())
		}
		return nil, errors.Wrap(err, "load caller")
	}

	userRoles := make([]user.Role, 0, len(roles))
	for _, role := range roles {
		userRoles = append(userRoles, user.Role(role))
	}

	return user.RestoreUser(callerID, email.String, fullName.String, phone.String, region.String, userRoles, blocked)
}
