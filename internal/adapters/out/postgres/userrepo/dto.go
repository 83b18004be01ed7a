package userrepo

import (
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/user"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserDTO mirrors the accounts table shared with the auth gateway. Roles are
// stored as a PostgreSQL text array.
type UserDTO struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email    string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName string         `gorm:"type:varchar(255)"`
	Phone    string         `gorm:"type:varchar(32)"`
	Region   string         `gorm:"type:varchar(128)"`
	Roles    pq.StringArray `gorm:"type:text[];not null"`
	Blocked  bool           `gorm:"not null;default:false"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(aggregate *user.User) UserDTO {
	roles := make(pq.StringArray, 0, len(aggregate.Roles()))
	for _, role := range aggregate.Roles() {
		roles = append(roles, role.String())
	}

	return UserDTO{
		ID:       aggregate.ID().Bytes(),
		Email:    aggregate.Email(),
		FullName: aggregate.FullName(),
		Phone:    aggregate.Phone(),
		Region:   aggregate.Region(),
		Roles:    roles,
		Blocked:  aggregate.IsBlocked(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	roles := make([]user.Role, 0, len(dto.Roles))
	for _, role := range dto.Roles {
		roles = append(roles, user.Role(role))
	}

	return user.RestoreUser(id, dto.Email, dto.FullName, dto.Phone, dto.Region, roles, dto.Blocked)
}
