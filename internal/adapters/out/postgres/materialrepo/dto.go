package materialrepo

import (
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/material"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MaterialDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title     string          `gorm:"type:varchar(255);not null"`
	Type      string          `gorm:"type:varchar(16);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Available bool            `gorm:"not null;default:true"`
}

func (MaterialDTO) TableName() string {
	return "materials"
}

func fromDomain(aggregate *material.Material) MaterialDTO {
	return MaterialDTO{
		ID:        aggregate.ID().Bytes(),
		Title:     aggregate.Title(),
		Type:      string(aggregate.Type()),
		Price:     aggregate.Price(),
		Available: aggregate.IsAvailable(),
	}
}

func toDomain(dto MaterialDTO) (*material.Material, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return material.RestoreMaterial(id, dto.Title, material.Type(dto.Type), dto.Price, dto.Available)
}
