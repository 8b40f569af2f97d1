package models

import "github.com/google/uuid"

// Ingredient is a catalog entry. Rows are immutable once referenced by a
// recipe; identity for aggregation purposes is (name, measurement_unit).
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	MeasurementUnit string    `gorm:"size:64;not null" json:"measurement_unit"`
}
