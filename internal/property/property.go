package property

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies how a property is used.
type Type string

const (
	TypeResidential Type = "residential"
	TypeCommercial  Type = "commercial"
	TypeMixed       Type = "mixed"
)

// Property is a managed building or lot with a number of rentable units.
type Property struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Type      Type
	Units     int
	Occupied  int
	Value     int64 // Market value in cents
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

func (p *Property) Vacant() int {
	return max(p.Units-p.Occupied, 0)
}

// OccupancyRate returns the occupied share of units as a percentage.
func (p *Property) OccupancyRate() float64 {
	if p.Units == 0 {
		return 0
	}

	return float64(p.Occupied) / float64(p.Units) * 100
}
