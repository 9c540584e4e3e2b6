package tenant

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the standing of a tenancy.
type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusInactive Status = "inactive"
)

// Tenant is a person holding a lease on a unit.
type Tenant struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	PropertyID    uuid.UUID
	Unit          string
	Rent          int64 // Monthly rent in cents
	LeaseStart    time.Time
	LeaseEnd      time.Time
	Status        Status
	Balance       int64 // Outstanding balance in cents
	ApplicationID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
}

// Initials returns the upper-case initials of the tenant's name, used as an avatar.
func (t *Tenant) Initials() string {
	var out []rune

	prev := ' '
	for _, r := range t.Name {
		if prev == ' ' && r != ' ' {
			out = append(out, r)
		}

		prev = r
	}

	return strings.ToUpper(string(out))
}
