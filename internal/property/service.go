package property

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Repository interface {
	CreateProperty(ctx context.Context, p *Property) error
	GetProperty(ctx context.Context, id uuid.UUID) (*Property, error)
	ListProperties(ctx context.Context) ([]*Property, error)
	UpdateProperty(ctx context.Context, p *Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name     string
	Address  string
	Type     Type
	Units    int
	Occupied int
	Value    int64
}

func validate(name string, typ Type, units, occupied int) error {
	var problems []string

	if strings.TrimSpace(name) == "" {
		problems = append(problems, "name is required")
	}

	switch typ {
	case TypeResidential, TypeCommercial, TypeMixed:
	default:
		problems = append(problems, fmt.Sprintf("unknown type %q", typ))
	}

	if units < 0 || occupied < 0 {
		problems = append(problems, "unit counts cannot be negative")
	}

	if occupied > units {
		problems = append(problems, "occupied units exceed total units")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Property, error) {
	if params.Type == "" {
		params.Type = TypeResidential
	}

	if err := validate(params.Name, params.Type, params.Units, params.Occupied); err != nil {
		return nil, err
	}

	p := &Property{
		Name:     strings.TrimSpace(params.Name),
		Address:  strings.TrimSpace(params.Address),
		Type:     params.Type,
		Units:    params.Units,
		Occupied: params.Occupied,
		Value:    params.Value,
	}
	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Property, error) {
	return s.repo.GetProperty(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Property, error) {
	return s.repo.ListProperties(ctx)
}

func (s *Service) Update(ctx context.Context, p *Property) error {
	if err := validate(p.Name, p.Type, p.Units, p.Occupied); err != nil {
		return err
	}

	return s.repo.UpdateProperty(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProperty(ctx, id)
}
