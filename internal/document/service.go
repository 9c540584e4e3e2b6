package document

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, filter ListFilter) ([]*Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	Category      Category
	PropertyID    *uuid.UUID
	TenantID      *uuid.UUID
	ApplicationID *uuid.UUID
	Size          int64
	URL           string
	UploadedBy    string
}

// ListFilter narrows documents to an owner. Set fields are ANDed.
type ListFilter struct {
	PropertyID    *uuid.UUID
	TenantID      *uuid.UUID
	ApplicationID *uuid.UUID
	Category      *Category
}

func (p *CreateParams) validate() error {
	var problems []string

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		problems = append(problems, "name is required")
	}

	if p.Category == "" {
		p.Category = CategoryOther
	}

	if !p.Category.Valid() {
		problems = append(problems, fmt.Sprintf("unknown category %q", p.Category))
	}

	if u, err := url.Parse(p.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		problems = append(problems, "url must be an http(s) link")
	}

	if p.Size < 0 {
		problems = append(problems, "size cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Document, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	typ := typeOf(params.Name)
	if u, err := url.Parse(params.URL); typ == "" && err == nil {
		typ = typeOf(u.Path)
	}

	d := &Document{
		Name:          params.Name,
		Type:          typ,
		Category:      params.Category,
		PropertyID:    params.PropertyID,
		TenantID:      params.TenantID,
		ApplicationID: params.ApplicationID,
		Size:          params.Size,
		URL:           params.URL,
		UploadedBy:    params.UploadedBy,
	}

	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Document, error) {
	return s.repo.ListDocuments(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDocument(ctx, id)
}
