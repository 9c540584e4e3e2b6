package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/tenantry/internal/notify"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token has expired")
	ErrNoCode       = errors.New("no login code outstanding")
)

type Role string

const (
	RoleManager Role = "manager"
	RoleTenant  Role = "tenant"
)

const issuer = "tenantry"

type Claims struct {
	Role     Role       `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Name     string     `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      Role      `json:"role"`
}

const (
	codeAlphabet    = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeLength      = 8
	maxCodeAttempts = 5
	defaultCodeTTL  = 15 * time.Minute
)

// LoginCode is an outstanding one-time portal login code. Only the bcrypt hash
// of the normalized code is kept.
type LoginCode struct {
	TenantID  uuid.UUID
	Hash      []byte
	ExpiresAt time.Time
	Attempts  int
}

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth
type Tenants interface {
	GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error)
}

type Codes interface {
	// SaveCode replaces any code already outstanding for the tenant.
	SaveCode(ctx context.Context, c *LoginCode) error
	// ClaimCode counts one verification attempt and returns the code as stored.
	ClaimCode(ctx context.Context, tenantID uuid.UUID) (*LoginCode, error)
	// DeleteCode removes the code if it still has this hash, or returns ErrNoCode.
	DeleteCode(ctx context.Context, tenantID uuid.UUID, hash []byte) error
}

type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

type Service struct {
	secret     []byte
	managerKey string
	ttl        time.Duration
	codeTTL    time.Duration
	tenants    Tenants
	codes      Codes
	notifier   Notifier
	now        func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithCodeTTL sets how long an emailed login code stays valid.
func WithCodeTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.codeTTL = d
		}
	}
}

func NewService(secret, managerKey string, ttl time.Duration, tenants Tenants, codes Codes, opts ...Option) *Service {
	s := &Service{
		secret:     []byte(secret),
		managerKey: managerKey,
		ttl:        ttl,
		codeTTL:    defaultCodeTTL,
		tenants:    tenants,
		codes:      codes,
		notifier:   notify.Log{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoginManager exchanges the shared manager key for a manager token.
func (s *Service) LoginManager(key string) (*Token, error) {
	if s.managerKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.managerKey)) != 1 {
		return nil, ErrUnauthorized
	}

	return s.issue(Claims{Role: RoleManager, Name: "manager"})
}

// RequestTenantCode emails a one-time login code to the active tenant with
// this email. Unknown and inactive addresses get no code and no error.
func (s *Service) RequestTenantCode(ctx context.Context, email string) error {
	t, err := s.activeTenant(ctx, email)
	if errors.Is(err, ErrUnauthorized) {
		slog.InfoContext(ctx, "login code not sent, no active tenant for email")
		return nil
	}

	if err != nil {
		return err
	}

	code, err := newCode()
	if err != nil {
		return fmt.Errorf("generating login code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(normalizeCode(code)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing login code: %w", err)
	}

	lc := &LoginCode{TenantID: t.ID, Hash: hash, ExpiresAt: s.now().Add(s.codeTTL)}
	if err := s.codes.SaveCode(ctx, lc); err != nil {
		return fmt.Errorf("saving login code: %w", err)
	}

	if err := s.notifier.Send(ctx, notify.LoginCode(t.Email, t.Name, code, s.codeTTL)); err != nil {
		return fmt.Errorf("sending login code: %w", err)
	}

	return nil
}

// LoginTenant exchanges an emailed login code for a portal token. Each code
// works once, before it expires.
func (s *Service) LoginTenant(ctx context.Context, email, code string) (*Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrUnauthorized
	}

	t, err := s.activeTenant(ctx, email)
	if err != nil {
		return nil, err
	}

	lc, err := s.codes.ClaimCode(ctx, t.ID)
	if err != nil {
		if errors.Is(err, ErrNoCode) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("checking login code: %w", err)
	}

	if lc.Attempts > maxCodeAttempts || !s.now().Before(lc.ExpiresAt) {
		return nil, ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword(lc.Hash, []byte(normalizeCode(code))) != nil {
		return nil, ErrUnauthorized
	}

	if err := s.codes.DeleteCode(ctx, t.ID, lc.Hash); err != nil {
		if errors.Is(err, ErrNoCode) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("consuming login code: %w", err)
	}

	return s.issue(Claims{Role: RoleTenant, TenantID: &t.ID, Name: t.Name})
}

func (s *Service) activeTenant(ctx context.Context, email string) (*tenant.Tenant, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUnauthorized
	}

	t, err := s.tenants.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, fmt.Errorf("looking up tenant: %w", err)
	}

	if t.Status == tenant.StatusInactive {
		return nil, ErrUnauthorized
	}

	return t, nil
}

func newCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}

	return string(b), nil
}

// normalizeCode ignores case, spaces and dashes so "k7m2-q9xz" matches "K7M2Q9XZ".
func normalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}

		return r
	}, strings.ToUpper(code))
}

func (s *Service) issue(c Claims) (*Token, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	subject := string(c.Role)
	if c.TenantID != nil {
		subject = c.TenantID.String()
	}

	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Token{Token: signed, ExpiresAt: expires, Role: c.Role}, nil
}

func (s *Service) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}

		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrUnauthorized
	}

	if claims.Role != RoleManager && claims.Role != RoleTenant {
		return nil, ErrUnauthorized
	}

	if claims.Role == RoleTenant && claims.TenantID == nil {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}
