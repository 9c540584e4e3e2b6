package auth_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/tenantry/internal/auth"
	"github.com/MrJamesThe3rd/tenantry/internal/notify"
	"github.com/MrJamesThe3rd/tenantry/internal/tenant"
)

const secret = "test-secret"

func TestService_LoginManager(t *testing.T) {
	svc := auth.NewService(secret, "let-me-in", time.Hour, nil, nil)

	tok, err := svc.LoginManager("let-me-in")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleManager, tok.Role)

	claims, err := svc.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleManager, claims.Role)
	assert.Nil(t, claims.TenantID)

	_, err = svc.LoginManager("wrong")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestService_LoginManager_NoKeyConfigured(t *testing.T) {
	svc := auth.NewService(secret, "", time.Hour, nil, nil)

	_, err := svc.LoginManager("")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

type mocks struct {
	tenants  *auth.MockTenants
	codes    *auth.MockCodes
	notifier *auth.MockNotifier
}

func newService(t *testing.T) (*auth.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		tenants:  auth.NewMockTenants(ctrl),
		codes:    auth.NewMockCodes(ctrl),
		notifier: auth.NewMockNotifier(ctrl),
	}

	return auth.NewService(secret, "key", time.Hour, m.tenants, m.codes,
		auth.WithNotifier(m.notifier),
		auth.WithCodeTTL(10*time.Minute),
	), m
}

var codePattern = regexp.MustCompile(`[2-9A-Z]{8}`)

// requestCode runs RequestTenantCode and returns the emailed code and the
// record that was saved for it.
func requestCode(t *testing.T, svc *auth.Service, m mocks, tn *tenant.Tenant) (string, *auth.LoginCode) {
	t.Helper()

	var (
		saved *auth.LoginCode
		sent  notify.Message
	)

	m.tenants.EXPECT().GetByEmail(gomock.Any(), tn.Email).Return(tn, nil)
	m.codes.EXPECT().SaveCode(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *auth.LoginCode) error {
			saved = c
			return nil
		})
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			sent = msg
			return nil
		})

	require.NoError(t, svc.RequestTenantCode(context.Background(), tn.Email))
	require.NotNil(t, saved)

	code := codePattern.FindString(sent.Body)
	require.NotEmpty(t, code)
	assert.Equal(t, []string{tn.Email}, sent.To)

	return code, saved
}

func activeTenant() *tenant.Tenant {
	return &tenant.Tenant{ID: uuid.New(), Name: "Dana Reyes", Email: "dana@example.com", Status: tenant.StatusActive}
}

func TestService_RequestTenantCode(t *testing.T) {
	svc, m := newService(t)
	tn := activeTenant()

	before := time.Now()
	code, saved := requestCode(t, svc, m, tn)

	assert.Len(t, code, 8)
	assert.Equal(t, tn.ID, saved.TenantID)
	assert.NoError(t, bcrypt.CompareHashAndPassword(saved.Hash, []byte(code)))
	assert.WithinDuration(t, before.Add(10*time.Minute), saved.ExpiresAt, 5*time.Second)
}

func TestService_RequestTenantCode_NoTenant(t *testing.T) {
	type testCase struct {
		name      string
		email     string
		setupMock func(m mocks)
	}

	tests := []testCase{
		{
			name:  "Unknown",
			email: "nobody@example.com",
			setupMock: func(m mocks) {
				m.tenants.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, tenant.ErrNotFound)
			},
		},
		{
			name:  "Inactive",
			email: "former@example.com",
			setupMock: func(m mocks) {
				m.tenants.EXPECT().GetByEmail(gomock.Any(), "former@example.com").
					Return(&tenant.Tenant{ID: uuid.New(), Status: tenant.StatusInactive}, nil)
			},
		},
		{name: "Blank", email: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			assert.NoError(t, svc.RequestTenantCode(context.Background(), tt.email))
		})
	}
}

func TestService_RequestTenantCode_SendFails(t *testing.T) {
	svc, m := newService(t)
	tn := activeTenant()

	m.tenants.EXPECT().GetByEmail(gomock.Any(), tn.Email).Return(tn, nil)
	m.codes.EXPECT().SaveCode(gomock.Any(), gomock.Any()).Return(nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	err := svc.RequestTenantCode(context.Background(), tn.Email)
	assert.ErrorContains(t, err, "sending login code")
}

func TestService_LoginTenant(t *testing.T) {
	svc, m := newService(t)
	tn := activeTenant()

	code, saved := requestCode(t, svc, m, tn)

	m.tenants.EXPECT().GetByEmail(gomock.Any(), "dana@example.com").Return(tn, nil)
	m.codes.EXPECT().ClaimCode(gomock.Any(), tn.ID).
		Return(&auth.LoginCode{TenantID: tn.ID, Hash: saved.Hash, ExpiresAt: saved.ExpiresAt, Attempts: 1}, nil)
	m.codes.EXPECT().DeleteCode(gomock.Any(), tn.ID, saved.Hash).Return(nil)

	lowered := strings.ToLower(code[:4]) + "-" + code[4:]

	tok, err := svc.LoginTenant(context.Background(), " dana@example.com ", lowered)
	require.NoError(t, err)

	claims, err := svc.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleTenant, claims.Role)
	assert.Equal(t, &tn.ID, claims.TenantID)
	assert.Equal(t, tn.ID.String(), claims.Subject)
}

func TestService_LoginTenant_Refused(t *testing.T) {
	tn := activeTenant()
	inactive := &tenant.Tenant{ID: uuid.New(), Email: "former@example.com", Status: tenant.StatusInactive}

	type testCase struct {
		name      string
		email     string
		code      string
		emailed   bool
		setupMock func(m mocks, saved *auth.LoginCode)
	}

	claimed := func(m mocks, c auth.LoginCode) {
		m.tenants.EXPECT().GetByEmail(gomock.Any(), tn.Email).Return(tn, nil)
		m.codes.EXPECT().ClaimCode(gomock.Any(), tn.ID).Return(&c, nil)
	}

	tests := []testCase{
		{
			name:  "EmailAlone",
			email: tn.Email,
		},
		{
			name:  "UnknownEmail",
			email: "nobody@example.com",
			code:  "K7M2Q9XZ",
			setupMock: func(m mocks, _ *auth.LoginCode) {
				m.tenants.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, tenant.ErrNotFound)
			},
		},
		{
			name:  "Inactive",
			email: inactive.Email,
			code:  "K7M2Q9XZ",
			setupMock: func(m mocks, _ *auth.LoginCode) {
				m.tenants.EXPECT().GetByEmail(gomock.Any(), inactive.Email).Return(inactive, nil)
			},
		},
		{
			name:  "NoCodeRequested",
			email: tn.Email,
			code:  "K7M2Q9XZ",
			setupMock: func(m mocks, _ *auth.LoginCode) {
				m.tenants.EXPECT().GetByEmail(gomock.Any(), tn.Email).Return(tn, nil)
				m.codes.EXPECT().ClaimCode(gomock.Any(), tn.ID).Return(nil, auth.ErrNoCode)
			},
		},
		{
			name:  "WrongCode",
			email: tn.Email,
			code:  "22222222",
			setupMock: func(m mocks, saved *auth.LoginCode) {
				claimed(m, auth.LoginCode{Hash: saved.Hash, ExpiresAt: saved.ExpiresAt, Attempts: 1})
			},
		},
		{
			name:    "Expired",
			email:   tn.Email,
			emailed: true,
			setupMock: func(m mocks, saved *auth.LoginCode) {
				claimed(m, auth.LoginCode{Hash: saved.Hash, ExpiresAt: time.Now().Add(-time.Second), Attempts: 1})
			},
		},
		{
			name:    "TooManyAttempts",
			email:   tn.Email,
			emailed: true,
			setupMock: func(m mocks, saved *auth.LoginCode) {
				claimed(m, auth.LoginCode{Hash: saved.Hash, ExpiresAt: saved.ExpiresAt, Attempts: 6})
			},
		},
		{
			name:    "UsedConcurrently",
			email:   tn.Email,
			emailed: true,
			setupMock: func(m mocks, saved *auth.LoginCode) {
				claimed(m, auth.LoginCode{Hash: saved.Hash, ExpiresAt: saved.ExpiresAt, Attempts: 1})
				m.codes.EXPECT().DeleteCode(gomock.Any(), tn.ID, saved.Hash).Return(auth.ErrNoCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			code, saved := requestCode(t, svc, m, tn)
			if !tt.emailed {
				code = tt.code
			}

			if tt.setupMock != nil {
				tt.setupMock(m, saved)
			}

			tok, err := svc.LoginTenant(context.Background(), tt.email, code)
			assert.ErrorIs(t, err, auth.ErrUnauthorized)
			assert.Nil(t, tok)
		})
	}
}

func TestService_LoginTenant_LookupError(t *testing.T) {
	svc, m := newService(t)
	m.tenants.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.LoginTenant(context.Background(), "a@b.c", "K7M2Q9XZ")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrUnauthorized)
}

func TestService_Parse_Rejects(t *testing.T) {
	svc := auth.NewService(secret, "key", time.Hour, nil, nil)

	t.Run("Expired", func(t *testing.T) {
		tok, err := auth.NewService(secret, "key", -time.Minute, nil, nil).LoginManager("key")
		require.NoError(t, err)

		_, err = svc.Parse(tok.Token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		tok, err := auth.NewService("other", "key", time.Hour, nil, nil).LoginManager("key")
		require.NoError(t, err)

		_, err = svc.Parse(tok.Token)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token")
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("TenantWithoutID", func(t *testing.T) {
		claims := auth.Claims{
			Role: auth.RoleTenant,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "tenantry",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})
}

func TestContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	c := &auth.Claims{Role: auth.RoleManager}
	got, ok := auth.FromContext(auth.WithClaims(context.Background(), c))
	require.True(t, ok)
	assert.Same(t, c, got)
}
