package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/repo"
	"github.com/captainsdeck/backend/internal/service"

	"github.com/google/uuid"
)

type mockCaptainRepo struct {
	t *testing.T

	getByEmail func(ctx context.Context, email string) (domain.Captain, error)
	count      func(ctx context.Context) (int64, error)
	create     func(ctx context.Context, email, passwordHash string) (domain.Captain, error)
}

func (m *mockCaptainRepo) GetByEmail(ctx context.Context, email string) (domain.Captain, error) {
	if m.getByEmail == nil {
		m.t.Fatal("unexpected CaptainRepo.GetByEmail call")
	}
	return m.getByEmail(ctx, email)
}
func (m *mockCaptainRepo) Count(ctx context.Context) (int64, error) {
	if m.count == nil {
		m.t.Fatal("unexpected CaptainRepo.Count call")
	}
	return m.count(ctx)
}
func (m *mockCaptainRepo) Create(ctx context.Context, email, passwordHash string) (domain.Captain, error) {
	if m.create == nil {
		m.t.Fatal("unexpected CaptainRepo.Create call")
	}
	return m.create(ctx, email, passwordHash)
}

var _ repo.CaptainRepo = (*mockCaptainRepo)(nil)

func testTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	return auth.NewTokens("test-secret", time.Hour)
}

func TestAuthService_GuestSession(t *testing.T) {
	tokens := testTokens(t)
	svc := service.NewAuthService(&mockCaptainRepo{t: t}, tokens)

	raw, err := svc.GuestSession()
	require.NoError(t, err)

	session, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, session.Role)
}

func TestAuthService_Login_Valid(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	captainID := uuid.New()
	captains := &mockCaptainRepo{t: t,
		getByEmail: func(_ context.Context, email string) (domain.Captain, error) {
			assert.Equal(t, "skipper@example.com", email)
			return domain.Captain{ID: captainID, Email: email, PasswordHash: string(hash)}, nil
		},
	}
	tokens := testTokens(t)
	svc := service.NewAuthService(captains, tokens)

	raw, err := svc.Login(context.Background(), " skipper@example.com ", "hunter2")
	require.NoError(t, err)

	session, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCaptain, session.Role)
	assert.Equal(t, captainID.String(), session.Subject)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	captains := &mockCaptainRepo{t: t,
		getByEmail: func(_ context.Context, email string) (domain.Captain, error) {
			return domain.Captain{ID: uuid.New(), Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := service.NewAuthService(captains, testTokens(t))

	_, err = svc.Login(context.Background(), "skipper@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestAuthService_Login_NoAccountProvisioned(t *testing.T) {
	captains := &mockCaptainRepo{t: t,
		getByEmail: func(_ context.Context, _ string) (domain.Captain, error) {
			return domain.Captain{}, domain.ErrNotFound
		},
		count: func(_ context.Context) (int64, error) { return 0, nil },
	}
	svc := service.NewAuthService(captains, testTokens(t))

	_, err := svc.Login(context.Background(), "skipper@example.com", "hunter2")
	assert.ErrorIs(t, err, domain.ErrAuthDisabled)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	captains := &mockCaptainRepo{t: t,
		getByEmail: func(_ context.Context, _ string) (domain.Captain, error) {
			return domain.Captain{}, domain.ErrNotFound
		},
		count: func(_ context.Context) (int64, error) { return 1, nil },
	}
	svc := service.NewAuthService(captains, testTokens(t))

	_, err := svc.Login(context.Background(), "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := service.NewAuthService(&mockCaptainRepo{t: t}, testTokens(t))

	_, err := svc.Login(context.Background(), "", "hunter2")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)

	_, err = svc.Login(context.Background(), "skipper@example.com", "")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestAuthService_EnsureCaptain_SeedsOnce(t *testing.T) {
	var createdHash string
	captains := &mockCaptainRepo{t: t,
		count: func(_ context.Context) (int64, error) { return 0, nil },
		create: func(_ context.Context, email, hash string) (domain.Captain, error) {
			assert.Equal(t, "skipper@example.com", email)
			createdHash = hash
			return domain.Captain{ID: uuid.New(), Email: email}, nil
		},
	}
	svc := service.NewAuthService(captains, testTokens(t))

	require.NoError(t, svc.EnsureCaptain(context.Background(), "skipper@example.com", "hunter2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdHash), []byte("hunter2")),
		"stored hash must verify against the seed password")
}

func TestAuthService_EnsureCaptain_NoopWhenPopulated(t *testing.T) {
	captains := &mockCaptainRepo{t: t,
		count: func(_ context.Context) (int64, error) { return 1, nil },
	}
	svc := service.NewAuthService(captains, testTokens(t))

	require.NoError(t, svc.EnsureCaptain(context.Background(), "skipper@example.com", "hunter2"))
}

func TestAuthService_EnsureCaptain_NoopWithoutSeedConfig(t *testing.T) {
	svc := service.NewAuthService(&mockCaptainRepo{t: t}, testTokens(t))

	require.NoError(t, svc.EnsureCaptain(context.Background(), "", ""))
}
