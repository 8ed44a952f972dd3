package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/ids"
	"planner/internal/logging"
	"planner/internal/models"
	"planner/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	tokens, err := NewTokens("test-secret", 0)
	require.NoError(t, err)
	store := memory.New()
	return NewService(store, tokens, ids.New(), logging.Discard()), store
}

func TestRegister(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.User.ID)
	assert.Equal(t, "alice", session.User.Username)
	assert.Equal(t, "alice@example.com", session.User.Email)

	id, err := svc.Tokens().Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id.AccountID)
	assert.Equal(t, "alice@example.com", id.Email)

	stored, err := store.AccountByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.NoError(t, CheckPassword(stored.PasswordHash, "pw"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "alice@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	// Email comparison is case sensitive.
	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "Alice@example.com", Password: "pw2"})
	assert.NoError(t, err)
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	const attempts = 5

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, RegisterInput{Username: "racer", Email: "race@example.com", Password: "pw"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	}
	assert.Equal(t, 1, ok)

	n, err := store.CountAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterRequiresFields(t *testing.T) {
	svc, _ := newTestService(t)

	cases := map[string]RegisterInput{
		"username": {Email: "a@example.com", Password: "pw"},
		"email":    {Username: "a", Password: "pw"},
		"password": {Username: "a", Email: "a@example.com"},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, field, verr.Field)
		})
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com", Password: strings.Repeat("x", 80)})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "password", verr.Field)

	n, err := store.CountAccounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The limit itself is accepted.
	_, err = svc.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com", Password: strings.Repeat("x", MaxPasswordBytes)})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@example.com", strings.Repeat("x", 80))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, registered.User, session.User)

	id, err := svc.Tokens().Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, id.AccountID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	var verr *models.ValidationError
	_, err = svc.Login(ctx, "", "pw")
	assert.True(t, errors.As(err, &verr))
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrInvalidCredentials)
	assert.Error(t, CheckPassword("not-a-hash", "x"))
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{AccountID: "1", Email: "a@example.com"})
	id, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "1", id.AccountID)
}
