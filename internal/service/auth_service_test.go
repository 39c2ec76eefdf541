package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fomongole/User-Management-Api/internal/auth"
	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/mail"
	"github.com/fomongole/User-Management-Api/internal/testutil"
)

func TestRegister_CreatesUnverifiedUserAndMailsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.auth.Register(ctx, RegisterInput{Name: "T", Email: " T@X.com ", Password: "secret1"}, "http://localhost:5000")
	require.NoError(t, err)

	user, err := f.repo.FindByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, auth.MatchPassword("secret1", user.PasswordHash))
	require.NotNil(t, user.VerificationTokenHash)
	require.NotNil(t, user.VerificationTokenExpiry)
	assert.Equal(t, f.clock.now.Add(10*time.Minute), *user.VerificationTokenExpiry)

	require.Len(t, f.mailer.Sent, 1)
	msg := f.mailer.Sent[0]
	assert.Equal(t, "t@x.com", msg.To)
	assert.Equal(t, mail.VerificationSubject, msg.Subject)
	assert.Contains(t, msg.Body, "http://localhost:5000/api/auth/verifyemail/")

	plain := testutil.VerificationToken(msg)
	assert.Len(t, plain, 40)
	assert.Equal(t, auth.HashToken(plain), *user.VerificationTokenHash)
	assert.NotContains(t, msg.Body, *user.VerificationTokenHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := RegisterInput{Name: "T", Email: "t@x.com", Password: "secret1"}

	require.NoError(t, f.auth.Register(ctx, in, "http://h"))
	err := f.auth.Register(ctx, in, "http://h")

	assert.ErrorIs(t, err, apperrors.ErrUserExists)
	assert.Equal(t, 1, f.repo.Count())
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)
	in := RegisterInput{Name: "T", Email: "race@x.com", Password: "secret1"}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.auth.Register(context.Background(), in, "http://h")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, apperrors.ErrUserExists) || errors.Is(err, apperrors.ErrDuplicateKey), err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.repo.Count())
}

func TestRegister_MailFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	mailer := new(MockMailer)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return m.To == "t@x.com"
	})).Return(errors.New("smtp: connection refused"))
	svc := NewAuthService(f.repo, f.users, f.jwt, mailer, f.clock, quietLogger())

	err := svc.Register(context.Background(), RegisterInput{Name: "T", Email: "t@x.com", Password: "secret1"}, "http://h")

	assert.ErrorIs(t, err, apperrors.ErrEmailNotSent)
	assert.Equal(t, 0, f.repo.Count())
	mailer.AssertExpectations(t)

	// The caller can retry cleanly.
	require.NoError(t, f.auth.Register(context.Background(), RegisterInput{Name: "T", Email: "t@x.com", Password: "secret1"}, "http://h"))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterInput{Name: "T", Email: "t@x.com", Password: "secret1"}, "http://h"))

	t.Run("unverified is distinct from bad credentials", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "t@x.com", "secret1")
		assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified)

		_, err = f.auth.Login(ctx, "t@x.com", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "nobody@x.com", "secret1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	msg, _ := f.mailer.Last()
	_, err := f.auth.VerifyEmail(ctx, testutil.VerificationToken(msg))
	require.NoError(t, err)

	t.Run("verified user gets a token", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "T@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "t@x.com", res.User.Email)
		assert.Equal(t, "user", string(res.User.Role))

		id, err := f.jwt.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, id)
	})
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterInput{Name: "T", Email: "t@x.com", Password: "secret1"}, "http://h"))
	msg, _ := f.mailer.Last()
	plain := testutil.VerificationToken(msg)

	token, err := f.auth.VerifyEmail(ctx, plain)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	user, err := f.repo.FindByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerificationTokenHash)
	assert.Nil(t, user.VerificationTokenExpiry)

	_, err = f.auth.VerifyEmail(ctx, plain)
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationToken)
}

func TestVerifyEmail_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterInput{Name: "T", Email: "t@x.com", Password: "secret1"}, "http://h"))
	msg, _ := f.mailer.Last()

	f.clock.now = f.clock.now.Add(11 * time.Minute)
	_, err := f.auth.VerifyEmail(ctx, testutil.VerificationToken(msg))

	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationToken)
	user, err := f.repo.FindByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.NotNil(t, user.VerificationTokenHash)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.VerifyEmail(context.Background(), strings.Repeat("a", 40))
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationToken)

	_, err = f.auth.VerifyEmail(context.Background(), " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationToken)
}
