package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fomongole/User-Management-Api/internal/auth"
	"github.com/fomongole/User-Management-Api/internal/mail"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/testutil"
)

const testSecret = "test-secret"

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// MockMailer is a mock implementation of mail.Sender.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type fixture struct {
	repo   *testutil.MemoryUserRepository
	cache  *testutil.MemoryCache
	mailer *testutil.RecordingMailer
	clock  *fixedClock
	jwt    *auth.JWTService
	users  *UserCache
	auth   AuthService
	svc    UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:   testutil.NewMemoryUserRepository(),
		cache:  testutil.NewMemoryCache(),
		mailer: &testutil.RecordingMailer{},
		clock:  &fixedClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		jwt:    auth.NewJWTService(testSecret, time.Hour),
	}
	log := quietLogger()
	f.users = NewUserCache(f.repo, f.cache, time.Hour, log)
	f.auth = NewAuthService(f.repo, f.users, f.jwt, f.mailer, f.clock, log)
	f.svc = NewUserService(f.repo, f.users, f.jwt, log)
	return f
}

// registerVerified registers a user and consumes its verification token.
func (f *fixture) registerVerified(t *testing.T, name, email, password string) *model.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterInput{Name: name, Email: email, Password: password}, "http://localhost:5000"))
	msg, ok := f.mailer.Last()
	require.True(t, ok)
	_, err := f.auth.VerifyEmail(ctx, testutil.VerificationToken(msg))
	require.NoError(t, err)
	user, err := f.repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	return user
}
