package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/fomongole/User-Management-Api/internal/auth"
	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/model"
)

const (
	contextSubjectKey = "auth_subject"
	contextUserKey    = "auth_user"
)

// UserResolver turns a token subject into the current user.
type UserResolver interface {
	Resolve(ctx context.Context, id string) (*model.SafeUser, error)
}

// Guard authenticates bearer tokens on private routes.
type Guard struct {
	jwt   *auth.JWTService
	users UserResolver
	log   logrus.FieldLogger
}

// NewGuard verifies tokens with jwtService and resolves their subjects via users.
// A nil log falls back to the standard logger.
func NewGuard(jwtService *auth.JWTService, users UserResolver, log logrus.FieldLogger) *Guard {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Guard{jwt: jwtService, users: users, log: log.WithField("component", "guard")}
}

// Protect rejects requests without a valid bearer token for an existing user
// and stores that user on the context for CurrentUser.
func (g *Guard) Protect() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  contextSubjectKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return g.jwt.Verify(token)
		},
		ErrorHandler: g.tokenError,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(g.resolve(next))
	}
}

func (g *Guard) tokenError(c echo.Context, err error) error {
	if !hasBearer(c.Request().Header.Get(echo.HeaderAuthorization)) {
		return apperrors.ErrNoToken
	}
	g.log.WithError(err).WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Debug("bearer token rejected")
	return apperrors.ErrTokenFailed
}

func (g *Guard) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := c.Get(contextSubjectKey).(string)
		if !ok || id == "" {
			return apperrors.ErrTokenFailed
		}
		user, err := g.users.Resolve(c.Request().Context(), id)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrTokenUserNotFound
		}
		if err != nil {
			return fmt.Errorf("resolve token subject: %w", err)
		}
		c.Set(contextUserKey, user)
		return next(c)
	}
}

// RequireAdmin must run after Protect.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			return apperrors.ErrNotAdmin
		}
		return next(c)
	}
}

// CurrentUser returns the user authenticated by Protect.
func CurrentUser(c echo.Context) (*model.SafeUser, bool) {
	user, ok := c.Get(contextUserKey).(*model.SafeUser)
	return user, ok && user != nil
}

func hasBearer(header string) bool {
	return len(header) > len("Bearer") && strings.EqualFold(header[:len("Bearer")], "Bearer")
}
