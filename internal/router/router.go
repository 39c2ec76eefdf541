package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/fomongole/User-Management-Api/internal/config"
	"github.com/fomongole/User-Management-Api/internal/handler"
	"github.com/fomongole/User-Management-Api/internal/middleware"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth  *handler.AuthHandler
	Users *handler.UserHandler
	Guard *middleware.Guard
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *logrus.Logger, h Handlers) {
	e.HideBanner = true
	e.HidePort = true
	// Client addresses come from the socket, never from forwarding headers.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(!cfg.IsProduction(), log)

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
	}))
	e.Use(echomw.BodyLimit("10K"))
	e.Use(requestLogger(log))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.MessageResponse{Message: "User Auth API is running securely!"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authRate := middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute)
	loginRate := middleware.NewRateLimiter(rate.Limit(2), 5, 10*time.Minute)

	api := e.Group("/api/auth")

	// Public routes
	api.POST("/register", h.Auth.Register, authRate.Middleware())
	api.POST("/login", h.Auth.Login, loginRate.Middleware())
	api.PUT("/verifyemail/:token", h.Auth.VerifyEmail, authRate.Middleware())

	protect := h.Guard.Protect()

	// Private routes
	api.GET("/profile", h.Users.GetProfile, protect)
	api.PUT("/profile", h.Users.UpdateProfile, protect)
	api.DELETE("/profile", h.Users.DeleteProfile, protect)

	// Admin routes
	api.GET("/users", h.Users.ListUsers, protect, middleware.RequireAdmin)
	api.DELETE("/users/:id", h.Users.DeleteUser, protect, middleware.RequireAdmin)
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"status":     v.Status,
				"method":     v.Method,
				"uri":        v.URI,
				"ip":         v.RemoteIP,
				"request_id": v.RequestID,
				"latency":    v.Latency.String(),
			})
			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				entry.WithError(v.Error).Error("request")
				return nil
			case v.Error != nil:
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
