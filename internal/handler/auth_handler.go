package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	baseURL     string
}

// NewAuthHandler creates a new auth handler. Verification links are rooted at
// baseURL, or at the request's own scheme and host when baseURL is empty.
func NewAuthHandler(authService service.AuthService, baseURL string) *AuthHandler {
	return &AuthHandler{authService: authService, baseURL: strings.TrimRight(baseURL, "/")}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank" message:"Name is required"`
	Email    string `json:"email" validate:"required,email" message:"Please include a valid email address"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72" message:"Password must be 6 or more characters" message_maxbytes:"Password must be 72 bytes or fewer"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" message:"Please include a valid email"`
	Password string `json:"password" validate:"required" message:"Password is required"`
}

// SuccessResponse acknowledges registration and verification.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
	Token   string `json:"token,omitempty"`
}

// UserTokenResponse is a user summary with a session token.
type UserTokenResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func newUserTokenResponse(res *service.AuthResult) UserTokenResponse {
	return UserTokenResponse{
		ID:    res.User.ID,
		Name:  res.User.Name,
		Email: res.User.Email,
		Role:  string(res.User.Role),
		Token: res.Token,
	}
}

// bindAndValidate decodes the JSON body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	return c.Validate(req)
}

// Register godoc
// @Summary Register a new user
// @Description Creates an unverified user and emails a verification link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if err := h.authService.Register(c.Request().Context(), input, h.linkBase(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    "Email sent. Please check your email to verify account.",
	})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} UserTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserTokenResponse(res))
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Consumes the emailed token and logs the user in.
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verifyemail/{token} [put]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token, err := h.authService.VerifyEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    "Email Verified Successfully!",
		Token:   token,
	})
}

func (h *AuthHandler) linkBase(c echo.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}
