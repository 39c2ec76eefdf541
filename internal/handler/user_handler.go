package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/middleware"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/service"
)

// UserHandler serves profile and admin user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest holds optional profile changes.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,notblank" message:"Name cannot be empty"`
	Email    *string `json:"email,omitempty" validate:"omitnil,email" message:"Please include a valid email address"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6,maxbytes=72" message:"Password must be 6 or more characters" message_maxbytes:"Password must be 72 bytes or fewer"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func currentUser(c echo.Context) (*model.SafeUser, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperrors.ErrNoToken
	}
	return user, nil
}

// GetProfile godoc
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SafeUser
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	current, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetProfile(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Changes name, email or password and returns a fresh token.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} UserTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	current, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.UpdateProfile(c.Request().Context(), current.ID, service.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserTokenResponse(res))
}

// DeleteProfile godoc
// @Summary Delete own account
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/profile [delete]
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	current, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProfile(c.Request().Context(), current.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User removed successfully"})
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser godoc
// @Summary Delete a user by id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User removed by Admin"})
}
