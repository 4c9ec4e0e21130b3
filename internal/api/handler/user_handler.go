package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

type userRequest struct {
	Name     *string        `json:"nombre"   validate:"omitempty,max=100"`
	Email    *string        `json:"correo"   validate:"omitempty,email"`
	Password *string        `json:"password" validate:"omitempty,min=6"`
	Role     *domain.Role   `json:"rol"      validate:"omitempty,oneof=ADMIN CAPTURISTA"`
	Status   *domain.Status `json:"estatus"  validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

func (r userRequest) input() ports.UserInput {
	return ports.UserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
		Status:   r.Status,
	}
}

// UserHandler serves the /usuarios-admin account management routes.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /usuarios-admin.
//
// @Summary      List users
// @Tags         usuarios
// @Produce      json
// @Success      200  {object}  dataResponse
// @Failure      403  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /usuarios-admin [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// Get handles GET /usuarios-admin/:id.
//
// @Summary      Get a user
// @Tags         usuarios
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /usuarios-admin/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

// Create handles POST /usuarios-admin.
//
// @Summary      Create a user
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User"
// @Success      201   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /usuarios-admin [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.users.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, u)
}

// Update handles PUT /usuarios-admin/:id.
//
// @Summary      Update a user
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "User ID"
// @Param        body  body      userRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /usuarios-admin/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req userRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.users.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

// Toggle handles PATCH /usuarios-admin/:id/toggle.
//
// @Summary      Flip a user between ACTIVO and INACTIVO
// @Tags         usuarios
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /usuarios-admin/{id}/toggle [patch]
func (h *UserHandler) Toggle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.users.Toggle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

// Delete handles DELETE /usuarios-admin/:id.
//
// @Summary      Delete a user
// @Tags         usuarios
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Security     CookieAuth
// @Security     BearerAuth
// @Router       /usuarios-admin/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, "user deleted")
}
