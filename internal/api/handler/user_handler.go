package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Role"
// @Param        active  query     bool    false  "Only active (true) or inactive (false) users"
// @Param        search  query     string  false  "Partial match on name or email"
// @Success      200     {object}  Envelope{data=[]domain.User}
// @Failure      403     {object}  Envelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.UserFilter{
		Role:   domain.Role(c.QueryParam("role")),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: active must be true or false", domain.ErrValidation)
		}
		filter.Active = &active
	}

	users, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, users)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope{data=domain.User}
// @Failure      404  {object}  Envelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Create handles POST /users. Unlike self-registration any role may be set,
// so the route is admin only.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  Envelope{data=domain.User}
// @Failure      400   {object}  Envelope
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		FlatNumber: req.FlatNumber,
		Role:       domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, user)
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.User}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := ports.UpdateUserInput{
		Actor:      me,
		Name:       req.Name,
		Phone:      req.Phone,
		FlatNumber: req.FlatNumber,
		Password:   req.Password,
		IsActive:   req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// UpdateMe handles PUT /users/me. Role and activation cannot be changed here.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.User}
// @Failure      400   {object}  Envelope
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), me.ID, ports.UpdateUserInput{
		Actor:      me,
		Name:       req.Name,
		Phone:      req.Phone,
		FlatNumber: req.FlatNumber,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	if me.ID == c.Param("id") {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrValidation)
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "user deleted")
}
