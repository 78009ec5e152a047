package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/ports"
	"github.com/habitat-society/habitat-api/internal/core/service"
)

type VisitorHandler struct {
	service ports.VisitorService
}

func NewVisitorHandler(service ports.VisitorService) *VisitorHandler {
	return &VisitorHandler{service: service}
}

// List handles GET /visitors.
//
// @Summary      List the visitor log
// @Tags         visitors
// @Produce      json
// @Security     BearerAuth
// @Param        date    query     string  false  "Check-in day, YYYY-MM-DD"
// @Param        active  query     bool    false  "Only visitors still inside"
// @Param        flat    query     string  false  "Flat number"
// @Success      200     {object}  Envelope{data=[]domain.Visitor}
// @Failure      400     {object}  Envelope
// @Router       /visitors [get]
func (h *VisitorHandler) List(c echo.Context) error {
	filter := ports.VisitorFilter{
		ActiveOnly: c.QueryParam("active") == "true",
		FlatNumber: c.QueryParam("flat"),
	}
	if date := c.QueryParam("date"); date != "" {
		from, to, err := service.DayRange(date)
		if err != nil {
			return err
		}
		filter.InFrom, filter.InTo = &from, &to
	}

	visitors, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, visitors)
}

// Get handles GET /visitors/:id.
//
// @Summary      Get a visitor entry
// @Tags         visitors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Visitor id"
// @Success      200  {object}  Envelope{data=domain.Visitor}
// @Failure      404  {object}  Envelope
// @Router       /visitors/{id} [get]
func (h *VisitorHandler) Get(c echo.Context) error {
	v, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v)
}

// Create handles POST /visitors.
//
// @Summary      Check a visitor in
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVisitorRequest  true  "Visitor"
// @Success      201   {object}  Envelope{data=domain.Visitor}
// @Failure      400   {object}  Envelope
// @Router       /visitors [post]
func (h *VisitorHandler) Create(c echo.Context) error {
	var req createVisitorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v, err := h.service.Create(c.Request().Context(), ports.CreateVisitorInput{
		Name:       req.Name,
		FlatNumber: req.FlatNumber,
		Purpose:    req.Purpose,
		Vehicle:    req.Vehicle,
		InTime:     req.InTime.ptr(),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, v)
}

// Update handles PUT /visitors/:id.
//
// @Summary      Edit a visitor entry
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Visitor id"
// @Param        body  body      updateVisitorRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Visitor}
// @Failure      404   {object}  Envelope
// @Router       /visitors/{id} [put]
func (h *VisitorHandler) Update(c echo.Context) error {
	var req updateVisitorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.VisitorPatch{
		Name:       req.Name,
		FlatNumber: req.FlatNumber,
		Purpose:    req.Purpose,
		Vehicle:    req.Vehicle,
		InTime:     req.InTime.ptr(),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v)
}

// Delete handles DELETE /visitors/:id.
//
// @Summary      Delete a visitor entry
// @Tags         visitors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Visitor id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /visitors/{id} [delete]
func (h *VisitorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "visitor deleted")
}

// Checkout handles PATCH /visitors/:id/checkout.
//
// @Summary      Check a visitor out
// @Tags         visitors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Visitor id"
// @Success      200  {object}  Envelope{data=domain.Visitor}
// @Failure      404  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /visitors/{id}/checkout [patch]
func (h *VisitorHandler) Checkout(c echo.Context) error {
	v, err := h.service.Checkout(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v)
}
