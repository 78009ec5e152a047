package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// List handles GET /bookings.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        user     query     string  false  "Owner user id (managers only)"
// @Param        amenity  query     string  false  "Amenity id"
// @Param        status   query     string  false  "pending, approved, rejected or cancelled"
// @Success      200      {object}  Envelope{data=[]domain.Booking}
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	filter := ports.BookingFilter{
		UserID:    c.QueryParam("user"),
		AmenityID: c.QueryParam("amenity"),
		Status:    domain.BookingStatus(c.QueryParam("status")),
	}
	if scope := ownerScope(me); scope != "" {
		filter.UserID = scope
	}

	bookings, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, bookings)
}

// Get handles GET /bookings/:id.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  Envelope{data=domain.Booking}
// @Failure      404  {object}  Envelope
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	b, err := h.service.Get(c.Request().Context(), c.Param("id"), ownerScope(me))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Create handles POST /bookings. The booking always belongs to the caller.
//
// @Summary      Book an amenity
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking"
// @Success      201   {object}  Envelope{data=domain.Booking}
// @Failure      400   {object}  Envelope
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	b, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		UserID:    me.ID,
		AmenityID: req.Amenity,
		StartTime: req.StartTime.Time,
		EndTime:   req.EndTime.Time,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, b)
}

// Update handles PUT /bookings/:id.
//
// @Summary      Reschedule a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Booking id"
// @Param        body  body      updateBookingRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Booking}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /bookings/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	b, err := h.service.Update(c.Request().Context(), c.Param("id"), ownerScope(me), ports.BookingPatch{
		AmenityID: req.Amenity,
		StartTime: req.StartTime.ptr(),
		EndTime:   req.EndTime.ptr(),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Delete handles DELETE /bookings/:id.
//
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "booking deleted")
}

// Approve handles PATCH /bookings/:id/approve.
//
// @Summary      Approve or reject a pending booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Booking id"
// @Param        body  body      approveBookingRequest  true  "Decision"
// @Success      200   {object}  Envelope{data=domain.Booking}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /bookings/{id}/approve [patch]
func (h *BookingHandler) Approve(c echo.Context) error {
	var req approveBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.service.Approve(c.Request().Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Cancel handles PATCH /bookings/:id/cancel. Only the owner may cancel.
//
// @Summary      Cancel own booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  Envelope{data=domain.Booking}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /bookings/{id}/cancel [patch]
func (h *BookingHandler) Cancel(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	b, err := h.service.Cancel(c.Request().Context(), c.Param("id"), me.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}
