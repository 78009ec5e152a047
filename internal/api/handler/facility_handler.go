package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

// AmenityHandler serves the bookable facility catalogue.
type AmenityHandler struct {
	service ports.AmenityService
}

func NewAmenityHandler(service ports.AmenityService) *AmenityHandler {
	return &AmenityHandler{service: service}
}

// List handles GET /amenities.
//
// @Summary      List amenities
// @Tags         amenities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.Amenity}
// @Router       /amenities [get]
func (h *AmenityHandler) List(c echo.Context) error {
	amenities, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, amenities)
}

// Get handles GET /amenities/:id.
//
// @Summary      Get an amenity
// @Tags         amenities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Amenity id"
// @Success      200  {object}  Envelope{data=domain.Amenity}
// @Failure      404  {object}  Envelope
// @Router       /amenities/{id} [get]
func (h *AmenityHandler) Get(c echo.Context) error {
	a, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

// Create handles POST /amenities.
//
// @Summary      Create an amenity
// @Tags         amenities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      amenityRequest  true  "Amenity"
// @Success      201   {object}  Envelope{data=domain.Amenity}
// @Failure      400   {object}  Envelope
// @Router       /amenities [post]
func (h *AmenityHandler) Create(c echo.Context) error {
	var req amenityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.service.Create(c.Request().Context(), domain.Amenity{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Rules:       req.Rules,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, a)
}

// Update handles PUT /amenities/:id.
//
// @Summary      Update an amenity
// @Tags         amenities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Amenity id"
// @Param        body  body      updateAmenityRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Amenity}
// @Failure      404   {object}  Envelope
// @Router       /amenities/{id} [put]
func (h *AmenityHandler) Update(c echo.Context) error {
	var req updateAmenityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.AmenityPatch{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Rules:       req.Rules,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, a)
}

// Delete handles DELETE /amenities/:id.
//
// @Summary      Delete an amenity
// @Tags         amenities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Amenity id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /amenities/{id} [delete]
func (h *AmenityHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "amenity deleted")
}

// TechnicianHandler serves the maintenance roster.
type TechnicianHandler struct {
	service ports.TechnicianService
}

func NewTechnicianHandler(service ports.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{service: service}
}

// List handles GET /technicians.
//
// @Summary      List technicians
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        active          query     bool    false  "Filter by active flag"
// @Param        specialization  query     string  false  "Specialization, e.g. plumbing"
// @Success      200             {object}  Envelope{data=[]domain.Technician}
// @Router       /technicians [get]
func (h *TechnicianHandler) List(c echo.Context) error {
	filter := ports.TechnicianFilter{Specialization: c.QueryParam("specialization")}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: active must be true or false", domain.ErrValidation)
		}
		filter.Active = &active
	}

	techs, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, techs)
}

// Get handles GET /technicians/:id.
//
// @Summary      Get a technician
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Technician id"
// @Success      200  {object}  Envelope{data=domain.Technician}
// @Failure      404  {object}  Envelope
// @Router       /technicians/{id} [get]
func (h *TechnicianHandler) Get(c echo.Context) error {
	t, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Create handles POST /technicians.
//
// @Summary      Add a technician
// @Tags         technicians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      technicianRequest  true  "Technician"
// @Success      201   {object}  Envelope{data=domain.Technician}
// @Failure      400   {object}  Envelope
// @Router       /technicians [post]
func (h *TechnicianHandler) Create(c echo.Context) error {
	var req technicianRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.service.Create(c.Request().Context(), domain.Technician{
		Name:            req.Name,
		Contact:         req.Contact,
		Specializations: req.Specializations,
		Availability:    req.Availability,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, t)
}

// Update handles PUT /technicians/:id.
//
// @Summary      Update a technician
// @Tags         technicians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Technician id"
// @Param        body  body      updateTechnicianRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Technician}
// @Failure      404   {object}  Envelope
// @Router       /technicians/{id} [put]
func (h *TechnicianHandler) Update(c echo.Context) error {
	var req updateTechnicianRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.TechnicianPatch{
		Name:            req.Name,
		Contact:         req.Contact,
		Specializations: req.Specializations,
		Availability:    req.Availability,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Delete handles DELETE /technicians/:id.
//
// @Summary      Remove a technician
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Technician id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /technicians/{id} [delete]
func (h *TechnicianHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "technician deleted")
}

// NoticeHandler serves society announcements.
type NoticeHandler struct {
	service ports.NoticeService
	now     func() time.Time
}

func NewNoticeHandler(service ports.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service, now: time.Now}
}

// List handles GET /notices. Managers may filter freely; every other role
// only sees notices addressed to it that are currently visible.
//
// @Summary      List notices
// @Tags         notices
// @Produce      json
// @Security     BearerAuth
// @Param        audience  query     string  false  "Role the notice is addressed to"
// @Param        active    query     bool    false  "Only notices visible now"
// @Success      200       {object}  Envelope{data=[]domain.Notice}
// @Router       /notices [get]
func (h *NoticeHandler) List(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	now := h.now()
	filter := ports.NoticeFilter{Audience: domain.Role(c.QueryParam("audience"))}
	if c.QueryParam("active") == "true" {
		filter.VisibleAt = &now
	}
	if !domain.Authorize(me.Role, domain.PermNoticesWrite) {
		filter = ports.NoticeFilter{Audience: me.Role, VisibleAt: &now}
	}

	notices, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, notices)
}

// Get handles GET /notices/:id.
//
// @Summary      Get a notice
// @Tags         notices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notice id"
// @Success      200  {object}  Envelope{data=domain.Notice}
// @Failure      404  {object}  Envelope
// @Router       /notices/{id} [get]
func (h *NoticeHandler) Get(c echo.Context) error {
	n, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, n)
}

// Create handles POST /notices.
//
// @Summary      Publish a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      noticeRequest  true  "Notice"
// @Success      201   {object}  Envelope{data=domain.Notice}
// @Failure      400   {object}  Envelope
// @Router       /notices [post]
func (h *NoticeHandler) Create(c echo.Context) error {
	var req noticeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	n, err := h.service.Create(c.Request().Context(), domain.Notice{
		Title:        req.Title,
		Description:  req.Description,
		VisibleFrom:  req.VisibleFrom.Time,
		VisibleUntil: req.VisibleUntil.Time,
		Pinned:       req.Pinned,
		Audience:     toRoles(req.Audience),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, n)
}

// Update handles PUT /notices/:id.
//
// @Summary      Update a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Notice id"
// @Param        body  body      updateNoticeRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Notice}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /notices/{id} [put]
func (h *NoticeHandler) Update(c echo.Context) error {
	var req updateNoticeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := ports.NoticePatch{
		Title:        req.Title,
		Description:  req.Description,
		VisibleFrom:  req.VisibleFrom.ptr(),
		VisibleUntil: req.VisibleUntil.ptr(),
		Pinned:       req.Pinned,
	}
	if req.Audience != nil {
		roles := toRoles(*req.Audience)
		patch.Audience = &roles
	}

	n, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, n)
}

// Delete handles DELETE /notices/:id.
//
// @Summary      Delete a notice
// @Tags         notices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notice id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /notices/{id} [delete]
func (h *NoticeHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "notice deleted")
}

func toRoles(in []string) []domain.Role {
	out := make([]domain.Role, len(in))
	for i, r := range in {
		out[i] = domain.Role(r)
	}
	return out
}
