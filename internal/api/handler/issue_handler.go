package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type IssueHandler struct {
	service ports.IssueService
}

func NewIssueHandler(service ports.IssueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// List handles GET /issues.
//
// @Summary      List maintenance issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "open, in_progress, resolved or closed"
// @Param        priority    query     string  false  "low, medium or high"
// @Param        reporter    query     string  false  "Reporter user id"
// @Param        technician  query     string  false  "Technician id"
// @Success      200         {object}  Envelope{data=[]domain.Issue}
// @Router       /issues [get]
func (h *IssueHandler) List(c echo.Context) error {
	issues, err := h.service.List(c.Request().Context(), ports.IssueFilter{
		Status:       domain.IssueStatus(c.QueryParam("status")),
		Priority:     domain.IssuePriority(c.QueryParam("priority")),
		ReporterID:   c.QueryParam("reporter"),
		TechnicianID: c.QueryParam("technician"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, issues)
}

// Get handles GET /issues/:id.
//
// @Summary      Get an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Issue id"
// @Success      200  {object}  Envelope{data=domain.Issue}
// @Failure      404  {object}  Envelope
// @Router       /issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	issue, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, issue)
}

// Create handles POST /issues. The reporter is always the caller.
//
// @Summary      Report an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIssueRequest  true  "Issue"
// @Success      201   {object}  Envelope{data=domain.Issue}
// @Failure      400   {object}  Envelope
// @Router       /issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createIssueRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	issue, err := h.service.Create(c.Request().Context(), ports.CreateIssueInput{
		Title:        req.Title,
		Description:  req.Description,
		Images:       req.Images,
		Priority:     domain.IssuePriority(req.Priority),
		TechnicianID: req.Technician,
		DueDate:      req.DueDate.ptr(),
		ReporterID:   me.ID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, issue)
}

// Update handles PUT /issues/:id.
//
// @Summary      Update an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Issue id"
// @Param        body  body      updateIssueRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Issue}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /issues/{id} [put]
func (h *IssueHandler) Update(c echo.Context) error {
	var req updateIssueRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patch := ports.IssuePatch{
		Title:        req.Title,
		Description:  req.Description,
		Images:       req.Images,
		TechnicianID: req.Technician,
		DueDate:      req.DueDate.ptr(),
	}
	if req.Status != nil {
		s := domain.IssueStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.IssuePriority(*req.Priority)
		patch.Priority = &p
	}

	issue, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, issue)
}

// Delete handles DELETE /issues/:id.
//
// @Summary      Delete an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Issue id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /issues/{id} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "issue deleted")
}
