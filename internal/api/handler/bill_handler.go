package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/api/metrics"
	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

// BillHandler serves bills and the payment ledger.
type BillHandler struct {
	bills    ports.BillService
	payments ports.PaymentService
}

func NewBillHandler(bills ports.BillService, payments ports.PaymentService) *BillHandler {
	return &BillHandler{bills: bills, payments: payments}
}

// List handles GET /bills. Residents and tenants only ever see their own bills.
//
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        user    query     string  false  "Owner user id (managers only)"
// @Param        status  query     string  false  "pending, completed, failed or refunded"
// @Success      200     {object}  Envelope{data=[]domain.Bill}
// @Router       /bills [get]
func (h *BillHandler) List(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	filter := ports.BillFilter{
		UserID: c.QueryParam("user"),
		Status: domain.BillStatus(c.QueryParam("status")),
	}
	if scope := ownerScope(me); scope != "" {
		filter.UserID = scope
	}

	bills, err := h.bills.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, bills)
}

// Get handles GET /bills/:id.
//
// @Summary      Get a bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bill id"
// @Success      200  {object}  Envelope{data=domain.Bill}
// @Failure      404  {object}  Envelope
// @Router       /bills/{id} [get]
func (h *BillHandler) Get(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	bill, err := h.bills.Get(c.Request().Context(), c.Param("id"), ownerScope(me))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, bill)
}

// Create handles POST /bills.
//
// @Summary      Create a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBillRequest  true  "Bill"
// @Success      201   {object}  Envelope{data=domain.Bill}
// @Failure      400   {object}  Envelope
// @Router       /bills [post]
func (h *BillHandler) Create(c echo.Context) error {
	var req createBillRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	bill, err := h.bills.Create(c.Request().Context(), toCreateBillInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, bill)
}

// Generate handles POST /bills/generate. The body is an array of bills; every
// row is validated before any is written.
//
// @Summary      Generate bills in batch
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string               false  "Rejects a replay of the same batch"
// @Param        body             body      []createBillRequest  true   "Bills"
// @Success      201              {object}  Envelope{data=[]domain.Bill}
// @Failure      400              {object}  Envelope
// @Failure      409              {object}  Envelope
// @Router       /bills/generate [post]
func (h *BillHandler) Generate(c echo.Context) error {
	var reqs []createBillRequest
	if err := c.Bind(&reqs); err != nil {
		return fmt.Errorf("%w: body must be an array of bills", domain.ErrValidation)
	}

	items := make([]ports.CreateBillInput, 0, len(reqs))
	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		items = append(items, toCreateBillInput(reqs[i]))
	}

	bills, err := h.bills.Generate(c.Request().Context(), ports.GenerateBillsInput{
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
		Items:          items,
	})
	if err != nil {
		return err
	}

	metrics.BillsGeneratedTotal.Add(float64(len(bills)))
	return respond(c, http.StatusCreated, bills)
}

// Update handles PUT /bills/:id. The amount may be raised but never lowered.
//
// @Summary      Update a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Bill id"
// @Param        body  body      updateBillRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Bill}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /bills/{id} [put]
func (h *BillHandler) Update(c echo.Context) error {
	var req updateBillRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := ports.UpdateBillInput{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate.ptr(),
	}
	if req.Status != nil {
		status := domain.BillStatus(*req.Status)
		input.Status = &status
	}

	bill, err := h.bills.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, bill)
}

// Delete handles DELETE /bills/:id.
//
// @Summary      Delete a bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bill id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /bills/{id} [delete]
func (h *BillHandler) Delete(c echo.Context) error {
	if err := h.bills.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "bill deleted")
}

// Pay handles PATCH /bills/:id/pay. Residents and tenants may only pay their
// own bills; managers may record a payment against any bill.
//
// @Summary      Pay a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Bill id"
// @Param        body  body      payBillRequest  true  "Payment"
// @Success      200   {object}  Envelope{data=domain.Bill}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /bills/{id}/pay [patch]
func (h *BillHandler) Pay(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	var req payBillRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	bill, err := h.bills.Pay(c.Request().Context(), ports.PayBillInput{
		BillID:     c.Param("id"),
		Amount:     req.Amount,
		GatewayRef: req.GatewayRef,
		PayerID:    ownerScope(me),
	})
	metrics.BillPaymentsTotal.WithLabelValues(paymentResult(err)).Inc()
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, bill)
}

// Payments handles GET /payments.
//
// @Summary      List ledger entries
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        user  query     string  false  "Payer id (managers only)"
// @Param        bill  query     string  false  "Bill id"
// @Success      200   {object}  Envelope{data=[]domain.Payment}
// @Router       /payments [get]
func (h *BillHandler) Payments(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	filter := ports.PaymentFilter{UserID: c.QueryParam("user"), BillID: c.QueryParam("bill")}
	if scope := ownerScope(me); scope != "" {
		filter.UserID = scope
	}

	payments, err := h.payments.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, payments)
}

func toCreateBillInput(req createBillRequest) ports.CreateBillInput {
	return ports.CreateBillInput{
		UserID:      req.owner(),
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate.Time,
		Status:      domain.BillStatus(req.Status),
	}
}

func paymentResult(err error) string {
	switch {
	case err == nil:
		return "paid"
	case errors.Is(err, domain.ErrInsufficientAmount):
		return "insufficient"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
