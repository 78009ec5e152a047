package handler

type createBillRequest struct {
	User        string   `json:"user"`
	UserID      string   `json:"userId"`
	Description string   `json:"description" validate:"required"`
	Amount      float64  `json:"amount"      validate:"gt=0"`
	DueDate     flexTime `json:"dueDate"     swaggertype:"string" example:"2025-10-01"`
	Status      string   `json:"status"      validate:"omitempty,oneof=pending failed"`
}

// owner accepts either spelling of the owning user's id.
func (r createBillRequest) owner() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.User
}

type updateBillRequest struct {
	Description *string   `json:"description"`
	Amount      *float64  `json:"amount"      validate:"omitempty,gt=0"`
	DueDate     *flexTime `json:"dueDate"     swaggertype:"string"`
	Status      *string   `json:"status"      validate:"omitempty,oneof=pending failed refunded"`
}

type payBillRequest struct {
	Amount     float64 `json:"amount"     validate:"gt=0"`
	GatewayRef string  `json:"gatewayRef"`
}
