package handler

import "github.com/habitat-society/habitat-api/internal/core/domain"

type registerRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	Phone      string `json:"phone"`
	FlatNumber string `json:"flatNumber"`
	Role       string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

type permissionsResponse struct {
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

type createUserRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	Phone      string `json:"phone"`
	FlatNumber string `json:"flatNumber"`
	Role       string `json:"role"       validate:"omitempty,oneof=admin committee resident tenant security technician"`
}

type updateUserRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	FlatNumber *string `json:"flatNumber"`
	Password   *string `json:"password"   validate:"omitempty,min=6"`
	Role       *string `json:"role"       validate:"omitempty,oneof=admin committee resident tenant security technician"`
	IsActive   *bool   `json:"isActive"`
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	FlatNumber *string `json:"flatNumber"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
}
