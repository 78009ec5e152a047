package handler

type createBookingRequest struct {
	Amenity   string   `json:"amenity"   validate:"required"`
	StartTime flexTime `json:"startTime" swaggertype:"string" example:"2025-10-01T18:00:00Z"`
	EndTime   flexTime `json:"endTime"   swaggertype:"string" example:"2025-10-01T20:00:00Z"`
}

type updateBookingRequest struct {
	Amenity   *string   `json:"amenity"`
	StartTime *flexTime `json:"startTime" swaggertype:"string"`
	EndTime   *flexTime `json:"endTime"   swaggertype:"string"`
}

type approveBookingRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type createIssueRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	Images      []string  `json:"images"`
	Priority    string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Technician  string    `json:"technician"`
	DueDate     *flexTime `json:"dueDate"     swaggertype:"string"`
}

type updateIssueRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images"`
	Status      *string   `json:"status"      validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority    *string   `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Technician  *string   `json:"technician"`
	DueDate     *flexTime `json:"dueDate"     swaggertype:"string"`
}

type createVisitorRequest struct {
	Name       string    `json:"name"       validate:"required"`
	FlatNumber string    `json:"flatNumber" validate:"required"`
	Purpose    string    `json:"purpose"    validate:"required"`
	Vehicle    string    `json:"vehicle"`
	InTime     *flexTime `json:"inTime"     swaggertype:"string"`
}

type updateVisitorRequest struct {
	Name       *string   `json:"name"`
	FlatNumber *string   `json:"flatNumber"`
	Purpose    *string   `json:"purpose"`
	Vehicle    *string   `json:"vehicle"`
	InTime     *flexTime `json:"inTime"     swaggertype:"string"`
}

type amenityRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"    validate:"gte=0"`
	Rules       string `json:"rules"`
}

type updateAmenityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity" validate:"omitempty,gte=0"`
	Rules       *string `json:"rules"`
}

type technicianRequest struct {
	Name            string   `json:"name"    validate:"required"`
	Contact         string   `json:"contact"`
	Specializations []string `json:"specializations"`
	Availability    string   `json:"availability"`
}

type updateTechnicianRequest struct {
	Name            *string   `json:"name"`
	Contact         *string   `json:"contact"`
	Specializations *[]string `json:"specializations"`
	Availability    *string   `json:"availability"`
	IsActive        *bool     `json:"isActive"`
}

type noticeRequest struct {
	Title        string   `json:"title"       validate:"required"`
	Description  string   `json:"description" validate:"required"`
	VisibleFrom  flexTime `json:"visibleFrom"  swaggertype:"string"`
	VisibleUntil flexTime `json:"visibleUntil" swaggertype:"string"`
	Pinned       bool     `json:"pinned"`
	Audience     []string `json:"audience"`
}

type updateNoticeRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	VisibleFrom  *flexTime `json:"visibleFrom"  swaggertype:"string"`
	VisibleUntil *flexTime `json:"visibleUntil" swaggertype:"string"`
	Pinned       *bool     `json:"pinned"`
	Audience     *[]string `json:"audience"`
}
