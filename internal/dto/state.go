package dto

import "vvf-listone/internal/model"

// ── state DTOs ──

// SelectedDateRequest moves the dashboard cursor
type SelectedDateRequest struct {
	SelectedDate string `json:"selectedDate" binding:"required"`
}

// ScreenRequest navigation
type ScreenRequest struct {
	Screen string `json:"screen" binding:"required"`
}

// EventsRequest whole-collection replacement
type EventsRequest struct {
	Events []model.OperationalEvent `json:"events" binding:"required"`
}

// OperatorsRequest whole-roster replacement
type OperatorsRequest struct {
	Operators []model.Operator `json:"operators" binding:"required"`
}

// EventListQuery optional day filter
type EventListQuery struct {
	Date string `form:"date"`
}

// ExportSheetQuery day to export, default selected date
type ExportSheetQuery struct {
	Date string `form:"date"`
}
