package handler

import "github.com/privytune/backend/internal/core/domain"

// errorResponse is the error envelope rendered by handlers and the global
// error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

type modelListResponse struct {
	Models []domain.ModelSummary `json:"models"`
}

type downloadReportRequest struct {
	ShardURL string `json:"shard_url" validate:"required"`
	SHA256   string `json:"sha256"    validate:"required,len=64"`
	Size     int64  `json:"size"      validate:"gte=0"`
	Status   string `json:"status"    validate:"required,oneof=completed failed"`
}

type downloadListResponse struct {
	Downloads []*domain.ShardDownload `json:"downloads"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}
