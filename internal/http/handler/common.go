package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/bitrix"
	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondServiceError maps a service failure onto the right status: a
// disabled CRM client is 503, anything else is a 502 from the upstream
func respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, bitrix.ErrDisabled) {
		respondWithError(w, http.StatusServiceUnavailable, "CRM integration is not configured")
		return
	}
	respondWithError(w, http.StatusBadGateway, err.Error())
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusServiceUnavailable:
		return domain.ErrorTypeUnavailable
	default:
		return domain.ErrorTypeInternal
	}
}

// yearParam reads the ?year= query parameter, defaulting to the current
// year. The second return is false after an error response was written.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		respondWithError(w, http.StatusBadRequest, "year must be a four-digit year")
		return 0, false
	}
	return year, true
}

// pageParam reads the ?page= query parameter, defaulting to 1
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		respondWithError(w, http.StatusBadRequest, "page must be a positive integer")
		return 0, false
	}
	return page, true
}
