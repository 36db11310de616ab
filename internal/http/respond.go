package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/foremade/cart-service/internal/service"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	var blocked *service.BlockedError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, service.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, "auth_required", "sign in to checkout")
	case errors.Is(err, service.ErrStaleStock):
		respondError(w, http.StatusConflict, "stale_stock", "please review your cart, an item's stock changed")
	case errors.As(err, &blocked):
		reasons := make([]string, 0, len(blocked.Result.Reasons))
		for _, reason := range blocked.Result.Reasons {
			reasons = append(reasons, string(reason))
		}
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "checkout is not available for this cart",
			Code:    "checkout_blocked",
			Reasons: reasons,
		})
	default:
		respondError(w, http.StatusBadGateway, "persistence_error", "failed to load or update cart")
	}
}
