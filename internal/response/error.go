package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alphafinance/backend/internal/errs"
	"github.com/alphafinance/backend/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch e := err.(type) {
	case *errs.NotFoundError:
		log.Warn("resource not found", "error", e.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", e.Message)

	case *errs.AlreadyExistsError:
		log.Warn("resource already exists", "error", e.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", e.Message)

	case *errs.ValidationError:
		log.Warn("validation failed", "error", e.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", e.Message)

	case *errs.NotLinkedError:
		log.Warn("no linked institution", "error", e.Message)
		h.WriteError(w, r, http.StatusBadRequest, "not_linked", e.Message)

	case *errs.ProviderError:
		level := slog.LevelError
		if e.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "provider error",
			"transient", e.Transient,
			"reauth", e.Reauth,
			"error", e.Message)

		switch {
		case e.Reauth:
			h.WriteError(w, r, http.StatusBadRequest, "reauth_required",
				"Bank connection needs to be re-authenticated")
		case e.Transient:
			h.WriteError(w, r, http.StatusServiceUnavailable, "provider_unavailable",
				"Bank data provider temporarily unavailable")
		default:
			h.WriteError(w, r, http.StatusBadGateway, "provider_error",
				"Bank data provider returned an error")
		}

	case *errs.StorageError:
		log.Error("storage error",
			"operation", e.Operation,
			"error", e.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case *errs.EncryptionError:
		log.Error("encryption error", "error", e.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
