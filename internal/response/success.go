package response

import (
	"encoding/json"
	"net/http"
)

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	envelope := SuccessEnvelope{
		Success: true,
		Data:    data,
	}

	// Headers are already out; encoding failures can only be logged.
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		h.Log.Error("failed to encode success response", "error", err, "status", status)
	}
}
