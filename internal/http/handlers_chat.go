package httpx

import (
	"log/slog"
	"net/http"

	"github.com/clearmed/clearmed-api/internal/domain/model"
	"github.com/clearmed/clearmed-api/internal/service"
)

// ChatHandlers serves the assistant chat route.
type ChatHandlers struct {
	Svc    *service.ChatService
	Logger *slog.Logger
}

type chatRequest struct {
	Message string `json:"message"`

	// ExecutionID resolves the scan server-side; ReportContext is the
	// client-held result copy and wins when both are present.
	ExecutionID   string            `json:"executionId,omitempty"`
	ReportContext *model.ScanResult `json:"reportContext,omitempty"`
}

// HandleChat produces one assistant reply grounded on the user's last scan.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	reply, err := h.Svc.Reply(r.Context(), req.Message, req.ReportContext, req.ExecutionID)
	if err != nil {
		h.Logger.Warn("chat reply failed", "error", err)
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
