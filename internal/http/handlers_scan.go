package httpx

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/clearmed/clearmed-api/internal/service"
)

// Uploaded documents are phone-camera photos; keep uploads well under this.
const maxScanBodyBytes = 20 << 20

// ScanHandlers serves the scan trigger, result polling and history routes.
type ScanHandlers struct {
	Svc    *service.ScanService
	Logger *slog.Logger
}

// HandleScan accepts a document upload and triggers a scan. Multipart forms
// are passed through to the webhook transport verbatim; JSON bodies carry the
// REST-transport payload directly.
func (h *ScanHandlers) HandleScan(w http.ResponseWriter, r *http.Request) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != "multipart/form-data" && mediaType != "application/json") {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New("expected multipart/form-data or application/json"),
		})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxScanBodyBytes+1))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}
	if len(raw) > maxScanBodyBytes {
		WriteError(w, ErrorParams{
			Code:    http.StatusRequestEntityTooLarge,
			ErrCode: "upload_too_large",
			Err:     errors.New("uploaded document is too large"),
		})
		return
	}

	var in service.TriggerInput
	if mediaType == "application/json" {
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
			return
		}
		in.Data = data
	} else {
		in.ContentType = r.Header.Get("Content-Type")
		in.Body = bytes.NewReader(raw)
		in.Data = documentPayload(raw, params["boundary"])
	}
	if sess, ok := SessionFromContext(r.Context()); ok {
		in.UserEmail = sess.Email
	}

	out, err := h.Svc.Trigger(r.Context(), in)
	if err != nil {
		h.Logger.Error("scan trigger failed", "error", err)
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// documentPayload extracts the first file part of the multipart form as the
// REST-transport payload. Best effort: the webhook transport uses the raw
// body instead, so a parse failure here returns nil.
func documentPayload(raw []byte, boundary string) map[string]any {
	if boundary == "" {
		return nil
	}
	mr := multipart.NewReader(bytes.NewReader(raw), boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil
		}
		if part.FileName() == "" {
			continue
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return nil
		}
		return map[string]any{
			"image":    base64.StdEncoding.EncodeToString(content),
			"filename": part.FileName(),
			"mimeType": part.Header.Get("Content-Type"),
		}
	}
}

// HandleResults resolves a previously triggered scan by execution ID.
func (h *ScanHandlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	executionID := r.URL.Query().Get("executionId")
	if executionID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New("executionId query parameter is required"),
		})
		return
	}

	res, err := h.Svc.Result(r.Context(), executionID)
	if err != nil {
		h.Logger.Warn("result resolution failed", "execution_id", executionID, "error", err)
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// HandleHistory lists the signed-in user's scans, newest first.
func (h *ScanHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	scans, err := h.Svc.History(r.Context(), sess.Email)
	if err != nil {
		h.Logger.Error("history lookup failed", "error", err)
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"scans": scans})
}

// HandleHistoryAppend records a scan triggered out of band, for example one
// resolved from a client-held result copy.
func (h *ScanHandlers) HandleHistoryAppend(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req struct {
		ExecutionID string `json:"executionId"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ExecutionID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_request",
			Err:     errors.New("executionId is required"),
		})
		return
	}

	if err := h.Svc.RecordScan(r.Context(), sess.Email, req.ExecutionID); err != nil {
		h.Logger.Error("history append failed", "error", err)
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
