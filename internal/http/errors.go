package httpx

import (
	"errors"
	"net/http"

	"github.com/clearmed/clearmed-api/internal/adapters/openai"
	"github.com/clearmed/clearmed-api/internal/adapters/workflow"
	"github.com/clearmed/clearmed-api/internal/domain/model"
	"github.com/clearmed/clearmed-api/internal/service"
)

// writeServiceError maps service and adapter errors onto HTTP statuses:
// invalid input 400, missing/expired results 404, upstream 5xx failures 502,
// upstream rejections 400, unconfigured collaborators 503, everything
// else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		transportErr *workflow.TransportError
		malformedErr *workflow.MalformedResponseError
		providerErr  *openai.ProviderError
	)

	switch {
	case errors.Is(err, model.ErrResultNotFound):
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "result_not_found",
			Err:     errors.New("result not found or expired; trigger a new scan"),
		})
	case errors.Is(err, service.ErrNoScanPayload),
		errors.Is(err, service.ErrEmptyMessage):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
	case errors.Is(err, service.ErrChatNotConfigured),
		errors.Is(err, workflow.ErrNotConfigured),
		errors.Is(err, service.ErrProviderNotConfigured):
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "not_configured", Err: err})
	case errors.As(err, &transportErr):
		// A 5xx from the engine is an availability problem; a 4xx means the
		// engine rejected this particular request (unknown execution ID,
		// bad credentials) and retrying won't help.
		code := http.StatusBadRequest
		if transportErr.Status >= 500 {
			code = http.StatusBadGateway
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: "workflow_unavailable", Err: err})
	case errors.As(err, &malformedErr):
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "workflow_unavailable", Err: err})
	case errors.As(err, &providerErr):
		code := http.StatusBadRequest
		if providerErr.Status >= 500 {
			code = http.StatusBadGateway
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: "completion_failed", Err: err})
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal_error",
			Err:     errors.New("internal server error"),
		})
	}
}
