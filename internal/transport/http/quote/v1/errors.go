package http

import (
	"errors"
	"net/http"

	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/platform/logger"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrUnknownStatus):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrQuoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrReferenceExhausted):
		return http.StatusConflict
	case errors.Is(err, model.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	resp := errorResponse{
		Code:    code,
		Message: err.Error(),
		Reasons: model.Reasons(err),
	}

	if code == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.ErrorF(err),
		)
		resp.Message = http.StatusText(code)
	}
	writeJSON(w, r, code, resp)
}
