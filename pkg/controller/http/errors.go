package http

import (
	"errors"
	"net/http"

	"github.com/secmon-lab/riskregister/pkg/domain/model"
	"github.com/secmon-lab/riskregister/pkg/usecase"
	"github.com/secmon-lab/riskregister/pkg/utils/errutil"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
)

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string               `json:"message"`
	Errors  []fieldErrorResponse `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// writeError maps use case errors to a status code and body. entity names
// the resource in 404 and duplicate messages, e.g. "Risk" or "Hazard".
// Anything not recognized is a 500 handled by errutil.
func writeError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		resp := errorResponse{
			Message: "Validation failed",
			Errors:  make([]fieldErrorResponse, len(verrs)),
		}
		for i, fe := range verrs {
			resp.Errors[i] = fieldErrorResponse{
				Field:   fe.Field,
				Code:    fe.Code(),
				Message: fe.Error(),
			}
		}
		writeClientError(w, r, http.StatusBadRequest, resp, err)

	case errors.Is(err, usecase.ErrNotFound):
		writeClientError(w, r, http.StatusNotFound, errorResponse{Message: entity + " not found"}, err)

	case errors.Is(err, usecase.ErrDuplicateID):
		writeClientError(w, r, http.StatusBadRequest, errorResponse{Message: entity + " ID already exists"}, err)

	case errors.Is(err, usecase.ErrUnknownCategory):
		writeClientError(w, r, http.StatusBadRequest, errorResponse{Message: "Category does not exist"}, err)

	case errors.Is(err, usecase.ErrInvalidExportFormat):
		writeClientError(w, r, http.StatusBadRequest, errorResponse{Message: "Unsupported export format"}, err)

	case errors.Is(err, usecase.ErrInvalidInput):
		writeClientError(w, r, http.StatusBadRequest, errorResponse{Message: err.Error()}, err)

	default:
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
	}
}

func writeClientError(w http.ResponseWriter, r *http.Request, status int, resp errorResponse, err error) {
	logging.From(r.Context()).Debug("request rejected", "status", status, "error", err.Error())
	writeJSON(w, r, status, resp)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusBadRequest, errorResponse{Message: msg})
}
