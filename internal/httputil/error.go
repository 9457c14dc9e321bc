package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a domain error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, bracket.ErrInvalidInput),
		errors.Is(err, bracket.ErrInvalidSeedCount),
		errors.Is(err, bracket.ErrDuplicateParticipant),
		errors.Is(err, bracket.ErrInvalidMatchReference),
		errors.Is(err, bracket.ErrParticipantMismatch):
		return http.StatusBadRequest
	case errors.Is(err, bracket.ErrTiedScore),
		errors.Is(err, bracket.ErrRoundNotComplete),
		errors.Is(err, bracket.ErrRoundAlreadyAdvanced),
		errors.Is(err, bracket.ErrInvalidStateTransition),
		errors.Is(err, bracket.ErrVersionConflict),
		errors.Is(err, bracket.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, bracket.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, bracket.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bracket.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError reports err to the client. Internal errors are logged and hidden
// behind a generic message.
func WriteError(w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		InternalServerError(w, msg, err)
		return
	case status == http.StatusServiceUnavailable:
		slog.Error(msg, "error", err)
	default:
		slog.Warn(msg, "status", status, "error", err)
	}
	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func Unauthorized(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: msg})
}
