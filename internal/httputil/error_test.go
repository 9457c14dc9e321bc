package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bracket.ErrInvalidSeedCount, http.StatusBadRequest},
		{bracket.ErrDuplicateParticipant, http.StatusBadRequest},
		{bracket.ErrInvalidMatchReference, http.StatusBadRequest},
		{bracket.ErrParticipantMismatch, http.StatusBadRequest},
		{bracket.ErrInvalidInput, http.StatusBadRequest},
		{bracket.ErrTiedScore, http.StatusConflict},
		{bracket.ErrRoundNotComplete, http.StatusConflict},
		{bracket.ErrRoundAlreadyAdvanced, http.StatusConflict},
		{bracket.ErrInvalidStateTransition, http.StatusConflict},
		{bracket.ErrVersionConflict, http.StatusConflict},
		{bracket.ErrAlreadyExists, http.StatusConflict},
		{bracket.ErrForbidden, http.StatusForbidden},
		{bracket.ErrNotFound, http.StatusNotFound},
		{bracket.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("save tournament: %w", bracket.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("domain error is reported", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, "submit score", bracket.ErrTiedScore)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, bracket.ErrTiedScore.Error(), body.Error)
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, "submit score", errors.New("disk on fire"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk on fire")
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Copa"}`))
		var p payload
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &p))
		assert.Equal(t, "Copa", p.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nombre":"Copa"}`))
		var p payload
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, &p))
	})

	t.Run("trailing data", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		var p payload
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, &p))
	})
}
