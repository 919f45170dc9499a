package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTypeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"invalid reference", NewInvalidReferenceError("source", "n9"), IsInvalidReference},
		{"duplicate id", NewDuplicateIDError("node", "n1"), IsDuplicateID},
		{"validation", NewValidationError("bad"), IsValidation},
		{"not found", NewNotFoundError("session"), IsNotFound},
		{"prompt pending", NewPromptPendingError(), IsPromptPending},
		{"cancelled", NewCancelledError("submit prompt"), IsCancelled},
		{"wrapped", fmt.Errorf("outer: %w", NewInvalidReferenceError("target", "x")), IsInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.True(t, IsType(FromContext("op", context.DeadlineExceeded), ErrorTypeTimeout))
	assert.True(t, IsCancelled(FromContext("op", context.Canceled)))
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("app error keeps its type", func(t *testing.T) {
		original := NewInvalidReferenceError("source", "n9")
		wrapped := Wrap(original, "add edge")

		assert.True(t, IsInvalidReference(wrapped))
		assert.Contains(t, wrapped.Error(), "add edge")
		assert.NotContains(t, original.Message, "add edge")
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		wrapped := Wrap(stderrors.New("boom"), "generate")
		assert.True(t, IsType(wrapped, ErrorTypeInternal))
	})
}

func TestToNotice(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    ErrorType
		wantMessage string
	}{
		{
			name:        "domain error passes through",
			err:         NewInvalidReferenceError("target", "n7"),
			wantKind:    ErrorTypeInvalidReference,
			wantMessage: `target node "n7" does not exist`,
		},
		{
			name:        "raw error is masked",
			err:         stderrors.New("nil pointer somewhere"),
			wantKind:    ErrorTypeInternal,
			wantMessage: FallbackMessage,
		},
		{
			name:        "internal error is masked",
			err:         NewInternalError("stack details"),
			wantKind:    ErrorTypeInternal,
			wantMessage: FallbackMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notice := ToNotice(tt.err)
			assert.Equal(t, tt.wantKind, notice.Kind)
			assert.Equal(t, tt.wantMessage, notice.Message)
		})
	}

	assert.Equal(t, Notice{}, ToNotice(nil))
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop())

	t.Run("app error uses its status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/edges", nil)

		handler.Handle(w, r, NewInvalidReferenceError("source", "n9"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Error)
		assert.Equal(t, ErrorTypeInvalidReference, resp.Notice.Kind)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		handler.Handle(w, r, stderrors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, FallbackMessage, resp.Notice.Message)
	})
}
