package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"conflict", Conflict("duplicate email"), http.StatusBadRequest},
		{"authentication", Authentication("no token"), http.StatusUnauthorized},
		{"authorization", Authorization("not yours"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"internal", Internal(errors.New("db exploded")), http.StatusInternalServerError},
		{"unclassified", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", NotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClientMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("dial tcp 10.0.0.1: connection refused"))
	if msg := ClientMessage(err); msg != "Internal Server Error" {
		t.Errorf("internal detail leaked: %q", msg)
	}
	if msg := ClientMessage(errors.New("raw failure")); msg != "Internal Server Error" {
		t.Errorf("unclassified detail leaked: %q", msg)
	}
	if msg := ClientMessage(NotFound("Task not found")); msg != "Task not found" {
		t.Errorf("classified message lost: %q", msg)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Authorization("denied"))
	if !IsKind(err, KindAuthorization) {
		t.Error("wrapped authorization error not recognized")
	}
	if IsKind(err, KindNotFound) {
		t.Error("kind confusion")
	}
	if IsKind(errors.New("plain"), KindValidation) {
		t.Error("unclassified error matched a kind")
	}
}
