package apperr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad limit"), http.StatusBadRequest},
		{BadRequest("bad id"), http.StatusBadRequest},
		{Unavailable("store down"), http.StatusServiceUnavailable},
		{New(KindUnknown, "unknown"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("expected status %d for %q, got %d", tc.want, tc.err.Message, got)
		}
	}
}

func TestWithDetailsKeepsMessage(t *testing.T) {
	err := Validation("limit exceeds maximum").WithDetails(map[string]int{"max": 100})
	if err.Error() != "limit exceeds maximum" {
		t.Fatalf("expected message to be kept, got %q", err.Error())
	}
	if fmt.Sprint(err.Details) != "map[max:100]" {
		t.Fatalf("expected details to be set, got %v", err.Details)
	}
}
