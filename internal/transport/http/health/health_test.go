package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	t.Parallel()

	ok := Check{Name: "ok", Probe: func(context.Context) error { return nil }}
	down := Check{Name: "mongo", Probe: func(context.Context) error { return errors.New("no reachable servers") }}

	tests := []struct {
		name     string
		checks   []Check
		wantCode int
		wantBody string
	}{
		{name: "no checks", wantCode: http.StatusOK, wantBody: "SERVING"},
		{name: "all pass", checks: []Check{ok, ok}, wantCode: http.StatusOK, wantBody: "SERVING"},
		{name: "one fails", checks: []Check{ok, down}, wantCode: http.StatusServiceUnavailable, wantBody: "NOT_SERVING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			Handler(time.Second, tt.checks...)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
