package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saral-hq/saral/internal/shared"
)

func TestCapability(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{http.MethodGet, "view_supplier"},
		{http.MethodHead, "view_supplier"},
		{http.MethodPost, "add_supplier"},
		{http.MethodPut, "edit_supplier"},
		{http.MethodPatch, "edit_supplier"},
		{http.MethodDelete, "delete_supplier"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, capability(tc.method, "supplier"), tc.method)
	}
}

type fakeChecker struct {
	granted map[string]bool
	asked   []string
}

func (f *fakeChecker) HasPermission(_ context.Context, _ int64, code string) (bool, error) {
	f.asked = append(f.asked, code)
	return f.granted[code], nil
}

func serveGated(t *testing.T, checker Checker, method string, actor int64) *httptest.ResponseRecorder {
	t.Helper()
	mw := NewMiddleware(checker, slog.New(slog.DiscardHandler))
	handler := mw.Require("purchase")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(method, "/purchases", nil)
	if actor != 0 {
		req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireRejectsAnonymous(t *testing.T) {
	rec := serveGated(t, &fakeChecker{}, http.MethodGet, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRejectsMissingCapability(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"view_purchase": true}}
	rec := serveGated(t, checker, http.MethodPost, 9)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"add_purchase"}, checker.asked)
}

func TestRequireAllowsGrantedCapability(t *testing.T) {
	checker := &fakeChecker{granted: map[string]bool{"add_purchase": true}}
	rec := serveGated(t, checker, http.MethodPost, 9)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
