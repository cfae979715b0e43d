package session

import (
	"BandDesk/entity"
	"BandDesk/internal/service/identity"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeCore struct {
	ready   bool
	session *entity.Session
	err     error
}

func (f *fakeCore) IdentityReady() bool {
	return f.ready
}

func (f *fakeCore) ResolveSession(credential string) (*entity.Session, error) {
	return f.session, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveNotReady(t *testing.T) {
	core := &fakeCore{ready: false}

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	rec := httptest.NewRecorder()

	Resolve(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: neither role may be served", rec.Code)
	}
}

func TestResolveAnonymous(t *testing.T) {
	core := &fakeCore{ready: true, session: entity.NewAnonymousSession()}

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	rec := httptest.NewRecorder()

	Resolve(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data entity.Session `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Data.Claim != entity.SubmitterClaim {
		t.Errorf("claim = %q, want submitter", body.Data.Claim)
	}
	if body.Data.Token == "" {
		t.Error("response must carry the session token")
	}
}

func TestResolveBadCredential(t *testing.T) {
	core := &fakeCore{ready: true, err: identity.ErrBadCredential}

	req := httptest.NewRequest(http.MethodPost, "/session",
		strings.NewReader(`{"credential":"wrong"}`))
	rec := httptest.NewRecorder()

	Resolve(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
