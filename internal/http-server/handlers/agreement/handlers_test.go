package agreement

import (
	"BandDesk/entity"
	"BandDesk/internal/service/assignment"
	"BandDesk/internal/service/submission"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type fakeCore struct {
	submitResult *submission.Result
	submitErr    error
	assignResult *assignment.Result
	assignErr    error
	agreements   []entity.Agreement
	listErr      error

	assignedID string
}

func (f *fakeCore) SubmitAgreement(_ context.Context, form *submission.Form, _ string) (*submission.Result, error) {
	return f.submitResult, f.submitErr
}

func (f *fakeCore) AssignInstrument(_ context.Context, id, instrument, brand, defects string) (*assignment.Result, error) {
	f.assignedID = id
	return f.assignResult, f.assignErr
}

func (f *fakeCore) ListAgreements(_ context.Context) ([]entity.Agreement, error) {
	return f.agreements, f.listErr
}

func (f *fakeCore) BuildRoster(agreements []entity.Agreement) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmitHandlerValidationErrors(t *testing.T) {
	core := &fakeCore{
		submitResult: &submission.Result{
			FieldErrors: map[string]string{"studentName": "Student Name is required."},
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/agreements", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	Submit(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Fields["studentName"] != "Student Name is required." {
		t.Errorf("fields = %v, want studentName violation", body.Fields)
	}
}

func TestSubmitHandlerSuccess(t *testing.T) {
	core := &fakeCore{
		submitResult: &submission.Result{Submitted: true, ID: "a1"},
	}

	req := httptest.NewRequest(http.MethodPost, "/agreements", strings.NewReader(`{"student_name":"Alex Lee"}`))
	rec := httptest.NewRecorder()

	Submit(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSubmitHandlerStoreErrorIsRetryable(t *testing.T) {
	core := &fakeCore{submitErr: context.DeadlineExceeded}

	req := httptest.NewRequest(http.MethodPost, "/agreements", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	Submit(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body struct {
		Retryable bool `json:"retryable"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !body.Retryable {
		t.Error("store failure must be flagged retryable")
	}
}

func TestAssignHandlerRoutesID(t *testing.T) {
	core := &fakeCore{assignResult: &assignment.Result{Assigned: true}}

	router := chi.NewRouter()
	router.Post("/agreements/{id}/assign", Assign(discardLogger(), core))

	req := httptest.NewRequest(http.MethodPost, "/agreements/a42/assign",
		strings.NewReader(`{"instrument":"Clarinet","brand":"Selmer-77","defects":"minor dent"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if core.assignedID != "a42" {
		t.Errorf("assigned id = %q, want a42", core.assignedID)
	}
}

func TestListHandlerPartitions(t *testing.T) {
	instrument := "Flute"
	core := &fakeCore{
		agreements: []entity.Agreement{
			{ID: "a1"},
			{ID: "a2", Instrument: &instrument},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/agreements", nil)
	rec := httptest.NewRecorder()

	List(discardLogger(), core)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data struct {
			Pending   []entity.Agreement `json:"pending"`
			Completed []entity.Agreement `json:"completed"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Data.Pending) != 1 || body.Data.Pending[0].ID != "a1" {
		t.Errorf("pending = %v, want a1", body.Data.Pending)
	}
	if len(body.Data.Completed) != 1 || body.Data.Completed[0].ID != "a2" {
		t.Errorf("completed = %v, want a2", body.Data.Completed)
	}
}
