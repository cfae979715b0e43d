package core

import (
	"BandDesk/entity"
	"BandDesk/internal/lib/sl"
	"BandDesk/internal/service/assignment"
	"BandDesk/internal/service/submission"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// Repository is the read side of the store client the handler serves lists
// from. Writes go through the submission and assignment services.
type Repository interface {
	ListAgreements(ctx context.Context) ([]entity.Agreement, error)
}

// IdentityService resolves and authenticates sessions.
type IdentityService interface {
	Ready() bool
	Resolve(credential string) (*entity.Session, error)
	AuthenticateByToken(token string) (*entity.Session, error)
}

// SubmissionService persists validated agreement forms.
type SubmissionService interface {
	Submit(ctx context.Context, form *submission.Form, submittedBy string) (*submission.Result, error)
}

// AssignmentService applies instrument assignments.
type AssignmentService interface {
	Assign(ctx context.Context, id, instrument, brand, defects string) (*assignment.Result, error)
}

// ExportService renders the roster workbook.
type ExportService interface {
	BuildRoster(agreements []entity.Agreement) (*excelize.File, error)
}

// Handler is the composition root behind the HTTP API. It owns no logic of
// its own; every call delegates to the service that implements it.
type Handler struct {
	log        *slog.Logger
	repository Repository
	identity   IdentityService
	submission SubmissionService
	assignment AssignmentService
	export     ExportService
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log.With(sl.Module("core")),
	}
}

func (h *Handler) SetRepository(repository Repository) {
	h.repository = repository
}

func (h *Handler) SetIdentityService(identity IdentityService) {
	h.identity = identity
}

func (h *Handler) SetSubmissionService(submission SubmissionService) {
	h.submission = submission
}

func (h *Handler) SetAssignmentService(assignment AssignmentService) {
	h.assignment = assignment
}

func (h *Handler) SetExportService(export ExportService) {
	h.export = export
}

func (h *Handler) IdentityReady() bool {
	return h.identity != nil && h.identity.Ready()
}

func (h *Handler) ResolveSession(credential string) (*entity.Session, error) {
	if h.identity == nil {
		return nil, fmt.Errorf("identity service not available")
	}
	return h.identity.Resolve(credential)
}

func (h *Handler) AuthenticateByToken(token string) (*entity.Session, error) {
	if h.identity == nil {
		return nil, fmt.Errorf("identity service not available")
	}
	return h.identity.AuthenticateByToken(token)
}

func (h *Handler) SubmitAgreement(ctx context.Context, form *submission.Form, submittedBy string) (*submission.Result, error) {
	if h.submission == nil {
		return nil, fmt.Errorf("submission service not available")
	}
	return h.submission.Submit(ctx, form, submittedBy)
}

func (h *Handler) AssignInstrument(ctx context.Context, id, instrument, brand, defects string) (*assignment.Result, error) {
	if h.assignment == nil {
		return nil, fmt.Errorf("assignment service not available")
	}
	return h.assignment.Assign(ctx, id, instrument, brand, defects)
}

func (h *Handler) ListAgreements(ctx context.Context) ([]entity.Agreement, error) {
	if h.repository == nil {
		return nil, fmt.Errorf("repository not available")
	}
	return h.repository.ListAgreements(ctx)
}

func (h *Handler) BuildRoster(agreements []entity.Agreement) (*excelize.File, error) {
	if h.export == nil {
		return nil, fmt.Errorf("export service not available")
	}
	return h.export.BuildRoster(agreements)
}
