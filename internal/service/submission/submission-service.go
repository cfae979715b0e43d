package submission

import (
	"BandDesk/entity"
	"BandDesk/internal/lib/sl"
	"BandDesk/internal/lib/validate"
	"context"
	"errors"
	"fmt"
	"log/slog"

	repository "BandDesk/internal/database"

	"github.com/go-playground/validator/v10"
)

// Repository is the slice of the store client this service persists through.
type Repository interface {
	InsertAgreement(ctx context.Context, input *entity.AgreementInput) (string, error)
}

// Notifier forwards a short message to the operator channel.
type Notifier interface {
	SendMessage(msg string)
}

// Form carries the submitted agreement fields. SubmitToken is optional: a
// client that retries a failed submit should resend the same token so the
// store can recognize the duplicate.
type Form struct {
	StudentName      string                  `json:"student_name" validate:"required"`
	ParentName       string                  `json:"parent_name" validate:"required"`
	Address          string                  `json:"address" validate:"required"`
	PhoneNumber      string                  `json:"phone_number" validate:"required"`
	LoanDate         string                  `json:"loan_date"`
	Accessories      string                  `json:"accessories"`
	ParentSignature  entity.SignaturePayload `json:"parent_signature" validate:"required"`
	StudentSignature entity.SignaturePayload `json:"student_signature" validate:"required"`
	SubmitToken      string                  `json:"submit_token"`
}

// Result reports the outcome of one submit. FieldErrors is non-empty exactly
// when validation blocked the persist; Submitted flips only on a successful
// (or already-persisted) create.
type Result struct {
	Submitted   bool              `json:"submitted"`
	ID          string            `json:"id,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Service assembles validated agreement records and persists them.
type Service struct {
	repository Repository
	notifier   Notifier
	log        *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		log: logger.With(sl.Module("submission-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// requiredMessages maps the form's struct fields to the field keys and
// messages the submitter sees.
var requiredMessages = map[string][2]string{
	"StudentName":      {"studentName", "Student Name is required."},
	"ParentName":       {"parentName", "Parent/Guardian Name is required."},
	"Address":          {"address", "Address is required."},
	"PhoneNumber":      {"phoneNumber", "Phone Number is required."},
	"ParentSignature":  {"parentSignature", "Parent/Guardian signature is required."},
	"StudentSignature": {"studentSignature", "Student signature is required."},
}

// Validate collects every missing required field. It never fails fast: the
// submitter sees all violations at once, keyed by field name.
func (s *Service) Validate(form *Form) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		s.log.Error("validating form", sl.Err(err))
		return map[string]string{"form": "Form could not be validated."}
	}

	fieldErrors := make(map[string]string, len(violations))
	for _, violation := range violations {
		if entry, ok := requiredMessages[violation.StructField()]; ok {
			fieldErrors[entry[0]] = entry[1]
		}
	}
	return fieldErrors
}

// Submit validates the form and persists it as a pending agreement. The
// assignment fields are explicitly nil on the created record; the loan date
// defaults to today when the form left it empty. Validation failures never
// reach the store.
func (s *Service) Submit(ctx context.Context, form *Form, submittedBy string) (*Result, error) {
	if fieldErrors := s.Validate(form); fieldErrors != nil {
		return &Result{FieldErrors: fieldErrors}, nil
	}

	if s.repository == nil {
		return nil, fmt.Errorf("submission repository not available")
	}

	input := entity.NewAgreementInput(
		form.StudentName, form.ParentName, form.Address, form.PhoneNumber,
		form.LoanDate, form.Accessories,
		form.ParentSignature, form.StudentSignature,
		submittedBy,
	)
	if form.SubmitToken != "" {
		input.SubmitToken = form.SubmitToken
	}

	id, err := s.repository.InsertAgreement(ctx, input)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A retry of a submission the store already holds. The
			// original create stands; report it as submitted.
			s.log.Debug("duplicate submission ignored", sl.Secret("token", input.SubmitToken))
			return &Result{Submitted: true}, nil
		}
		s.log.Error("persisting agreement", sl.Err(err))
		return nil, err
	}

	s.log.Info("agreement submitted",
		slog.String("id", id),
		slog.String("student", form.StudentName),
	)

	if s.notifier != nil {
		s.notifier.SendMessage(fmt.Sprintf(
			"New rental agreement from %s (parent: %s), awaiting instrument assignment.",
			form.StudentName, form.ParentName,
		))
	}

	return &Result{Submitted: true, ID: id}, nil
}
