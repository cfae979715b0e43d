package assignment

import (
	"BandDesk/entity"
	"BandDesk/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
)

// Repository is the slice of the store client this service writes through.
type Repository interface {
	UpdateAssignment(ctx context.Context, id, instrument, brand, defects string) error
	GetAgreement(ctx context.Context, id string) (*entity.Agreement, error)
}

// Notifier forwards a short message to the operator channel.
type Notifier interface {
	SendMessage(msg string)
}

// Result reports the outcome of one assignment attempt.
type Result struct {
	Assigned    bool              `json:"assigned"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Service applies an administrator's instrument assignment to one existing
// agreement. The update is unconditional: there is no check that the record
// is still pending, so of two racing administrators the last write stands.
type Service struct {
	repository Repository
	notifier   Notifier
	log        *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		log: logger.With(sl.Module("assignment-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Assign writes instrument, brand and defects to the agreement with the
// given id. Instrument and brand are required; defects may be empty. Exactly
// those three fields are touched.
func (s *Service) Assign(ctx context.Context, id, instrument, brand, defects string) (*Result, error) {
	fieldErrors := make(map[string]string)
	if instrument == "" {
		fieldErrors["instrument"] = "Instrument is required."
	}
	if brand == "" {
		fieldErrors["brand"] = "Brand and Serial # is required."
	}
	if len(fieldErrors) > 0 {
		return &Result{FieldErrors: fieldErrors}, nil
	}

	if s.repository == nil {
		return nil, fmt.Errorf("assignment repository not available")
	}

	if err := s.repository.UpdateAssignment(ctx, id, instrument, brand, defects); err != nil {
		s.log.Error("updating assignment", slog.String("id", id), sl.Err(err))
		return nil, err
	}

	s.log.Info("instrument assigned",
		slog.String("id", id),
		slog.String("instrument", instrument),
	)

	if s.notifier != nil {
		who := id
		if agreement, err := s.repository.GetAgreement(ctx, id); err == nil && agreement != nil {
			who = agreement.StudentName
		}
		s.notifier.SendMessage(fmt.Sprintf("Agreement for %s completed: %s (%s).", who, instrument, brand))
	}

	return &Result{Assigned: true}, nil
}
