package agreement

import (
	"BandDesk/entity"
	"BandDesk/internal/service/assignment"
	"BandDesk/internal/service/submission"
	"context"

	"github.com/xuri/excelize/v2"
)

type Core interface {
	SubmitAgreement(ctx context.Context, form *submission.Form, submittedBy string) (*submission.Result, error)
	AssignInstrument(ctx context.Context, id, instrument, brand, defects string) (*assignment.Result, error)
	ListAgreements(ctx context.Context) ([]entity.Agreement, error)
	BuildRoster(agreements []entity.Agreement) (*excelize.File, error)
}
