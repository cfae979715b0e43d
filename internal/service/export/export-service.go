package export

import (
	"BandDesk/entity"
	"BandDesk/internal/lib/sl"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Agreements"

// Service renders the agreement roster as an xlsx workbook for the district
// office.
type Service struct {
	district string
	log      *slog.Logger
}

func NewService(district string, logger *slog.Logger) *Service {
	return &Service{
		district: district,
		log:      logger.With(sl.Module("export-service")),
	}
}

var rosterHeader = []string{
	"Student", "Parent/Guardian", "Address", "Phone", "Loan Date",
	"Accessories", "Instrument", "Brand and Serial #", "Conditions/Defects", "Status",
}

// BuildRoster writes one row per agreement into a fresh workbook. Pending
// records carry empty assignment columns and the Pending status.
func (s *Service) BuildRoster(agreements []entity.Agreement) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("creating roster sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("dropping default sheet: %w", err)
	}

	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return nil, fmt.Errorf("writing roster header: %w", err)
	}

	for i, agreement := range agreements {
		status := "Pending"
		if agreement.IsCompleted() {
			status = "Completed"
		}
		row := []interface{}{
			agreement.StudentName,
			agreement.ParentName,
			agreement.Address,
			agreement.PhoneNumber,
			agreement.LoanDate,
			agreement.Accessories,
			agreement.InstrumentName(),
			agreement.BrandSerial(),
			agreement.DefectNotes(),
			status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing roster row: %w", err)
		}
	}

	s.log.Debug("roster built", slog.Int("agreements", len(agreements)))

	return f, nil
}
