package entity

import (
	"time"

	"github.com/google/uuid"
)

// Agreement represents a single instrument rental agreement. It is created
// once by a submitter and completed at most once by an administrator; the
// assignment fields stay nil until then.
type Agreement struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	StudentName      string           `json:"student_name" bson:"student_name" validate:"required"`
	ParentName       string           `json:"parent_name" bson:"parent_name" validate:"required"`
	Address          string           `json:"address" bson:"address" validate:"required"`
	PhoneNumber      string           `json:"phone_number" bson:"phone_number" validate:"required"`
	LoanDate         string           `json:"loan_date" bson:"loan_date"`
	Accessories      string           `json:"accessories" bson:"accessories"`
	ParentSignature  SignaturePayload `json:"parent_signature" bson:"parent_signature" validate:"required"`
	StudentSignature SignaturePayload `json:"student_signature" bson:"student_signature" validate:"required"`
	Instrument       *string          `json:"instrument" bson:"instrument"`
	Brand            *string          `json:"brand" bson:"brand"`
	Defects          *string          `json:"defects" bson:"defects"`
	SubmittedBy      string           `json:"submitted_by" bson:"submitted_by"`
	SubmitToken      string           `json:"-" bson:"submit_token"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
}

// AgreementInput is what the submission service hands to the store. The
// assignment fields are intentionally absent: a freshly created agreement is
// always pending.
type AgreementInput struct {
	StudentName      string           `bson:"student_name"`
	ParentName       string           `bson:"parent_name"`
	Address          string           `bson:"address"`
	PhoneNumber      string           `bson:"phone_number"`
	LoanDate         string           `bson:"loan_date"`
	Accessories      string           `bson:"accessories"`
	ParentSignature  SignaturePayload `bson:"parent_signature"`
	StudentSignature SignaturePayload `bson:"student_signature"`
	Instrument       *string          `bson:"instrument"`
	Brand            *string          `bson:"brand"`
	Defects          *string          `bson:"defects"`
	SubmittedBy      string           `bson:"submitted_by"`
	SubmitToken      string           `bson:"submit_token"`
	CreatedAt        time.Time        `bson:"created_at"`
}

// LoanDateLayout is the calendar-date format used on the agreement form.
const LoanDateLayout = "2006-01-02"

// NewAgreementInput builds the store payload for a validated form. LoanDate
// falls back to today's date when the form left it empty, and every input
// gets a fresh submit token so a client-side retry of the same submission
// cannot append a second document.
func NewAgreementInput(studentName, parentName, address, phoneNumber, loanDate, accessories string,
	parentSignature, studentSignature SignaturePayload, submittedBy string) *AgreementInput {

	if loanDate == "" {
		loanDate = time.Now().Format(LoanDateLayout)
	}

	return &AgreementInput{
		StudentName:      studentName,
		ParentName:       parentName,
		Address:          address,
		PhoneNumber:      phoneNumber,
		LoanDate:         loanDate,
		Accessories:      accessories,
		ParentSignature:  parentSignature,
		StudentSignature: studentSignature,
		SubmittedBy:      submittedBy,
		SubmitToken:      uuid.NewString(),
		CreatedAt:        time.Now(),
	}
}

// IsPending reports whether the agreement still awaits an instrument
// assignment. The instrument field alone decides the lifecycle state.
func (a *Agreement) IsPending() bool {
	return a.Instrument == nil
}

// IsCompleted reports whether an administrator has attached an instrument.
func (a *Agreement) IsCompleted() bool {
	return a.Instrument != nil
}

// InstrumentName returns the assigned instrument or an empty string while
// the agreement is pending.
func (a *Agreement) InstrumentName() string {
	if a.Instrument == nil {
		return ""
	}
	return *a.Instrument
}

// BrandSerial returns the assigned brand and serial number, if any.
func (a *Agreement) BrandSerial() string {
	if a.Brand == nil {
		return ""
	}
	return *a.Brand
}

// DefectNotes returns the recorded condition notes, if any.
func (a *Agreement) DefectNotes() string {
	if a.Defects == nil {
		return ""
	}
	return *a.Defects
}
