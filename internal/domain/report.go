package domain

import "unicode/utf8"

// MinDescriptionLen is the reporting gate on description length. Enforced
// by the workflow, not by the store.
const MinDescriptionLen = 20

// ReportForm is the citizen reporting form state. Coordinates stay nil
// until a location was acquired; submission is gated on Validate.
type ReportForm struct {
	Coordinates *Coordinates
	Address     string
	Description string
	Zone        Zone
}

func NewReportForm() ReportForm {
	return ReportForm{Zone: ZoneYellow}
}

// Reset clears the form back to its initial state. Called after a
// successful submission only; failures keep the state so the reporter can
// retry without re-entering data.
func (f *ReportForm) Reset() {
	*f = NewReportForm()
}

// CanSubmit is the submission gate: coordinates present, address
// non-empty, description at least MinDescriptionLen characters.
func (f *ReportForm) CanSubmit() bool {
	return f.Coordinates != nil && f.Address != "" &&
		utf8.RuneCountInString(f.Description) >= MinDescriptionLen
}
