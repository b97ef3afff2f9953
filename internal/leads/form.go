package leads

import (
	"context"

	"brk-portal/internal/logger"
	"brk-portal/internal/models"
)

const MsgSubmitFailed = "Não foi possível concluir o pré-cadastro. Tente novamente."

// Submitter forwards a validated lead to the registration endpoint.
type Submitter interface {
	PreRegister(ctx context.Context, lead models.Lead) (*models.PreRegisterResponse, error)
}

// Form holds the lead-capture state: field values, per-field errors and a
// single submit error kept apart from validation.
type Form struct {
	Values      Input       `json:"values"`
	Errors      FieldErrors `json:"errors,omitempty"`
	SubmitError string      `json:"submitError,omitempty"`
	Message     string      `json:"message,omitempty"`
	Done        bool        `json:"done"`
}

// Set updates a field and drops its error, as soon as the user edits it.
func (f *Form) Set(field, value string) {
	switch field {
	case FieldName:
		f.Values.Name = value
	case FieldEmail:
		f.Values.Email = value
	default:
		return
	}
	delete(f.Errors, field)
	if len(f.Errors) == 0 {
		f.Errors = nil
	}
}

// Submit validates and, when valid, forwards the lead exactly as validated.
// It reports whether the lead was accepted.
func (f *Form) Submit(ctx context.Context, s Submitter) bool {
	f.SubmitError = ""
	lead, errs := Validate(f.Values)
	if errs != nil {
		f.Errors = errs
		return false
	}
	f.Errors = nil

	resp, err := s.PreRegister(ctx, lead)
	if err != nil {
		logger.Error("pre-register %s: %v", lead.Email, err)
		f.SubmitError = MsgSubmitFailed
		return false
	}

	f.Values = Input(lead)
	f.Done = true
	if resp != nil {
		f.Message = resp.Message
	}
	return true
}
