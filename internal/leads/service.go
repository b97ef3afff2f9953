package leads

import (
	"context"

	"brk-portal/internal/logger"
	"brk-portal/internal/models"
)

// Sink keeps a copy of accepted leads (the organisers' spreadsheet).
type Sink interface {
	AppendLead(ctx context.Context, lead models.Lead, source string) error
}

// Service sends leads to the primary API and mirrors accepted ones to
// an optional sink. A mirror failure is logged and does not fail the call.
type Service struct {
	api    Submitter
	sink   Sink
	source string
}

func NewService(api Submitter, sink Sink, source string) *Service {
	return &Service{api: api, sink: sink, source: source}
}

// WithSource returns a copy tagging mirrored leads with another source.
func (s *Service) WithSource(source string) *Service {
	cp := *s
	cp.source = source
	return &cp
}

func (s *Service) PreRegister(ctx context.Context, lead models.Lead) (*models.PreRegisterResponse, error) {
	resp, err := s.api.PreRegister(ctx, lead)
	if err != nil {
		return nil, err
	}
	if s.sink != nil {
		if err := s.sink.AppendLead(ctx, lead, s.source); err != nil {
			logger.Warning("lead mirror %s: %v", lead.Email, err)
		}
	}
	return resp, nil
}
