package session

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-ontoform/pkg/patient"
	"github.com/goliatone/go-ontoform/pkg/schema"
)

// Option customises a Session.
type Option func(*Session)

// WithPrepopulator replaces the default patient prepopulator.
func WithPrepopulator(p *patient.Prepopulator) Option {
	return func(s *Session) {
		if p != nil {
			s.prepop = p
		}
	}
}

// WithTranslateOptions forwards options to schema.Translate.
func WithTranslateOptions(opts ...schema.TranslateOption) Option {
	return func(s *Session) {
		s.translate = append(s.translate, opts...)
	}
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}
