// Package session drives one questionnaire screen: it loads the schema and
// the patient record concurrently, holds the answers while the operator edits
// them and gates submission on completeness.
//
// A Session is owned by one goroutine. Fetches run in their own goroutines but
// only hand results back over a channel; every state change happens on the
// goroutine that called Load or Submit. To abandon a load from elsewhere,
// cancel the context passed to Load.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-ontoform/pkg/form"
	"github.com/goliatone/go-ontoform/pkg/model"
	"github.com/goliatone/go-ontoform/pkg/patient"
	"github.com/goliatone/go-ontoform/pkg/schema"
	"github.com/goliatone/go-ontoform/pkg/submission"
)

// SchemaFetcher returns the wire schema for the questionnaire.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context) ([]schema.WireField, error)
}

// PatientFetcher returns the record used for prepopulation.
type PatientFetcher interface {
	FetchPatient(ctx context.Context, patientID string) (patient.Record, error)
}

// Submitter posts a packed payload.
type Submitter interface {
	Submit(ctx context.Context, payload submission.Payload) (submission.Response, error)
}

// Backend bundles the three collaborators. backend.Client satisfies it.
type Backend interface {
	SchemaFetcher
	PatientFetcher
	Submitter
}

// Outcome is what a successful submit hands to presentation.
type Outcome struct {
	Payload  submission.Payload
	Response submission.Response
}

// Session is the state machine for one screen activation.
type Session struct {
	backend   Backend
	patientID string
	prepop    *patient.Prepopulator
	translate []schema.TranslateOption
	logger    zerolog.Logger

	state   State
	tree    model.Tree
	tracker *form.Tracker
	store   *form.Store
	record  *patient.Record
	loadErr error
	lastErr error
	outcome *Outcome
}

// New returns an idle session for patientID.
func New(backend Backend, patientID string, opts ...Option) (*Session, error) {
	if backend == nil {
		return nil, errors.New("session: backend is required")
	}
	if patientID == "" {
		return nil, errors.New("session: patient id is required")
	}

	s := &Session{
		backend:   backend,
		patientID: patientID,
		logger:    zerolog.Nop(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.prepop == nil {
		s.prepop = patient.New(patient.WithLogger(s.logger))
	}
	return s, nil
}

type resultKind int

const (
	schemaResult resultKind = iota
	patientResult
)

type loadResult struct {
	kind   resultKind
	wire   []schema.WireField
	record patient.Record
	err    error
}

// Load fetches the schema and the patient record concurrently and applies
// each result as it arrives. It is allowed from Idle and, as a retry, from
// LoadFailed.
//
// A schema failure (transport, malformed, too deep) moves the session to
// LoadFailed and exposes no tree. A patient failure is logged and the form
// simply starts without prepopulated answers. If ctx is cancelled first the
// session returns to Idle and late results are dropped.
func (s *Session) Load(ctx context.Context) error {
	if s.state == StateClosed {
		return ErrClosed
	}
	if !s.state.CanLoad() {
		return fmt.Errorf("%w: load from %s", ErrInvalidState, s.state)
	}

	s.transition(StateLoading)
	s.reset()

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan loadResult, 2)
	go func() {
		wire, err := s.backend.FetchSchema(loadCtx)
		results <- loadResult{kind: schemaResult, wire: wire, err: err}
	}()
	go func() {
		rec, err := s.backend.FetchPatient(loadCtx, s.patientID)
		results <- loadResult{kind: patientResult, record: rec, err: err}
	}()

	store := form.NewStore(nil)
	var tree model.Tree
	for pending := 2; pending > 0; pending-- {
		select {
		case <-loadCtx.Done():
			s.transition(StateIdle)
			return ctx.Err()
		case res := <-results:
			if loadCtx.Err() != nil {
				s.transition(StateIdle)
				return ctx.Err()
			}
			switch res.kind {
			case schemaResult:
				if res.err == nil {
					tree, res.err = schema.Translate(res.wire, s.translate...)
				}
				if res.err != nil {
					s.loadErr = res.err
					s.logger.Error().Err(res.err).Str("patient", s.patientID).Msg("schema load failed")
					s.transition(StateLoadFailed)
					return res.err
				}
			case patientResult:
				if res.err != nil {
					s.logger.Warn().Err(res.err).Str("patient", s.patientID).Msg("patient record unavailable")
					continue
				}
				rec := res.record
				s.record = &rec
				s.prepop.Apply(store, rec)
			}
		}
	}

	s.tree = tree
	s.tracker = form.NewTracker(tree)
	s.store = store
	s.transition(StateReady)
	return nil
}

// Close tears the session down and drops every answer. Close is idempotent.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	s.reset()
	s.transition(StateClosed)
}

// State reports the current state.
func (s *Session) State() State { return s.state }

// PatientID returns the patient the session was opened for.
func (s *Session) PatientID() string { return s.patientID }

// Tree returns the loaded tree, or nil before a successful load.
func (s *Session) Tree() model.Tree { return s.tree }

// Patient returns the prepopulation record when the fetch succeeded.
func (s *Session) Patient() (patient.Record, bool) {
	if s.record == nil {
		return patient.Record{}, false
	}
	return *s.record, true
}

// LoadError returns the error that moved the session to LoadFailed.
func (s *Session) LoadError() error { return s.loadErr }

// LastError returns the most recent submit failure. It is cleared by the
// next submit attempt.
func (s *Session) LastError() error { return s.lastErr }

// Outcome returns the result of a successful submit.
func (s *Session) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Value returns the current answer for id.
func (s *Session) Value(id string) (form.Value, bool) {
	if s.store == nil {
		return form.Value{}, false
	}
	return s.store.Value(id)
}

// Snapshot returns a copy of every stored answer, unit keys included.
func (s *Session) Snapshot() map[string]form.Value {
	return s.store.Snapshot()
}

// Set records an answer. Edits are only accepted in Ready.
func (s *Session) Set(id string, value form.Value) error {
	if err := s.requireReady("set"); err != nil {
		return err
	}
	s.store.Set(id, value)
	return nil
}

// ToggleSection flips a section's collapsed flag and reports whether it is
// now collapsed.
func (s *Session) ToggleSection(id string) (bool, error) {
	if err := s.requireReady("toggle section"); err != nil {
		return false, err
	}
	node, ok := model.Find(s.tree, id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	if _, isSection := node.(model.Section); !isSection {
		return false, fmt.Errorf("%w: %s is a leaf", ErrUnknownSection, id)
	}
	return s.store.ToggleSection(id), nil
}

// Collapsed reports whether a section is collapsed.
func (s *Session) Collapsed(id string) bool {
	return s.store != nil && s.store.Collapsed(id)
}

// Required lists the identifiers that must be answered.
func (s *Session) Required() []string {
	return s.tracker.Required()
}

// Missing lists the required identifiers still unanswered.
func (s *Session) Missing() []string {
	if s.tracker == nil {
		return nil
	}
	return s.tracker.Missing(s.store)
}

// MissingCount is the number of unanswered required fields.
func (s *Session) MissingCount() int {
	if s.tracker == nil {
		return 0
	}
	return s.tracker.MissingCount(s.store)
}

// CanSubmit reports whether Submit would be attempted.
func (s *Session) CanSubmit() bool {
	return s.state == StateReady && s.MissingCount() == 0
}

// Submit packs the answers and posts them. It requires Ready and no missing
// answers. On failure the session returns to Ready with answers intact and
// the error is kept in LastError; on success it moves to SubmitSucceeded.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	if err := s.requireReady("submit"); err != nil {
		return Outcome{}, err
	}
	if missing := s.MissingCount(); missing > 0 {
		return Outcome{}, fmt.Errorf("%w: %d remaining", ErrIncomplete, missing)
	}

	s.lastErr = nil
	s.transition(StateSubmitting)

	payload := submission.NewPayload(s.patientID, s.store.Snapshot())
	resp, err := s.backend.Submit(ctx, payload)
	if err != nil {
		s.lastErr = err
		s.logger.Error().Err(err).Str("patient", s.patientID).Msg("submission failed")
		s.transition(StateReady)
		return Outcome{}, err
	}

	s.outcome = &Outcome{Payload: payload, Response: resp}
	s.transition(StateSubmitSucceeded)
	return *s.outcome, nil
}

func (s *Session) requireReady(op string) error {
	switch s.state {
	case StateClosed:
		return ErrClosed
	case StateReady:
		return nil
	default:
		return fmt.Errorf("%w: %s from %s", ErrInvalidState, op, s.state)
	}
}

func (s *Session) reset() {
	s.tree = nil
	s.tracker = nil
	s.store = nil
	s.record = nil
	s.loadErr = nil
	s.lastErr = nil
	s.outcome = nil
}

func (s *Session) transition(next State) {
	s.logger.Debug().
		Str("patient", s.patientID).
		Str("from", string(s.state)).
		Str("to", string(next)).
		Msg("session state")
	s.state = next
}
