package patient

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-ontoform/pkg/form"
)

// Ontology identifiers of the fields seeded from the patient record.
const (
	FieldHeight = "http://purl.org/ontology/breast_cancer_recommendation#height"
	FieldWeight = "http://purl.org/ontology/breast_cancer_recommendation#weight"
	FieldAge    = "http://purl.org/ontology/breast_cancer_recommendation#age"
)

// AgeUnit is the unit stored next to the derived age.
const AgeUnit = "years"

type fieldMapping struct {
	id    string
	value func(p *Prepopulator, rec Record) form.Value
	unit  func(rec Record) string
}

var mappings = []fieldMapping{
	{
		id:    FieldHeight,
		value: func(_ *Prepopulator, rec Record) form.Value { return form.Text(rec.HeightValue) },
		unit:  func(rec Record) string { return rec.HeightUnit },
	},
	{
		id:    FieldWeight,
		value: func(_ *Prepopulator, rec Record) form.Value { return form.Text(rec.WeightValue) },
		unit:  func(rec Record) string { return rec.WeightUnit },
	},
	{
		id:    FieldAge,
		value: func(p *Prepopulator, rec Record) form.Value { return form.Number(float64(p.age(rec))) },
		unit:  func(Record) string { return AgeUnit },
	},
}

// Fields lists the identifiers the prepopulator writes, in table order.
func Fields() []string {
	ids := make([]string, 0, len(mappings))
	for _, m := range mappings {
		ids = append(ids, m.id)
	}
	return ids
}

// Merger receives prepopulated values. form.Store satisfies it.
type Merger interface {
	MergeDefaults(values map[string]form.Value)
}

var _ Merger = (*form.Store)(nil)

// Option customises a Prepopulator.
type Option func(*Prepopulator)

// WithClock overrides the clock used to derive the age.
func WithClock(now func() time.Time) Option {
	return func(p *Prepopulator) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the logger that receives birth date parse failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Prepopulator) {
		p.logger = logger
	}
}

// Prepopulator turns a patient record into default answers.
type Prepopulator struct {
	now    func() time.Time
	logger zerolog.Logger
}

// New constructs a Prepopulator using the wall clock and a no-op logger.
func New(opts ...Option) *Prepopulator {
	p := &Prepopulator{
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Values returns every mapped identifier with its value and its companion
// unit key. Height and weight are copied verbatim.
func (p *Prepopulator) Values(rec Record) map[string]form.Value {
	out := make(map[string]form.Value, len(mappings)*2)
	for _, m := range mappings {
		out[m.id] = m.value(p, rec)
		out[form.UnitKey(m.id)] = form.Text(m.unit(rec))
	}
	return out
}

// Apply merges the record's values into dst.
func (p *Prepopulator) Apply(dst Merger, rec Record) {
	if dst == nil {
		return
	}
	dst.MergeDefaults(p.Values(rec))
}

func (p *Prepopulator) age(rec Record) int {
	age, err := AgeAt(rec.BirthDate, p.now())
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("patient", rec.ID).
			Msg("derived age defaulted to zero")
	}
	return age
}
