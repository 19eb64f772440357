// Package report renders a submission outcome as plain text for the
// terminal. Reasoner output is printed as received.
package report

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-ontoform/pkg/session"
	"github.com/goliatone/go-ontoform/pkg/submission"
)

//go:embed templates/*.tpl
var templates embed.FS

const outcomeTemplate = "templates/outcome.tpl"

// Renderer executes the embedded outcome template.
type Renderer struct {
	outcome *pongo2.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	set := pongo2.NewSet("ontoform-report", pongo2.NewFSLoader(templates))
	tpl, err := set.FromFile(outcomeTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parse %s: %w", outcomeTemplate, err)
	}
	return &Renderer{outcome: tpl}, nil
}

type answer struct {
	ID    string
	Value string
}

type recommendation struct {
	Band string
	submission.Recommendation
}

// Render writes the outcome summary to w.
func (r *Renderer) Render(w io.Writer, outcome session.Outcome) error {
	if r == nil || r.outcome == nil {
		return errors.New("report: renderer is nil")
	}
	if err := r.outcome.ExecuteWriter(outcomeContext(outcome), w); err != nil {
		return fmt.Errorf("report: execute: %w", err)
	}
	return nil
}

func outcomeContext(outcome session.Outcome) pongo2.Context {
	ids := make([]string, 0, len(outcome.Payload.Answers))
	for id := range outcome.Payload.Answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	answers := make([]answer, len(ids))
	for i, id := range ids {
		answers[i] = answer{ID: id, Value: outcome.Payload.Answers[id]}
	}

	reasoning := outcome.Response.Reasoning
	var recs []recommendation
	if wr := reasoning.WomanRecommendation; wr != nil {
		if wr.Mid != nil {
			recs = append(recs, recommendation{Band: "Mid", Recommendation: *wr.Mid})
		}
		if wr.High != nil {
			recs = append(recs, recommendation{Band: "High", Recommendation: *wr.High})
		}
	}

	errMsg := ""
	if reasoning.ErrorMessage != nil {
		errMsg = *reasoning.ErrorMessage
	}

	return pongo2.Context{
		"patient_id":      outcome.Payload.PatientID,
		"patient_name":    outcome.Response.Patient.Basic.Name,
		"answers":         answers,
		"success":         reasoning.Success,
		"total":           reasoning.TotalStatements,
		"error":           errMsg,
		"derived":         reasoning.DerivedStatements,
		"recommendations": recs,
	}
}
