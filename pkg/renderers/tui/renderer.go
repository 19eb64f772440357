// Package tui renders the questionnaire as a sequence of terminal prompts.
// Each visible leaf is asked according to its resolved presentation; sections
// print a heading and can be collapsed to skip their children.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-ontoform/pkg/form"
	"github.com/goliatone/go-ontoform/pkg/model"
)

// Form is the editable questionnaire the renderer prompts against.
// session.Session satisfies it.
type Form interface {
	Tree() model.Tree
	Value(id string) (form.Value, bool)
	Set(id string, value form.Value) error
	Collapsed(id string) bool
	ToggleSection(id string) (bool, error)
	Missing() []string
	MissingCount() int
}

// Renderer prompts an operator for questionnaire answers.
type Renderer struct {
	driver   PromptDriver
	out      io.Writer
	pageSize int
}

// New constructs a renderer backed by survey unless WithPromptDriver says
// otherwise.
func New(options ...Option) *Renderer {
	r := &Renderer{out: os.Stdout}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

// Fill walks the tree in display order and prompts for every visible leaf.
// Collapsed sections are announced and skipped.
func (r *Renderer) Fill(ctx context.Context, f Form) error {
	return r.walk(ctx, f, func(model.Leaf) bool { return true }, true)
}

// FillMissing prompts only for required leaves that are still unanswered,
// including those inside collapsed sections.
func (r *Renderer) FillMissing(ctx context.Context, f Form) error {
	missing := make(map[string]struct{})
	for _, id := range f.Missing() {
		missing[id] = struct{}{}
	}
	if len(missing) == 0 {
		return nil
	}
	return r.walk(ctx, f, func(leaf model.Leaf) bool {
		_, ok := missing[leaf.ID]
		return ok
	}, false)
}

// ChooseCollapsed lets the operator pick which sections to collapse and
// applies the difference through ToggleSection.
func (r *Renderer) ChooseCollapsed(ctx context.Context, f Form) error {
	var (
		ids      []string
		labels   []string
		defaults []int
	)
	model.Walk(f.Tree(), func(n model.Node, depth int) bool {
		section, ok := n.(model.Section)
		if !ok {
			return true
		}
		if f.Collapsed(section.ID) {
			defaults = append(defaults, len(ids))
		}
		ids = append(ids, section.ID)
		labels = append(labels, strings.Repeat("  ", depth-1)+displayLabel(section.Descriptor))
		return true
	})
	if len(ids) == 0 {
		return nil
	}

	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Collapse sections",
		Options:  uniqueLabels(labels),
		Defaults: defaults,
		PageSize: r.pageSize,
	})
	if err != nil {
		return err
	}

	want := make(map[int]bool, len(picked))
	for _, idx := range picked {
		want[idx] = true
	}
	for i, id := range ids {
		if f.Collapsed(id) == want[i] {
			continue
		}
		if _, err := f.ToggleSection(id); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmSubmit reports the remaining count when answers are missing and
// otherwise asks for confirmation.
func (r *Renderer) ConfirmSubmit(ctx context.Context, f Form) (bool, error) {
	if missing := f.MissingCount(); missing > 0 {
		return false, r.driver.Info(ctx, fmt.Sprintf("Complete all required fields: %d remaining.", missing))
	}
	return r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit answers?", Default: true})
}

// Confirm asks a yes/no question outside the questionnaire, e.g. a retry.
func (r *Renderer) Confirm(ctx context.Context, msg string, def bool) (bool, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{Message: msg, Default: def})
}

// Info prints a message through the prompt driver.
func (r *Renderer) Info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, msg)
}

func (r *Renderer) walk(ctx context.Context, f Form, include func(model.Leaf) bool, headings bool) error {
	var walkErr error
	model.Walk(f.Tree(), func(n model.Node, depth int) bool {
		if walkErr != nil {
			return false
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return false
		}

		switch typed := n.(type) {
		case model.Section:
			if !headings {
				return true
			}
			indent := strings.Repeat("  ", depth-1)
			if f.Collapsed(typed.ID) {
				walkErr = r.driver.Info(ctx, fmt.Sprintf("%s+ %s (collapsed)", indent, displayLabel(typed.Descriptor)))
				return false
			}
			walkErr = r.driver.Info(ctx, fmt.Sprintf("%s- %s", indent, displayLabel(typed.Descriptor)))
			return walkErr == nil
		case model.Leaf:
			if !typed.Visible || !include(typed) {
				return true
			}
			walkErr = r.promptLeaf(ctx, f, typed)
		}
		return walkErr == nil
	})
	return walkErr
}

func (r *Renderer) promptLeaf(ctx context.Context, f Form, leaf model.Leaf) error {
	current, _ := f.Value(leaf.ID)

	switch form.Resolve(leaf.Descriptor) {
	case form.PresentationSelect:
		return r.promptSelect(ctx, f, leaf, current)
	case form.PresentationNumber:
		return r.promptNumber(ctx, f, leaf, current)
	case form.PresentationCheckbox:
		return r.promptCheckbox(ctx, f, leaf, current)
	case form.PresentationText:
		return r.promptText(ctx, f, leaf, current)
	default:
		return fmt.Errorf("tui: unsupported presentation for %s", leaf.ID)
	}
}

func (r *Renderer) promptText(ctx context.Context, f Form, leaf model.Leaf, current form.Value) error {
	resp, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(leaf.Descriptor),
		Default: current.String(),
		Help:    leaf.ID,
	})
	if err != nil {
		return err
	}
	if resp == current.String() && current.Kind() != form.KindNull {
		return nil
	}
	return f.Set(leaf.ID, form.Text(resp))
}

func (r *Renderer) promptNumber(ctx context.Context, f Form, leaf model.Leaf, current form.Value) error {
	label := displayLabel(leaf.Descriptor)
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current.String(),
			Help:    leaf.ID,
		})
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			return f.Set(leaf.ID, form.Null())
		}
		// Prepopulated values stay verbatim, units and all.
		if input == current.String() && current.Kind() != form.KindNull {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %q is not a number", label, input))
			continue
		}
		return f.Set(leaf.ID, form.Number(parsed))
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, f Form, leaf model.Leaf, current form.Value) error {
	def, _ := current.AsBool()
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(leaf.Descriptor),
		Default: def,
		Help:    leaf.ID,
	})
	if err != nil {
		return err
	}
	return f.Set(leaf.ID, form.Bool(resp))
}

func (r *Renderer) promptSelect(ctx context.Context, f Form, leaf model.Leaf, current form.Value) error {
	label := displayLabel(leaf.Descriptor)
	if form.NoOptions(leaf.Descriptor) {
		return r.driver.Info(ctx, fmt.Sprintf("%s: %s", label, form.NoOptionsLabel))
	}

	labels := make([]string, len(leaf.Options))
	defaultIdx := -1
	selected, _ := current.AsText()
	for i, opt := range leaf.Options {
		labels[i] = sanitizeLabel(opt.Label)
		if labels[i] == "" {
			labels[i] = opt.Value
		}
		if opt.Value == selected {
			defaultIdx = i
		}
	}
	labels = uniqueLabels(labels)

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         leaf.ID,
		PageSize:     r.pageSize,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(leaf.Options) {
		return fmt.Errorf("%w: %s index %d", ErrInvalidSelection, leaf.ID, idx)
	}
	return f.Set(leaf.ID, form.Text(leaf.Options[idx].Value))
}

func displayLabel(d model.Descriptor) string {
	if label := sanitizeLabel(d.Label); label != "" {
		return label
	}
	return d.ID
}

// uniqueLabels suffixes repeated labels so every option maps back to one
// index.
func uniqueLabels(labels []string) []string {
	seen := make(map[string]int, len(labels))
	out := make([]string, len(labels))
	for i, label := range labels {
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		out[i] = label
	}
	return out
}
