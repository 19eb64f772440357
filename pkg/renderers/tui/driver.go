package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a free-text prompt. Default is pre-filled and
// returned unchanged when the operator just presses enter.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig describes a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig describes a single or multi choice prompt over Options.
// DefaultIndex applies to Select and Defaults to MultiSelect; out of range
// entries are ignored.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Defaults     []int
	Help         string
	PageSize     int
}

// PromptDriver is the terminal seam. Choices are answered by index into
// SelectConfig.Options.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	Info(ctx context.Context, msg string) error
}

// surveyDriver prompts on the process terminal. Info lines go to out.
type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver(out io.Writer) PromptDriver {
	return &surveyDriver{out: out}
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, response any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, response)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	err := d.ask(ctx, &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}, &answer)
	return answer, err
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if picked := pickLabels(cfg.Options, []int{cfg.DefaultIndex}); len(picked) == 1 {
		prompt.Default = picked[0]
	}

	var answer string
	if err := d.ask(ctx, prompt, &answer); err != nil {
		return -1, err
	}
	idx, ok := labelIndex(cfg.Options)[answer]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrInvalidSelection, answer)
	}
	return idx, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if picked := pickLabels(cfg.Options, cfg.Defaults); len(picked) > 0 {
		prompt.Default = picked
	}

	var answers []string
	if err := d.ask(ctx, prompt, &answers); err != nil {
		return nil, err
	}
	positions := labelIndex(cfg.Options)
	out := make([]int, 0, len(answers))
	for _, answer := range answers {
		if idx, ok := positions[answer]; ok {
			out = append(out, idx)
		}
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// labelIndex maps each label to its first position. Renderers pass unique
// labels so the mapping is exact.
func labelIndex(labels []string) map[string]int {
	positions := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, seen := positions[label]; !seen {
			positions[label] = i
		}
	}
	return positions
}

func pickLabels(labels []string, indices []int) []string {
	var picked []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(labels) {
			picked = append(picked, labels[idx])
		}
	}
	return picked
}
