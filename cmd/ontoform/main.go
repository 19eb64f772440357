package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-ontoform"
	"github.com/goliatone/go-ontoform/internal/logging"
	"github.com/goliatone/go-ontoform/internal/report"
	"github.com/goliatone/go-ontoform/pkg/form"
	"github.com/goliatone/go-ontoform/pkg/model"
	"github.com/goliatone/go-ontoform/pkg/patient"
	"github.com/goliatone/go-ontoform/pkg/renderers/tui"
	"github.com/goliatone/go-ontoform/pkg/session"
)

type app struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg    *ontoform.Config
	logger zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:          "ontoform",
		Short:        "Ontology driven clinical intake questionnaire",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format override (console|json)")

	rootCmd.AddCommand(a.fillCmd())
	rootCmd.AddCommand(a.inspectCmd())
	rootCmd.AddCommand(ageCmd())
	return rootCmd
}

func (a *app) setup(logOut io.Writer) error {
	cfg, err := ontoform.LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) fillCmd() *cobra.Command {
	var (
		patientID string
		source    string
		collapse  bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill and submit the questionnaire for a patient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if source != "" {
				a.cfg.Schema.Source = source
			}
			renderer := tui.New(tui.WithOutput(cmd.OutOrStdout()))
			return a.runFill(cmd.Context(), cmd.OutOrStdout(), renderer, patientID, collapse)
		},
	}
	cmd.Flags().StringVar(&patientID, "patient", "", "patient identifier")
	cmd.Flags().StringVar(&source, "schema", "", "read the questionnaire from a file or URL instead of the backend")
	cmd.Flags().BoolVar(&collapse, "collapse", false, "choose sections to collapse before filling")
	_ = cmd.MarkFlagRequired("patient")
	return cmd
}

func (a *app) runFill(ctx context.Context, out io.Writer, renderer *tui.Renderer, patientID string, collapse bool) error {
	s, err := ontoform.NewSession(ctx, a.cfg, patientID, a.logger)
	if err != nil {
		return err
	}
	defer s.Close()

	for {
		err := s.Load(ctx)
		if err == nil {
			break
		}
		if s.State() != session.StateLoadFailed {
			return err
		}
		_ = renderer.Info(ctx, fmt.Sprintf("Could not load the questionnaire: %v", err))
		retry, perr := renderer.Confirm(ctx, "Retry?", true)
		if perr != nil || !retry {
			return err
		}
	}

	if collapse {
		if err := renderer.ChooseCollapsed(ctx, s); err != nil {
			return err
		}
	}
	if err := renderer.Fill(ctx, s); err != nil {
		return err
	}

	for {
		if err := renderer.FillMissing(ctx, s); err != nil {
			return err
		}
		ok, err := renderer.ConfirmSubmit(ctx, s)
		if err != nil {
			return err
		}
		if !ok {
			if s.MissingCount() == 0 {
				return errors.New("submission cancelled")
			}
			more, err := renderer.Confirm(ctx, "Keep filling?", true)
			if err != nil {
				return err
			}
			if !more {
				return fmt.Errorf("%w: %d remaining", session.ErrIncomplete, s.MissingCount())
			}
			continue
		}

		outcome, err := s.Submit(ctx)
		if err == nil {
			rep, rerr := report.New()
			if rerr != nil {
				return rerr
			}
			return rep.Render(out, outcome)
		}
		_ = renderer.Info(ctx, fmt.Sprintf("Submission failed: %v", err))
		retry, perr := renderer.Confirm(ctx, "Retry?", true)
		if perr != nil || !retry {
			return err
		}
	}
}

func (a *app) inspectCmd() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the questionnaire tree and its required fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := ontoform.LoadTree(cmd.Context(), source, a.cfg.Schema.MaxDepth)
			if err != nil {
				return err
			}
			return printTree(cmd.OutOrStdout(), tree)
		},
	}
	cmd.Flags().StringVar(&source, "schema", "", "schema file path or URL")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func printTree(w io.Writer, tree model.Tree) error {
	var err error
	model.Walk(tree, func(n model.Node, depth int) bool {
		if err != nil {
			return false
		}
		d := n.Base()
		indent := strings.Repeat("  ", depth-1)
		kind := "section"
		if _, ok := n.(model.Leaf); ok {
			kind = string(form.Resolve(d))
		}
		hidden := ""
		if !d.Visible {
			hidden = " hidden"
		}
		_, err = fmt.Fprintf(w, "%s%s [%s%s] %s\n", indent, d.Label, kind, hidden, d.ID)
		return true
	})
	if err != nil {
		return err
	}

	required := form.RequiredFields(tree)
	if _, err := fmt.Fprintf(w, "\nrequired (%d):\n", len(required)); err != nil {
		return err
	}
	for _, id := range required {
		if _, err := fmt.Fprintf(w, "  %s\n", id); err != nil {
			return err
		}
	}
	return nil
}

func ageCmd() *cobra.Command {
	var birthDate, at string
	cmd := &cobra.Command{
		Use:   "age",
		Short: "Derive the age used for prepopulation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := patient.ParseBirthDate(at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				now = parsed
			}
			age, err := patient.AgeAt(birthDate, now)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), age)
			return err
		},
	}
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "birth date as "+patient.BirthDateLayout)
	cmd.Flags().StringVar(&at, "at", "", "reference date as "+patient.BirthDateLayout+" (default today)")
	_ = cmd.MarkFlagRequired("birth-date")
	return cmd
}
