// Package ontoform wires the questionnaire engine to its runtime: it loads
// configuration, builds the backend client and opens sessions against it.
// The engine itself lives under pkg/.
package ontoform

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-ontoform/internal/config"
	"github.com/goliatone/go-ontoform/internal/schema/loader"
	"github.com/goliatone/go-ontoform/pkg/backend"
	"github.com/goliatone/go-ontoform/pkg/model"
	"github.com/goliatone/go-ontoform/pkg/schema"
	"github.com/goliatone/go-ontoform/pkg/session"
)

// Config is the resolved runtime configuration.
type Config = config.Config

// LoadConfig reads configFile (optional), .env files and ONTOFORM_*
// variables.
func LoadConfig(configFile string, envFiles ...string) (*Config, error) {
	return config.Load(configFile, envFiles...)
}

// NewLoader constructs a schema document loader while keeping the concrete
// type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// DocumentFetcher serves the wire schema from a file or URL instead of the
// backend form endpoint.
type DocumentFetcher struct {
	loader schema.Loader
	source schema.Source
}

var _ session.SchemaFetcher = (*DocumentFetcher)(nil)

// NewDocumentFetcher resolves location as a URL or file path.
func NewDocumentFetcher(location string, options ...schema.LoaderOption) (*DocumentFetcher, error) {
	src, err := schema.ParseSource(location)
	if err != nil {
		return nil, err
	}
	if src.Kind() == schema.SourceKindURL {
		options = append([]schema.LoaderOption{schema.WithHTTPFallback(backend.DefaultTimeout)}, options...)
	}
	return &DocumentFetcher{loader: NewLoader(options...), source: src}, nil
}

// FetchSchema loads and decodes the document.
func (f *DocumentFetcher) FetchSchema(ctx context.Context) ([]schema.WireField, error) {
	doc, err := f.loader.Load(ctx, f.source)
	if err != nil {
		return nil, err
	}
	return schema.Decode(doc)
}

// LoadTree loads a schema document and translates it with the supplied depth
// limit.
func LoadTree(ctx context.Context, location string, maxDepth int) (model.Tree, error) {
	fetcher, err := NewDocumentFetcher(location)
	if err != nil {
		return nil, err
	}
	wire, err := fetcher.FetchSchema(ctx)
	if err != nil {
		return nil, err
	}
	return schema.Translate(wire, schema.WithMaxDepth(maxDepth))
}

// NewClient builds the backend client described by cfg.
func NewClient(ctx context.Context, cfg *Config, logger zerolog.Logger) (*backend.Client, error) {
	opts := []backend.Option{
		backend.WithClassURI(cfg.Backend.ClassURI),
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(logger),
	}
	if cfg.Backend.Contract != "" {
		raw, err := os.ReadFile(cfg.Backend.Contract)
		if err != nil {
			return nil, fmt.Errorf("ontoform: read contract: %w", err)
		}
		opts = append(opts, backend.WithContract(raw))
	}
	return backend.New(ctx, cfg.Backend.BaseURL, opts...)
}

// withSchema swaps the schema source of a backend and keeps its patient and
// submit endpoints.
type withSchema struct {
	session.Backend
	schema session.SchemaFetcher
}

func (b withSchema) FetchSchema(ctx context.Context) ([]schema.WireField, error) {
	return b.schema.FetchSchema(ctx)
}

// NewSession opens an idle session for patientID. When cfg.Schema.Source is
// set the questionnaire is read from there; patient data and submission
// still go to the backend.
func NewSession(ctx context.Context, cfg *Config, patientID string, logger zerolog.Logger) (*session.Session, error) {
	client, err := NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var be session.Backend = client
	if cfg.Schema.Source != "" {
		fetcher, err := NewDocumentFetcher(cfg.Schema.Source)
		if err != nil {
			return nil, err
		}
		be = withSchema{Backend: client, schema: fetcher}
	}

	return session.New(be, patientID,
		session.WithLogger(logger),
		session.WithTranslateOptions(schema.WithMaxDepth(cfg.Schema.MaxDepth)),
	)
}
