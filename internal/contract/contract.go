// Package contract reads the backend's OpenAPI document into a table of
// operations keyed by operationId. Clients build request URLs from the table
// instead of hard coding paths, so a deployment can swap the document.
package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation identifiers the questionnaire depends on.
const (
	OpGetOntologyForm     = "getOntologyForm"
	OpGetPatientBasicInfo = "getPatientBasicInfo"
	OpSubmitPatientForm   = "submitPatientForm"
)

var (
	// ErrUnknownOperation reports a lookup for an operationId the document
	// does not declare.
	ErrUnknownOperation = errors.New("contract: unknown operation")
	// ErrMissingParameter reports a path template placeholder without a value.
	ErrMissingParameter = errors.New("contract: missing path parameter")
)

// Operation is the routing information for one endpoint.
type Operation struct {
	ID          string
	Method      string
	Path        string
	PathParams  []string
	QueryParams []string
}

// Table maps operationId to Operation.
type Table map[string]Operation

// Parse loads an OpenAPI 3 document, validates it and collects its
// operations. Operations without an operationId are skipped.
func Parse(ctx context.Context, raw []byte) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	table := make(Table)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			table[op.OperationID] = newOperation(method, path, item.Parameters, op)
		}
	}
	return table, nil
}

func newOperation(method, path string, shared openapi3.Parameters, op *openapi3.Operation) Operation {
	out := Operation{
		ID:     op.OperationID,
		Method: strings.ToUpper(method),
		Path:   path,
	}
	seen := make(map[string]struct{})
	for _, params := range []openapi3.Parameters{op.Parameters, shared} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := ref.Value
			key := p.In + ":" + p.Name
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			switch p.In {
			case openapi3.ParameterInPath:
				out.PathParams = append(out.PathParams, p.Name)
			case openapi3.ParameterInQuery:
				out.QueryParams = append(out.QueryParams, p.Name)
			}
		}
	}
	sort.Strings(out.PathParams)
	sort.Strings(out.QueryParams)
	return out
}

// Lookup returns the operation registered under id.
func (t Table) Lookup(id string) (Operation, error) {
	op, ok := t[id]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, id)
	}
	return op, nil
}

// Require checks that every id is present.
func (t Table) Require(ids ...string) error {
	var missing []string
	for _, id := range ids {
		if _, ok := t[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, strings.Join(missing, ", "))
	}
	return nil
}

// IDs lists the operation identifiers in sorted order.
func (t Table) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// URL joins base with the operation path, substituting path parameters and
// encoding query values. Query keys not declared by the operation are still
// sent; the document is advisory for queries.
func (o Operation) URL(base string, pathParams map[string]string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("contract: invalid base url %q: %w", base, err)
	}

	decoded, escaped := o.Path, o.Path
	for _, name := range o.PathParams {
		value, ok := pathParams[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %s requires %s", ErrMissingParameter, o.ID, name)
		}
		decoded = strings.ReplaceAll(decoded, "{"+name+"}", value)
		escaped = strings.ReplaceAll(escaped, "{"+name+"}", url.PathEscape(value))
	}

	u.RawPath = u.EscapedPath() + escaped
	u.Path += decoded
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// HasBody reports whether the method carries a request body.
func (o Operation) HasBody() bool {
	switch o.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
