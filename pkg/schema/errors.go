package schema

import "errors"

var (
	// ErrSchemaMalformed reports a wire schema node missing a required field or
	// a payload that cannot be decoded at all.
	ErrSchemaMalformed = errors.New("schema: malformed wire schema")
	// ErrSchemaTooDeep reports a wire schema nested beyond the translator's
	// depth limit.
	ErrSchemaTooDeep = errors.New("schema: wire schema nested too deep")
)
