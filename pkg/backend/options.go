package backend

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultClassURI is the ontology class whose form the questionnaire renders.
const DefaultClassURI = "http://ncicb.nci.nih.gov/xml/owl/EVS/Thesaurus.owl#C14284"

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every request. Zero disables the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithClassURI selects the ontology class passed to the form endpoint.
func WithClassURI(uri string) Option {
	return func(c *Client) {
		if uri != "" {
			c.classURI = uri
		}
	}
}

// WithContract replaces the embedded OpenAPI document describing the
// backend's routes.
func WithContract(raw []byte) Option {
	return func(c *Client) {
		if len(raw) > 0 {
			c.contract = append([]byte(nil), raw...)
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}
