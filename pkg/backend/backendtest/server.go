// Package backendtest provides an in-process fake of the HIC Scan API for
// tests.
package backendtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-ontoform/pkg/patient"
	"github.com/goliatone/go-ontoform/pkg/submission"
)

// Fixture seeds the fake server's replies.
type Fixture struct {
	// Schema is served verbatim by the form endpoint.
	Schema []byte
	// SchemaStatus overrides the form endpoint status when non-zero.
	SchemaStatus int
	// Patients are looked up by path id; unknown ids get 404.
	Patients map[string]patient.Record
	// SubmitStatus overrides the submit endpoint status when non-zero.
	SubmitStatus int
	// Response is returned on successful submits.
	Response submission.Response
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	fixture     Fixture
	classURIs   []string
	requestIDs  []string
	submissions []submission.Payload
}

// NewServer starts a fake backend. Callers must Close it.
func NewServer(fx Fixture) *Server {
	s := &Server{fixture: fx}

	r := chi.NewRouter()
	r.Use(s.recordRequestID)
	r.Get("/hicscan-api/config/v1/ontologies/ontoforms.rdf/classes/form", s.handleForm)
	r.Get("/hicscan-api/patients/{patientId}/basic-info", s.handlePatient)
	r.Post("/hicscan-api/recommendation/v1/patients/{patientId}/form", s.handleSubmit)

	s.Server = httptest.NewServer(r)
	return s
}

// SetSubmitStatus changes the submit status for later requests.
func (s *Server) SetSubmitStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixture.SubmitStatus = code
}

// Submissions returns every payload received so far.
func (s *Server) Submissions() []submission.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]submission.Payload(nil), s.submissions...)
}

// RequestIDs returns the X-Request-ID header of every request.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// ClassURIs returns the classUri query of every form request.
func (s *Server) ClassURIs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.classURIs...)
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	classURI := r.URL.Query().Get("classUri")
	if classURI == "" {
		http.Error(w, "classUri is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.classURIs = append(s.classURIs, classURI)
	status, body := s.fixture.SchemaStatus, s.fixture.Schema
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handlePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientId")

	s.mu.Lock()
	rec, ok := s.fixture.Patients[id]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var payload submission.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if payload.PatientID != chi.URLParam(r, "patientId") {
		http.Error(w, "patient id mismatch", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, payload)
	status, resp := s.fixture.SubmitStatus, s.fixture.Response
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		http.Error(w, "reasoner unavailable", status)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
