package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-ontoform/pkg/backend"
	"github.com/goliatone/go-ontoform/pkg/backend/backendtest"
	"github.com/goliatone/go-ontoform/pkg/form"
	"github.com/goliatone/go-ontoform/pkg/patient"
	"github.com/goliatone/go-ontoform/pkg/schema"
	"github.com/goliatone/go-ontoform/pkg/submission"
)

func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return raw
}

func newClient(t *testing.T, srv *backendtest.Server, opts ...backend.Option) *backend.Client {
	t.Helper()
	client, err := backend.New(context.Background(), srv.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClient_FetchSchema(t *testing.T) {
	srv := backendtest.NewServer(backendtest.Fixture{
		Schema: readFixture(t, "../schema/testdata/intake_form.json"),
	})
	defer srv.Close()

	client := newClient(t, srv)
	wire, err := client.FetchSchema(context.Background())
	if err != nil {
		t.Fatalf("fetch schema: %v", err)
	}
	tree, err := schema.Translate(wire)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(tree) != 4 {
		t.Fatalf("roots = %d, want 4", len(tree))
	}

	if diff := cmp.Diff([]string{backend.DefaultClassURI}, srv.ClassURIs()); diff != "" {
		t.Fatalf("class uri mismatch (-want +got):\n%s", diff)
	}
	ids := srv.RequestIDs()
	if len(ids) != 1 {
		t.Fatalf("expected one request, got %d", len(ids))
	}
	if _, err := uuid.Parse(ids[0]); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", ids[0], err)
	}
}

func TestClient_FetchSchemaErrors(t *testing.T) {
	srv := backendtest.NewServer(backendtest.Fixture{SchemaStatus: http.StatusBadGateway})
	defer srv.Close()

	client := newClient(t, srv, backend.WithClassURI("urn:custom"))
	if _, err := client.FetchSchema(context.Background()); !errors.Is(err, backend.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
	if diff := cmp.Diff([]string{"urn:custom"}, srv.ClassURIs()); diff != "" {
		t.Fatalf("class uri mismatch (-want +got):\n%s", diff)
	}

	garbage := backendtest.NewServer(backendtest.Fixture{Schema: []byte(`{"not":"a list"}`)})
	defer garbage.Close()
	if _, err := newClient(t, garbage).FetchSchema(context.Background()); !errors.Is(err, schema.ErrSchemaMalformed) {
		t.Fatalf("expected ErrSchemaMalformed, got %v", err)
	}
}

func TestClient_FetchPatient(t *testing.T) {
	want := patient.Record{ID: "2", Name: "María González", BirthDate: "19900924", HeightValue: "165", HeightUnit: "cm"}
	srv := backendtest.NewServer(backendtest.Fixture{Patients: map[string]patient.Record{"2": want}})
	defer srv.Close()

	client := newClient(t, srv)
	got, err := client.FetchPatient(context.Background(), "2")
	if err != nil {
		t.Fatalf("fetch patient: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if _, err := client.FetchPatient(context.Background(), "99"); !errors.Is(err, backend.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure for unknown patient, got %v", err)
	}
}

func TestClient_Submit(t *testing.T) {
	srv := backendtest.NewServer(backendtest.Fixture{
		Response: submission.Response{Reasoning: submission.ReasoningResult{
			Success:           true,
			TotalStatements:   1,
			DerivedStatements: []string{"[a, b, c]"},
		}},
	})
	defer srv.Close()

	client := newClient(t, srv, backend.WithRequestIDs(func() string { return "fixed" }))
	payload := submission.NewPayload("2", map[string]form.Value{
		"A":               form.Text("x"),
		form.UnitKey("A"): form.Text("cm"),
		"B1":              form.Number(5),
	})

	resp, err := client.Submit(context.Background(), payload)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resp.Reasoning.Success || len(resp.Reasoning.DerivedStatements) != 1 {
		t.Fatalf("unexpected response %#v", resp.Reasoning)
	}

	if diff := cmp.Diff([]submission.Payload{payload}, srv.Submissions()); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fixed"}, srv.RequestIDs()); diff != "" {
		t.Fatalf("request id mismatch (-want +got):\n%s", diff)
	}

	srv.SetSubmitStatus(http.StatusServiceUnavailable)
	if _, err := client.Submit(context.Background(), payload); !errors.Is(err, backend.ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(slow)
	defer srv.Close()

	client, err := backend.New(context.Background(), srv.URL, backend.WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.FetchSchema(context.Background()); !errors.Is(err, backend.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure on timeout, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := backend.New(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected invalid base url error")
	}

	partial := []byte(`openapi: 3.0.3
info:
  title: partial
  version: "1"
paths:
  /form:
    get:
      operationId: getOntologyForm
      responses:
        "200":
          description: ok
`)
	if _, err := backend.New(context.Background(), "http://localhost", backend.WithContract(partial)); err == nil {
		t.Fatalf("expected contract without submit route to be rejected")
	}
}
