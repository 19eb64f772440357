package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ontoform/pkg/form"
	"github.com/goliatone/go-ontoform/pkg/model"
	"github.com/goliatone/go-ontoform/pkg/session"
	"github.com/goliatone/go-ontoform/pkg/testsupport"
)

var _ Form = (*session.Session)(nil)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

// memForm is an in-memory Form over a store and tracker.
type memForm struct {
	tree    model.Tree
	store   *form.Store
	tracker *form.Tracker
}

func newMemForm(tree model.Tree, prefill map[string]form.Value) *memForm {
	return &memForm{tree: tree, store: form.NewStore(prefill), tracker: form.NewTracker(tree)}
}

func (m *memForm) Tree() model.Tree                      { return m.tree }
func (m *memForm) Value(id string) (form.Value, bool)    { return m.store.Value(id) }
func (m *memForm) Set(id string, v form.Value) error     { m.store.Set(id, v); return nil }
func (m *memForm) Collapsed(id string) bool              { return m.store.Collapsed(id) }
func (m *memForm) ToggleSection(id string) (bool, error) { return m.store.ToggleSection(id), nil }
func (m *memForm) Missing() []string                     { return m.tracker.Missing(m.store) }
func (m *memForm) MissingCount() int                     { return m.tracker.MissingCount(m.store) }

func intakeTree() model.Tree {
	relative := model.Leaf{Descriptor: model.Descriptor{
		ID:       "relative",
		Label:    "<b>Relative</b>",
		PropType: model.PropTypeObjectProperty,
		Visible:  true,
		Options: []model.Option{
			{Label: "Mother", Value: "urn:mother"},
			{Label: "Sister", Value: "urn:sister"},
		},
	}}
	brca := model.Leaf{Descriptor: model.Descriptor{
		ID:       "brca",
		Label:    "BRCA mutation",
		PropType: model.PropTypeBoolean,
		Visible:  true,
	}}
	hidden := testsupport.TextLeaf("note")
	hidden.Visible = false

	return model.Tree{
		testsupport.TextLeaf("name"),
		testsupport.NumberLeaf("height"),
		testsupport.SectionOf("history", relative, brca, hidden),
	}
}

func TestRenderer_FillPromptsEveryVisibleLeaf(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ana", "abc", "1.62"},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}
	f := newMemForm(intakeTree(), nil)

	r := New(WithPromptDriver(driver))
	if err := r.Fill(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]form.Value{
		"name":     form.Text("Ana"),
		"height":   form.Number(1.62),
		"relative": form.Text("urn:sister"),
		"brca":     form.Bool(true),
	}
	if diff := cmp.Diff(want, f.store.Snapshot()); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if f.MissingCount() != 0 {
		t.Fatalf("expected form to be complete, missing %v", f.Missing())
	}

	wantInfo := []string{
		`Invalid height: "abc" is not a number`,
		"- history",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Mother", "Sister"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("option labels mismatch (-want +got):\n%s", diff)
	}
	if driver.selects[0].Message != "Relative" {
		t.Fatalf("expected sanitized label, got %q", driver.selects[0].Message)
	}
}

func TestRenderer_FillSkipsCollapsedSections(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ana", ""}}
	f := newMemForm(intakeTree(), nil)
	if _, err := f.ToggleSection("history"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := New(WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if driver.selectPos != 0 || driver.confirmPos != 0 {
		t.Fatalf("expected collapsed children to be skipped")
	}
	if diff := cmp.Diff([]string{"+ history (collapsed)"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	height, ok := f.Value("height")
	if !ok || height.Kind() != form.KindNull {
		t.Fatalf("expected empty number input to store null, got %v", height)
	}
	// Collapsing hides fields but never drops them from validation.
	if diff := cmp.Diff([]string{"height", "relative", "brca"}, f.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_KeepsPrepopulatedDefaults(t *testing.T) {
	driver := &stubDriver{inputs: []string{"1.62 m"}}
	f := newMemForm(model.Tree{testsupport.NumberLeaf("height")}, map[string]form.Value{
		"height": form.Text("1.62 m"),
	})

	if err := New(WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}
	got, _ := f.Value("height")
	if diff := cmp.Diff(form.Text("1.62 m"), got); diff != "" {
		t.Fatalf("prepopulated value changed (-want +got):\n%s", diff)
	}
}

func TestRenderer_SelectDefaultsToCurrentAnswer(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}, confirm: []bool{false}}
	f := newMemForm(intakeTree()[2:], map[string]form.Value{"relative": form.Text("urn:sister")})

	if err := New(WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := driver.selects[0].DefaultIndex; got != 1 {
		t.Fatalf("expected default index 1, got %d", got)
	}
}

func TestRenderer_SelectOutOfRange(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{7}}
	f := newMemForm(intakeTree()[2:], nil)

	err := New(WithPromptDriver(driver)).Fill(context.Background(), f)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestRenderer_ObjectWithoutOptions(t *testing.T) {
	empty := model.Leaf{Descriptor: model.Descriptor{
		ID:       "relative",
		Label:    "Relative",
		PropType: model.PropTypeObjectProperty,
		Visible:  true,
	}}
	driver := &stubDriver{}
	f := newMemForm(model.Tree{empty}, nil)

	if err := New(WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff([]string{"Relative: " + form.NoOptionsLabel}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if f.MissingCount() != 1 {
		t.Fatalf("expected field to stay unanswered")
	}
}

func TestRenderer_FillMissing(t *testing.T) {
	driver := &stubDriver{inputs: []string{"5"}}
	f := newMemForm(testsupport.TwoFieldTree(), map[string]form.Value{"A": form.Text("x")})
	if _, err := f.ToggleSection("B"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := New(WithPromptDriver(driver)).FillMissing(context.Background(), f); err != nil {
		t.Fatalf("fill missing: %v", err)
	}
	if driver.inputPos != 1 {
		t.Fatalf("expected a single prompt, got %d", driver.inputPos)
	}
	if f.MissingCount() != 0 {
		t.Fatalf("expected complete form, missing %v", f.Missing())
	}
}

func TestRenderer_ChooseCollapsed(t *testing.T) {
	tree := model.Tree{
		testsupport.SectionOf("one", testsupport.TextLeaf("a")),
		testsupport.SectionOf("two", testsupport.TextLeaf("b")),
	}
	f := newMemForm(tree, nil)
	if _, err := f.ToggleSection("one"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	driver := &stubDriver{multiIdx: [][]int{{1}}}
	if err := New(WithPromptDriver(driver)).ChooseCollapsed(context.Background(), f); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if diff := cmp.Diff([]string{"two"}, f.store.CollapsedSections()); diff != "" {
		t.Fatalf("collapsed mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_ConfirmSubmit(t *testing.T) {
	f := newMemForm(testsupport.TwoFieldTree(), map[string]form.Value{"A": form.Text("x")})
	driver := &stubDriver{confirm: []bool{true}}
	r := New(WithPromptDriver(driver))

	ok, err := r.ConfirmSubmit(context.Background(), f)
	if err != nil || ok {
		t.Fatalf("expected incomplete form to refuse, got %v %v", ok, err)
	}
	if diff := cmp.Diff([]string{"Complete all required fields: 1 remaining."}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	_ = f.Set("B1", form.Number(5))
	ok, err = r.ConfirmSubmit(context.Background(), f)
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got %v %v", ok, err)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(WithPromptDriver(&stubDriver{})).Fill(ctx, newMemForm(testsupport.TwoFieldTree(), nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"  Plain  ":                      "Plain",
		"<script>x</script>Age":          "Age",
		"Fish &amp; chips":               "Fish & chips",
		"Line\none":                      "Line one",
		"\x1bBell\x07":                   "Bell",
		"<i>Relative</i> with <b>BC</b>": "Relative with BC",
	}
	for raw, want := range cases {
		if got := sanitizeLabel(raw); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestUniqueLabels(t *testing.T) {
	got := uniqueLabels([]string{"Yes", "No", "Yes"})
	if diff := cmp.Diff([]string{"Yes", "No", "Yes (2)"}, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestLabelHelpers(t *testing.T) {
	labels := []string{"Mother", "Sister", "Mother"}
	if diff := cmp.Diff(map[string]int{"Mother": 0, "Sister": 1}, labelIndex(labels)); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Sister"}, pickLabels(labels, []int{-1, 1, 9})); diff != "" {
		t.Fatalf("picked mismatch (-want +got):\n%s", diff)
	}
}
