package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ontoform/pkg/form"
)

func TestStore_LastWriteWins(t *testing.T) {
	store := form.NewStore(nil)

	store.Set("height", form.Text("operator"))
	store.MergeDefaults(map[string]form.Value{
		"height":               form.Text("170"),
		form.UnitKey("height"): form.Text("cm"),
	})
	if v, _ := store.Value("height"); v.String() != "170" {
		t.Fatalf("merge should override earlier set, got %q", v)
	}

	store.Set("height", form.Text("172"))
	if v, _ := store.Value("height"); v.String() != "172" {
		t.Fatalf("set should override earlier merge, got %q", v)
	}

	store.MergeDefaults(map[string]form.Value{"weight": form.Number(60)})
	want := map[string]form.Value{
		"height":               form.Text("172"),
		form.UnitKey("height"): form.Text("cm"),
		"weight":               form.Number(60),
	}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 3 {
		t.Fatalf("len = %d, want 3", store.Len())
	}
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	prefill := map[string]form.Value{"a": form.Text("1")}
	store := form.NewStore(prefill)
	prefill["a"] = form.Text("mutated")

	snap := store.Snapshot()
	snap["a"] = form.Text("changed")

	if v, _ := store.Value("a"); v.String() != "1" {
		t.Fatalf("store leaked through prefill or snapshot, got %q", v)
	}
}

func TestStore_Sections(t *testing.T) {
	store := form.NewStore(nil)

	if store.Collapsed("B") {
		t.Fatalf("sections start expanded")
	}
	if !store.ToggleSection("B") {
		t.Fatalf("first toggle should collapse")
	}
	store.Collapse("A")
	if diff := cmp.Diff([]string{"A", "B"}, store.CollapsedSections()); diff != "" {
		t.Fatalf("collapsed mismatch (-want +got):\n%s", diff)
	}
	if store.ToggleSection("B") {
		t.Fatalf("second toggle should expand")
	}
	store.Expand("A")
	if got := store.CollapsedSections(); len(got) != 0 {
		t.Fatalf("expected no collapsed sections, got %v", got)
	}
}

func TestUnitKey(t *testing.T) {
	if got := form.UnitKey("weight"); got != "weight_unit" {
		t.Fatalf("UnitKey = %q", got)
	}
	if !form.IsUnitKey("weight_unit") || form.IsUnitKey("unit_weight") {
		t.Fatalf("IsUnitKey mismatch")
	}
}
