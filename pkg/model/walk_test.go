package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-ontoform/pkg/model"
)

func sampleTree() model.Tree {
	return model.Tree{
		model.Leaf{Descriptor: model.Descriptor{ID: "A", Visible: true}},
		model.Section{
			Descriptor: model.Descriptor{ID: "B"},
			Children: []model.Node{
				model.Leaf{Descriptor: model.Descriptor{ID: "B1", Visible: true}},
				model.Section{
					Descriptor: model.Descriptor{ID: "B2"},
					Children: []model.Node{
						model.Leaf{Descriptor: model.Descriptor{ID: "B2a"}},
					},
				},
			},
		},
	}
}

func TestWalk_PreOrder(t *testing.T) {
	var got []string
	model.Walk(sampleTree(), func(n model.Node, depth int) bool {
		got = append(got, n.Base().ID)
		return true
	})

	want := []string{"A", "B", "B1", "B2", "B2a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	var got []string
	model.Walk(sampleTree(), func(n model.Node, _ int) bool {
		got = append(got, n.Base().ID)
		return n.Base().ID != "B"
	})

	want := []string{"A", "B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAndDepth(t *testing.T) {
	tree := sampleTree()

	node, ok := model.Find(tree, "B2a")
	if !ok {
		t.Fatalf("expected to find B2a")
	}
	if _, isLeaf := node.(model.Leaf); !isLeaf {
		t.Fatalf("expected B2a to be a leaf, got %T", node)
	}
	if _, ok := model.Find(tree, "missing"); ok {
		t.Fatalf("unexpected match for missing id")
	}

	if got := model.Depth(tree); got != 3 {
		t.Fatalf("depth = %d, want 3", got)
	}
	if got := model.Depth(nil); got != 0 {
		t.Fatalf("empty depth = %d, want 0", got)
	}
}

func TestDescriptorKind(t *testing.T) {
	if got := (model.Descriptor{PropType: model.PropTypeObjectProperty}).Kind(); got != model.PropertyKindObject {
		t.Fatalf("object prop kind = %q", got)
	}
	if got := (model.Descriptor{PropType: model.PropTypeDataProperty}).Kind(); got != model.PropertyKindData {
		t.Fatalf("data prop kind = %q", got)
	}
	if got := (model.Descriptor{PropType: "integer"}).Kind(); got != model.PropertyKindData {
		t.Fatalf("integer kind = %q", got)
	}
}
