package index_test

import (
	"errors"
	"testing"

	"github.com/coregx/spanner/index"
	"github.com/coregx/spanner/va"
)

func TestBuildRejectsOverBudget(t *testing.T) {
	a, err := va.Compile(`(?P<g>a+)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	opts := index.DefaultBuildOptions()
	opts.MemoryCeiling = 1 // impossibly small
	_, err = index.Build(a, []byte("aaaaaaaaaa"), opts)
	if err == nil {
		t.Fatal("expected an out-of-budget error")
	}
	if !errors.Is(err, index.ErrOutOfBudget) {
		t.Fatalf("expected ErrOutOfBudget, got %v", err)
	}
}

func TestBuildRejectsInvalidOptions(t *testing.T) {
	a, err := va.Compile(`a`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	opts := index.DefaultBuildOptions()
	opts.JumpWidthCap = -1
	_, err = index.Build(a, []byte("a"), opts)
	if err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestAnchorsCoverWholeDocument(t *testing.T) {
	a, err := va.Compile(`(?P<a>a+)(?P<b>b+)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	doc := []byte("aabb")
	idx, err := index.Build(a, doc, index.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	anchors := idx.Anchors()
	if anchors[0] != 0 {
		t.Fatalf("expected first anchor 0, got %d", anchors[0])
	}
	if anchors[len(anchors)-1] != len(doc) {
		t.Fatalf("expected last anchor %d, got %d", len(doc), anchors[len(anchors)-1])
	}
}

func TestTrimIsDeterministic(t *testing.T) {
	a, err := va.Compile(`(?P<g>a+)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	doc := []byte("aaa")

	opts := index.DefaultBuildOptions()
	opts.Trimming = index.FullTrimming
	idx1, err := index.Build(a, doc, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	idx2, err := index.Build(a, doc, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for level := 0; level <= len(doc); level++ {
		for v := 0; v < a.NumStates(); v++ {
			if idx1.Present(level, uintToVertex(v)) != idx2.Present(level, uintToVertex(v)) {
				t.Fatalf("trim result differs on repeated Build at level %d vertex %d", level, v)
			}
		}
	}
}

func uintToVertex(v int) va.VertexID { return va.VertexID(v) }
