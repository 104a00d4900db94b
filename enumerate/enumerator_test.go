package enumerate_test

import (
	"sort"
	"testing"

	"github.com/coregx/spanner/enumerate"
	"github.com/coregx/spanner/index"
	"github.com/coregx/spanner/naive"
	"github.com/coregx/spanner/va"
)

func build(t *testing.T, pattern string, doc string, trimming index.Trimming) *enumerate.Enumerator {
	t.Helper()
	a, err := va.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	opts := index.DefaultBuildOptions()
	opts.Trimming = trimming
	idx, err := index.Build(a, []byte(doc), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return enumerate.New(idx)
}

func keys(m enumerate.Assignment) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func assignmentSet(t *testing.T, all []enumerate.Assignment) map[string]bool {
	t.Helper()
	set := make(map[string]bool, len(all))
	for _, a := range all {
		key := ""
		for _, k := range keys(a) {
			s := a[k]
			key += k + ":" + itoa(s.Start) + "-" + itoa(s.End) + ";"
		}
		set[key] = true
	}
	return set
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestWorkedExamples(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		doc     string
		count   int
	}{
		{"email-dot-plus", `.+@.+`, "aa@aa", 4},
		{"repeated-group", `(?P<g>a+)`, "aaa", 6},
		{"two-groups", `(?P<a>a+)(?P<b>b+)`, "aabb", 4},
		{"bounded-repeat", `TTAC.{0,2}CACC`, "TTACGCACCXTTACCACC", 2},
		{"empty-star", `.*`, "", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := build(t, tc.pattern, tc.doc, index.FullTrimming)
			got := e.All()
			if len(got) != tc.count {
				t.Fatalf("pattern %q on %q: got %d results, want %d: %v", tc.pattern, tc.doc, len(got), tc.count, got)
			}
		})
	}
}

func TestUnsupportedAnchorRejected(t *testing.T) {
	_, err := va.Compile(`^abc$`)
	if err == nil {
		t.Fatal("expected an error")
	}
}

// TestMatchesNaiveReference cross-validates the indexed engine's output
// against the unaccelerated naive walk (soundness/completeness, §8).
func TestMatchesNaiveReference(t *testing.T) {
	cases := []struct {
		pattern, doc string
	}{
		{`.+@.+`, "aa@aa"},
		{`(?P<g>a+)`, "aaa"},
		{`(?P<a>a+)(?P<b>b+)`, "aabb"},
		{`TTAC.{0,2}CACC`, "TTACGCACCXTTACCACC"},
		{`.*`, ""},
		{`a(?P<x>b)c`, "xabcyabcz"},
	}

	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			a, err := va.Compile(tc.pattern)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			idx, err := index.Build(a, []byte(tc.doc), index.DefaultBuildOptions())
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			got := assignmentSet(t, enumerate.New(idx).All())
			want := assignmentSet(t, convert(naive.Enumerate(a, []byte(tc.doc))))

			if len(got) != len(want) {
				t.Fatalf("got %d distinct assignments, naive found %d", len(got), len(want))
			}
			for k := range want {
				if !got[k] {
					t.Errorf("missing assignment present in naive reference: %s", k)
				}
			}
			for k := range got {
				if !want[k] {
					t.Errorf("extra assignment absent from naive reference: %s", k)
				}
			}
		})
	}
}

func convert(in []naive.Assignment) []enumerate.Assignment {
	out := make([]enumerate.Assignment, len(in))
	for i, a := range in {
		m := make(enumerate.Assignment, len(a))
		for k, v := range a {
			m[k] = enumerate.Span{Start: v.Start, End: v.End}
		}
		out[i] = m
	}
	return out
}

func TestFullAndNoTrimmingAgree(t *testing.T) {
	pattern := `(?P<a>a+)(?P<b>b+)`
	doc := "aabb"

	full := build(t, pattern, doc, index.FullTrimming).All()
	none := build(t, pattern, doc, index.NoTrimming).All()

	if len(full) != len(none) {
		t.Fatalf("FullTrimming produced %d results, NoTrimming produced %d", len(full), len(none))
	}
	fullSet, noneSet := assignmentSet(t, full), assignmentSet(t, none)
	for k := range fullSet {
		if !noneSet[k] {
			t.Errorf("assignment %s from FullTrimming missing under NoTrimming", k)
		}
	}
	for k := range noneSet {
		if !fullSet[k] {
			t.Errorf("assignment %s from NoTrimming missing under FullTrimming", k)
		}
	}
}
