package ibtree

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/ibtree/interval"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newTestTree(t *testing.T, order int, alpha float64) *Tree {
	t.Helper()
	tree, err := New(Config{Order: order, Alpha: alpha})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tree
}

// traceToTest routes the core tracer to t at debug level. The returned
// teardown restores the previous tracer, which must not outlive t.
func traceToTest(t *testing.T) func() {
	saved := gtrace.CoreTracer
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return func() {
		gtrace.CoreTracer = saved
	}
}

func mustInsert(t *testing.T, tree *Tree, ivs ...*interval.Interval) {
	t.Helper()
	for _, iv := range ivs {
		if err := tree.Insert(iv); err != nil {
			t.Fatalf("insert %s failed: %v", iv, err)
		}
	}
}

func mustCheck(t *testing.T, tree *Tree) {
	t.Helper()
	if err := tree.Check(); err != nil {
		t.Fatalf("invariants violated: %v\n%s", err, tree)
	}
}

func rangesOf(ivs []*interval.Interval) []interval.Range {
	rs := make([]interval.Range, len(ivs))
	for i, iv := range ivs {
		rs[i] = iv.Range()
	}
	return rs
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Order: 1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for order 1, got %v", err)
	}
}

func TestNewNormalizesConfig(t *testing.T) {
	tree, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := tree.Config()
	if cfg.Order != DefaultOrder || cfg.Policy == nil {
		t.Fatalf("expected normalized config, got %+v", cfg)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := newTestTree(t, 4, 0)
	mustCheck(t, tree)
	if tree.Len() != 0 || tree.Height() != 0 {
		t.Fatalf("unexpected empty tree state len=%d height=%d", tree.Len(), tree.Height())
	}
	if _, ok := tree.Max(); ok {
		t.Fatalf("empty tree reports a maximum")
	}
	if tree.LoneRangeSearch(interval.R(0, 100)) != nil {
		t.Fatalf("lone range search on empty tree found something")
	}
	if err := tree.Delete(interval.New(1, 2)); err != nil {
		t.Fatalf("delete on empty tree: %v", err)
	}
	if err := tree.RangeDelete(0, 10); err != nil {
		t.Fatalf("range delete on empty tree: %v", err)
	}
}

func TestInsertRejectsNil(t *testing.T) {
	tree := newTestTree(t, 4, 0)
	if err := tree.Insert(nil); !errors.Is(err, ErrIllegalArguments) {
		t.Fatalf("expected ErrIllegalArguments, got %v", err)
	}
	if err := tree.RangeDelete(5, 1); !errors.Is(err, ErrIllegalArguments) {
		t.Fatalf("expected ErrIllegalArguments for inverted range, got %v", err)
	}
}

func TestFiveIntervalScenario(t *testing.T) {
	teardown := traceToTest(t)
	defer teardown()
	//
	tree := newTestTree(t, 4, 0)
	ivs := []*interval.Interval{
		interval.New(1, 5), interval.New(2, 3), interval.New(10, 20),
		interval.New(15, 18), interval.New(4, 4),
	}
	for i, iv := range ivs {
		mustInsert(t, tree, iv)
		mustCheck(t, tree)
		if i == 3 && tree.Stats().Leaves != 1 {
			t.Fatalf("expected a single leaf before the 5th insertion")
		}
	}
	if s := tree.Stats(); s.Leaves != 2 || s.Height != 2 || s.Entries != 5 {
		t.Fatalf("expected split into 2 leaves after 5th insertion, got %+v", s)
	}
	t.Logf("tree:\n%s", tree)
	//
	found := tree.Search(interval.R(2, 3))
	if len(found) != 1 || found[0] != ivs[1] {
		t.Fatalf("search [2,3]: got %v", found)
	}
	// [4,4] touches the query range, closed semantics count it
	want := []interval.Range{interval.R(1, 5), interval.R(2, 3), interval.R(4, 4), interval.R(10, 20)}
	if diff := cmp.Diff(want, rangesOf(tree.AllRangeSearch(interval.R(3, 11)))); diff != "" {
		t.Fatalf("all range search [3,11] mismatch (-want +got):\n%s", diff)
	}
	if got := tree.ContainedRangeSearch(interval.R(0, 25)); len(got) != 5 {
		t.Fatalf("contained range search [0,25]: expected 5, got %v", got)
	}
	if err := tree.Delete(interval.New(2, 3)); err != nil {
		t.Fatal(err)
	}
	if tree.Exists(interval.New(2, 3)) {
		t.Fatalf("[2,3] still exists after delete")
	}
	mustCheck(t, tree)
}

func TestDeleteIsIdempotent(t *testing.T) {
	tree := newTestTree(t, 3, 0)
	for i := 0; i < 20; i++ {
		mustInsert(t, tree, interval.New(float64(i), float64(i+3)))
	}
	iv := interval.New(7, 10)
	if err := tree.Delete(iv); err != nil {
		t.Fatal(err)
	}
	if err := tree.Delete(iv); err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 19 {
		t.Fatalf("expected 19 entries, got %d", tree.Len())
	}
	mustCheck(t, tree)
}

func TestDeletePrefersIdenticalInterval(t *testing.T) {
	tree := newTestTree(t, 4, 0)
	a, b := interval.New(1, 2), interval.New(1, 2)
	mustInsert(t, tree, a, b)
	if err := tree.Delete(b); err != nil {
		t.Fatal(err)
	}
	found := tree.Search(interval.R(1, 2))
	if len(found) != 1 || found[0] != a {
		t.Fatalf("expected a to survive, got %v", found)
	}
}

func TestSearchReturnsDuplicates(t *testing.T) {
	tree := newTestTree(t, 3, 0)
	var dups []*interval.Interval
	for i := 0; i < 7; i++ {
		iv := interval.New(5, 9)
		dups = append(dups, iv)
		mustInsert(t, tree, iv, interval.New(float64(i), float64(i)+0.5))
	}
	mustCheck(t, tree)
	found := tree.Search(interval.R(5, 9))
	if len(found) != len(dups) {
		t.Fatalf("expected %d duplicates, got %d", len(dups), len(found))
	}
	if !tree.Exists(interval.New(5, 9)) || tree.Exists(interval.New(5, 8)) {
		t.Fatalf("exists reports wrong result")
	}
}

func TestRangeQueriesAreConsistent(t *testing.T) {
	tree := newTestTree(t, 4, 0)
	for i := 0; i < 60; i++ {
		lo := float64((i * 37) % 101)
		mustInsert(t, tree, interval.New(lo, lo+float64(i%13)))
	}
	for lo := -5.0; lo < 120; lo += 7 {
		q := interval.R(lo, lo+9)
		all := tree.AllRangeSearch(q)
		contained := tree.ContainedRangeSearch(q)
		inAll := make(map[*interval.Interval]bool, len(all))
		for _, iv := range all {
			inAll[iv] = true
		}
		for _, iv := range contained {
			if !inAll[iv] {
				t.Fatalf("%s contained in %s but not overlapping", iv, q)
			}
		}
		lone := tree.LoneRangeSearch(q)
		if (lone == nil) != (len(all) == 0) {
			t.Fatalf("lone range search %s: got %v, all=%v", q, lone, all)
		}
		if lone != nil && !inAll[lone] {
			t.Fatalf("lone range search %s returned %s not in all-range result", q, lone)
		}
	}
}

func TestDeleteAllCollapsesTree(t *testing.T) {
	tree := newTestTree(t, 3, 0)
	var ivs []*interval.Interval
	for i := 0; i < 50; i++ {
		iv := interval.New(float64(i), float64(i)+2)
		ivs = append(ivs, iv)
		mustInsert(t, tree, iv)
	}
	if tree.Height() < 4 {
		t.Fatalf("expected a deeper tree, height is %d", tree.Height())
	}
	for i, iv := range ivs {
		if err := tree.Delete(iv); err != nil {
			t.Fatal(err)
		}
		mustCheck(t, tree)
		if tree.Len() != len(ivs)-i-1 {
			t.Fatalf("expected %d entries, got %d", len(ivs)-i-1, tree.Len())
		}
	}
	if tree.Height() != 0 {
		t.Fatalf("expected empty tree, height is %d", tree.Height())
	}
	mustInsert(t, tree, interval.New(3, 4))
	mustCheck(t, tree)
	if !tree.Exists(interval.New(3, 4)) {
		t.Fatalf("re-insert into emptied tree failed")
	}
}

func TestArenaReusesSlots(t *testing.T) {
	tree := newTestTree(t, 3, 0)
	for round := 0; round < 3; round++ {
		for i := 0; i < 40; i++ {
			mustInsert(t, tree, interval.New(float64(i), float64(i)+1))
		}
		if err := tree.RangeDelete(0, 100); err != nil {
			t.Fatal(err)
		}
		mustCheck(t, tree)
	}
	slots := len(tree.nodes)
	for i := 0; i < 40; i++ {
		mustInsert(t, tree, interval.New(float64(i), float64(i)+1))
	}
	if len(tree.nodes) > slots {
		t.Fatalf("arena grew from %d to %d slots although slots were free", slots, len(tree.nodes))
	}
}

func TestEachVisitsInOrder(t *testing.T) {
	tree := newTestTree(t, 3, 0)
	for _, lo := range []float64{9, 3, 7, 1, 5, 8, 2, 6, 4} {
		mustInsert(t, tree, interval.New(lo, lo+1))
	}
	var los []float64
	tree.Each(func(iv *interval.Interval) bool {
		los = append(los, iv.Lo())
		return len(los) < 5
	})
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5}, los); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if m, ok := tree.Max(); !ok || m != 10 {
		t.Fatalf("expected max 10, got %v", m)
	}
}

func TestStringAndDot(t *testing.T) {
	tree := newTestTree(t, 3, 0)
	for i := 0; i < 6; i++ {
		mustInsert(t, tree, interval.New(float64(i), float64(2*i)))
	}
	s := tree.String()
	if !strings.Contains(s, "- Keys |") || !strings.Contains(s, "- Leaf |[0,0]|") {
		t.Fatalf("unexpected dump:\n%s", s)
	}
	var b strings.Builder
	Tree2Dot(tree, &b)
	dot := b.String()
	if !strings.HasPrefix(dot, "strict digraph {") || !strings.Contains(dot, "->") {
		t.Fatalf("unexpected DOT output:\n%s", dot)
	}
}

func TestTraceTeardownRestoresTracer(t *testing.T) {
	saved := gtrace.CoreTracer
	teardown := traceToTest(t)
	if gtrace.CoreTracer == saved {
		t.Fatalf("expected tracing to be routed to the test")
	}
	teardown()
	if gtrace.CoreTracer != saved {
		t.Fatalf("tracer not restored after teardown")
	}
}
