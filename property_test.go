package ibtree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/npillmayer/ibtree/interval"
)

// How to run:
//   - Deterministic randomized property test:
//     go test . -run TestRandomizedOperations -count=1
//   - Fuzz test for this file:
//     go test . -run '^$' -fuzz FuzzRandomizedOperations -fuzztime=10s

// model is a brute-force reference: the set of logical intervals.
type model map[*interval.Interval]struct{}

func (m model) overlapping(q interval.Range) map[*interval.Interval]bool {
	out := make(map[*interval.Interval]bool)
	for iv := range m {
		if iv.Range().Intersects(q) {
			out[iv] = true
		}
	}
	return out
}

func (m model) contained(q interval.Range) map[*interval.Interval]bool {
	out := make(map[*interval.Interval]bool)
	for iv := range m {
		if q.Contains(iv.Range()) {
			out[iv] = true
		}
	}
	return out
}

func (m model) pick(r *rand.Rand) *interval.Interval {
	ivs := make([]*interval.Interval, 0, len(m))
	for iv := range m {
		ivs = append(ivs, iv)
	}
	sort.Slice(ivs, func(i, j int) bool { // map order is random, keep runs reproducible
		if ivs[i].Lo() != ivs[j].Lo() {
			return ivs[i].Lo() < ivs[j].Lo()
		}
		return ivs[i].Hi() < ivs[j].Hi()
	})
	return ivs[r.Intn(len(ivs))]
}

func sameSet(got []*interval.Interval, want map[*interval.Interval]bool) bool {
	if len(got) != len(want) {
		return false
	}
	for _, iv := range got {
		if !want[iv] {
			return false
		}
	}
	return true
}

func runRandomizedOperations(t *testing.T, seed int64, steps int) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	order := 2 + r.Intn(7)
	alpha := 0.0
	if r.Intn(2) == 0 {
		alpha = 0.25 + 0.75*r.Float64()
	}
	tree := newTestTree(t, order, alpha)
	ref := make(model)
	clock := 0.0
	for step := 0; step < steps; step++ {
		switch op := r.Intn(10); {
		case op < 6 || len(ref) == 0:
			// time-like workload: lower bounds drift upwards
			clock += r.Float64() * 3
			lo := float64(int(clock)) + float64(r.Intn(5)) - 2
			iv := interval.New(lo, lo+float64(r.Intn(20)))
			if err := tree.Insert(iv); err != nil {
				t.Fatalf("seed %d step %d: insert %s: %v", seed, step, iv, err)
			}
			ref[iv] = struct{}{}
		case op < 9:
			iv := ref.pick(r)
			if err := tree.Delete(iv); err != nil {
				t.Fatalf("seed %d step %d: delete %s: %v", seed, step, iv, err)
			}
			delete(ref, iv)
		default:
			lo := float64(r.Intn(int(clock) + 10))
			hi := lo + float64(r.Intn(8))
			if err := tree.RangeDelete(lo, hi); err != nil {
				t.Fatalf("seed %d step %d: range delete [%v,%v]: %v", seed, step, lo, hi, err)
			}
			for iv := range ref.overlapping(interval.R(lo, hi)) {
				delete(ref, iv)
			}
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("seed %d step %d (order %d, alpha %v): %v\n%s", seed, step, order, alpha, err, tree)
		}
		lo := float64(r.Intn(int(clock) + 10))
		q := interval.R(lo, lo+float64(r.Intn(15)))
		if !sameSet(tree.AllRangeSearch(q), ref.overlapping(q)) {
			t.Fatalf("seed %d step %d: all range search %s differs from model", seed, step, q)
		}
		if !sameSet(tree.ContainedRangeSearch(q), ref.contained(q)) {
			t.Fatalf("seed %d step %d: contained range search %s differs from model", seed, step, q)
		}
		if lone := tree.LoneRangeSearch(q); (lone == nil) != (len(ref.overlapping(q)) == 0) {
			t.Fatalf("seed %d step %d: lone range search %s returned %v", seed, step, q, lone)
		}
	}
	for iv := range ref {
		if !tree.Exists(iv) {
			t.Fatalf("seed %d: %s missing at end of run", seed, iv)
		}
	}
}

func TestRandomizedOperations(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		runRandomizedOperations(t, seed, 400)
	}
}

func FuzzRandomizedOperations(f *testing.F) {
	for _, seed := range []int64{0, 1, 42, 4711} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, seed int64) {
		runRandomizedOperations(t, seed, 200)
	})
}
