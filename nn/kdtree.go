package nn

import (
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"

	"go.viam.com/rrtplanner/spatial"
)

// KDTree is an Index backed by gonum's k-d tree, for Euclidean configuration
// spaces with a symmetric distance. Motions are never removed from the planner's
// tree once inserted (only reparented), so this index only needs to support
// insertion, which gonum's kdtree.Tree does incrementally via Insert.
//
// SetDistanceFunction is a deliberate no-op here: the tree only ever orders by
// squared Euclidean distance over the stored coordinates. A Space with an
// asymmetric or non-Euclidean Distance must use Linear instead, which honors an
// arbitrary DistanceFunc at the cost of linear-time queries.
type KDTree struct {
	mu      sync.RWMutex
	tree    *kdtree.Tree
	byKey   map[string][]Item
	ordered []Item
}

// NewKDTree creates an empty KDTree index.
func NewKDTree() *KDTree {
	return &KDTree{byKey: make(map[string][]Item)}
}

func stateKey(s spatial.State) string {
	return fmt.Sprint([]float64(s))
}

func toPoint(s spatial.State) kdtree.Point {
	p := make(kdtree.Point, len(s))
	copy(p, s)
	return p
}

// byKey buckets by coordinate key rather than storing a single Item, since two
// distinct Motions can share exact coordinates (e.g. a goal sampled more than
// once). Nearest/NearestK resolve a coordinate match against the first Item added
// at that key: among exactly-coincident items only that first one is ever
// returned, and NearestK returns it once for every coincident point it keeps.
func (idx *KDTree) Add(item Item) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	key := stateKey(item.State())
	idx.byKey[key] = append(idx.byKey[key], item)
	idx.ordered = append(idx.ordered, item)
	pt := toPoint(item.State())
	if idx.tree == nil {
		idx.tree = kdtree.New(kdtree.Points{pt}, true)
		return
	}
	idx.tree.Insert(pt, true)
}

func (idx *KDTree) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ordered)
}

func (idx *KDTree) List() []Item {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Item, len(idx.ordered))
	copy(out, idx.ordered)
	return out
}

func (idx *KDTree) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.tree = nil
	idx.byKey = make(map[string][]Item)
	idx.ordered = nil
}

func (idx *KDTree) lookup(key string) Item {
	bucket := idx.byKey[key]
	if len(bucket) == 0 {
		return nil
	}
	return bucket[0]
}

func (idx *KDTree) SetDistanceFunction(DistanceFunc) {}

func (idx *KDTree) Nearest(target spatial.State) Item {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.tree == nil {
		return nil
	}
	c, _ := idx.tree.Nearest(toPoint(target))
	if c == nil {
		return nil
	}
	return idx.lookup(stateKey(spatial.State(c.(kdtree.Point))))
}

func (idx *KDTree) NearestK(target spatial.State, k int) []Item {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.tree == nil || k <= 0 {
		return nil
	}
	keeper := kdtree.NewNKeeper(k)
	idx.tree.NearestSet(keeper, toPoint(target))

	results := make([]kdtree.ComparableDist, len(keeper.Heap))
	copy(results, keeper.Heap)
	sort.Slice(results, func(i, j int) bool { return results[i].Dist < results[j].Dist })

	out := make([]Item, 0, len(results))
	for _, r := range results {
		if r.Comparable == nil {
			continue
		}
		if it := idx.lookup(stateKey(spatial.State(r.Comparable.(kdtree.Point)))); it != nil {
			out = append(out, it)
		}
	}
	return out
}
