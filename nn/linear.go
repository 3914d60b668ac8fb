package nn

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.viam.com/rrtplanner/spatial"
)

// parallelThreshold mirrors the teacher's own nearest-neighbor scan, which only
// fans a candidate set out across goroutines once it passes roughly this size.
const parallelThreshold = 1000

// Linear is a linear-scan Index. Below parallelThreshold items it scans serially;
// above it, it fans the scan out across its configured goroutine count. It is the
// module's reference implementation, correct for any DistanceFunc including
// asymmetric ones, and the oracle KDTree is differentially tested against.
type Linear struct {
	mu     sync.RWMutex
	items  []Item
	distFn DistanceFunc
	nCPU   int
}

// NewLinear creates a Linear index using distFn, fanning parallel scans across
// nCPU goroutines (at least 1).
func NewLinear(distFn DistanceFunc, nCPU int) *Linear {
	if nCPU < 1 {
		nCPU = 1
	}
	return &Linear{distFn: distFn, nCPU: nCPU}
}

func (l *Linear) Add(item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

func (l *Linear) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *Linear) List() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Linear) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

func (l *Linear) SetDistanceFunction(fn DistanceFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.distFn = fn
}

type scoredItem struct {
	item Item
	dist float64
}

func (l *Linear) scoreAll(target spatial.State) []scoredItem {
	l.mu.RLock()
	items := make([]Item, len(l.items))
	copy(items, l.items)
	distFn := l.distFn
	l.mu.RUnlock()

	scored := make([]scoredItem, len(items))
	if len(items) < parallelThreshold {
		for i, it := range items {
			scored[i] = scoredItem{it, distFn(target, it.State())}
		}
		return scored
	}

	chunk := (len(items) + l.nCPU - 1) / l.nCPU
	var g errgroup.Group
	for start := 0; start < len(items); start += chunk {
		start, end := start, start+chunk
		if end > len(items) {
			end = len(items)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				scored[i] = scoredItem{items[i], distFn(target, items[i].State())}
			}
			return nil
		})
	}
	_ = g.Wait() // scoring never errors; Wait only joins the goroutines
	return scored
}

func (l *Linear) Nearest(target spatial.State) Item {
	scored := l.scoreAll(target)
	if len(scored) == 0 {
		return nil
	}
	best := scored[0]
	for _, s := range scored[1:] {
		if s.dist < best.dist {
			best = s
		}
	}
	return best.item
}

func (l *Linear) NearestK(target spatial.State, k int) []Item {
	scored := l.scoreAll(target)
	sort.Slice(scored, func(i, j int) bool { return scored[i].dist < scored[j].dist })
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]Item, k)
	for i := 0; i < k; i++ {
		out[i] = scored[i].item
	}
	return out
}
