package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/diamond/internal/domain/types"
	"github.com/okian/diamond/pkg/metrics"
)

// Ordering is Diamond Score DESC, then pitcher id ASC. "less" means ranks
// earlier, so an in-order walk yields the board from best to worst.

// scoreScale is the fixed-point factor; scores live in [0,100].
const scoreScale = 1_000_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	return scoreFP(math.Round(x * scoreScale))
}

type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score scoreFP, prio uint64) *node {
	if n == nil {
		return &node{id: id, score: score, prio: prio, size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// position returns the 1-based board position of (id, score).
func position(n *node, id string, score scoreFP) int {
	pos := 0
	for n != nil {
		switch {
		case score == n.score && id == n.id:
			return pos + nsize(n.left) + 1
		case less(score, id, n.score, n.id):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// walk visits nodes in board order until visit returns false.
func walk(n *node, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, visit) && visit(n) && walk(n.right, visit)
}

// TreapBoard is a treap-backed Board. Reads take a shared lock; each
// upsert is O(log n) expected.
type TreapBoard struct {
	mu   sync.RWMutex
	root *node
	byID map[string]Standing
	rng  *rand.Rand
	seed uint64
}

// NewTreapBoard constructs an empty board.
func NewTreapBoard(opts ...Option) *TreapBoard {
	b := &TreapBoard{
		byID: make(map[string]Standing),
		seed: uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rng = rand.New(rand.NewPCG(b.seed, b.seed^0x9e3779b97f4a7c15))
	metrics.UpdatePitchersTotal(0)
	return b
}

// Upsert implements Board.
func (b *TreapBoard) Upsert(_ context.Context, s Standing) (bool, error) {
	id := s.PitcherID()
	if id == "" {
		return false, ErrInvalidPitcher
	}
	score := toFixedPoint(s.Record.DiamondScore)

	b.mu.Lock()
	old, exists := b.byID[id]
	if exists && s.ReceivedAt.Before(old.ReceivedAt) {
		b.mu.Unlock()
		metrics.RecordStaleEvaluation()
		return false, nil
	}
	if exists {
		b.root = deleteNode(b.root, id, toFixedPoint(old.Record.DiamondScore))
	}
	b.byID[id] = s
	b.root = insert(b.root, id, score, b.rng.Uint64())
	count := len(b.byID)
	b.mu.Unlock()

	if !exists {
		metrics.UpdatePitchersTotal(count)
	}
	return !exists, nil
}

// Get implements Board.
func (b *TreapBoard) Get(_ context.Context, pitcherID string) (Standing, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.byID[pitcherID]
	if !ok {
		return Standing{}, ErrNotFound
	}
	return s, nil
}

// Rank implements Board in O(log n).
func (b *TreapBoard) Rank(_ context.Context, pitcherID string) (types.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.byID[pitcherID]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	e := entryOf(&s)
	e.Rank = position(b.root, pitcherID, toFixedPoint(s.Record.DiamondScore))
	return e, nil
}

// TopN implements Board.
func (b *TreapBoard) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]types.Entry, 0, min(n, len(b.byID)))
	walk(b.root, func(nd *node) bool {
		s := b.byID[nd.id]
		e := entryOf(&s)
		e.Rank = len(out) + 1
		out = append(out, e)
		return len(out) < n
	})
	return out, nil
}

// All implements Board.
func (b *TreapBoard) All(_ context.Context) []Standing {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Standing, 0, len(b.byID))
	walk(b.root, func(nd *node) bool {
		out = append(out, b.byID[nd.id])
		return true
	})
	return out
}

// Count implements Board.
func (b *TreapBoard) Count(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byID)
}

func entryOf(s *Standing) types.Entry {
	return types.Entry{
		PitcherID:    s.Record.PitcherID,
		Name:         s.Record.Name,
		DiamondScore: s.Record.DiamondScore,
		Tier:         s.Tier,
	}
}
