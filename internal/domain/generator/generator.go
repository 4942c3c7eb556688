// Package generator synthesizes the tabular mock datasets: machine sensor
// series with tail degradation, and batch manufacturing records with their
// process, QC, QA and supply-chain tables.
//
// All randomness comes from the Source handed to New, so a seeded source
// gives a reproducible run.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

var (
	ErrInvalidSensorParams = errors.New("invalid sensor params")
	ErrEmptyVocabulary     = errors.New("empty vocabulary")
	ErrZeroIntervals       = errors.New("process grid has zero intervals")
	ErrUnknownParameter    = errors.New("unknown process parameter")
	ErrInsufficientBatches = errors.New("not enough batches to sample")
	ErrInvalidBatchID      = errors.New("invalid batch id")
	ErrTooLarge            = errors.New("dataset exceeds size limit")
)

// Size limits for a single run.
const (
	MaxSensorRows       = 50_000_000
	MaxBatches          = 10_000
	MaxReadingsPerParam = 1_000
	MaxTableRows        = 50_000_000
)

// Source is the random stream the generator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

type Generator struct {
	rnd Source
	now func() time.Time
}

type Option func(*Generator)

// WithClock replaces time.Now for the timestamps anchored on "now".
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func New(src Source, opts ...Option) *Generator {
	g := &Generator{
		rnd: src,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeeded builds a generator over a PCG stream seeded with seed.
func NewSeeded(seed uint64, opts ...Option) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

func (g *Generator) normal(mean, std float64) float64 {
	return mean + std*g.rnd.NormFloat64()
}

// intRange draws uniformly from [lo, hi], both inclusive.
func (g *Generator) intRange(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rnd.Float64()
}

func (g *Generator) choice(values []string) string {
	return values[g.rnd.IntN(len(values))]
}

func requireVocabulary(name string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyVocabulary, name)
	}
	return nil
}

// withinLimit reports whether every factor and their product lie in
// [0, limit]. The product is checked by division so it never overflows.
func withinLimit(limit int, factors ...int) bool {
	product := 1
	for _, f := range factors {
		if f < 0 || f > limit {
			return false
		}
		if f == 0 {
			product = 0
			continue
		}
		if product > limit/f {
			return false
		}
		product *= f
	}
	return true
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
