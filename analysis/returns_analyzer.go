package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/zeu5/finite-mdp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type returnsDataset struct {
	Returns   []float64
	Lengths   []int
	Truncated int
}

// Histogram of episode returns with equally wide bins
type Histogram struct {
	Dividers []float64
	Counts   []float64
}

// ReturnsAnalyzer collects the discounted return and length of every episode
type ReturnsAnalyzer struct {
	dataset *returnsDataset
}

var _ core.Analyzer = &ReturnsAnalyzer{}

func NewReturnsAnalyzer() *ReturnsAnalyzer {
	r := &ReturnsAnalyzer{}
	r.Reset()
	return r
}

func (r *ReturnsAnalyzer) Reset() {
	r.dataset = &returnsDataset{
		Returns: make([]float64, 0),
		Lengths: make([]int, 0),
	}
}

func (r *ReturnsAnalyzer) Analyze(_ int, trace *core.Trace) {
	r.dataset.Returns = append(r.dataset.Returns, trace.Return)
	r.dataset.Lengths = append(r.dataset.Lengths, trace.Len())
	if trace.Truncated {
		r.dataset.Truncated++
	}
}

func (r *ReturnsAnalyzer) DataSet() core.DataSet {
	return &returnsDataset{
		Returns:   append([]float64(nil), r.dataset.Returns...),
		Lengths:   append([]int(nil), r.dataset.Lengths...),
		Truncated: r.dataset.Truncated,
	}
}

// Histogram bins the returns seen so far
func (r *ReturnsAnalyzer) Histogram(bins int) (*Histogram, error) {
	return NewHistogram(r.dataset.Returns, bins)
}

// HistogramOf bins the returns of a dataset produced by a ReturnsAnalyzer
func HistogramOf(ds core.DataSet, bins int) (*Histogram, error) {
	r, ok := ds.(*returnsDataset)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a returns dataset", core.ErrInvalidConfig, ds)
	}
	return NewHistogram(r.Returns, bins)
}

func NewHistogram(returns []float64, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be positive, got %d", core.ErrInvalidConfig, bins)
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: no returns recorded", core.ErrInvalidConfig)
	}
	x := append([]float64(nil), returns...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if hi == lo {
		hi = lo + 1
	}
	// the last divider must lie strictly above the largest sample
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)
	return &Histogram{Dividers: dividers, Counts: counts}, nil
}

type ReturnsAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &ReturnsAnalyzerConstructor{}

func (c *ReturnsAnalyzerConstructor) NewAnalyzer() core.Analyzer {
	return NewReturnsAnalyzer()
}
