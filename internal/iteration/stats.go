package iteration

import (
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// confidence summarizes one accumulated sample (means, 95th percentiles, or
// raw fire sizes across completed Iterations) well enough to answer the
// two questions Model.add_statistics/runs_required ask: is this sample's
// mean known precisely enough, and if not, how many more observations
// would it take. GoStats supplies mean/stddev, gonum's Student-t quantile
// supplies the critical value; the corpus does not carry a concrete
// Statistics class to port, so this is a standard confidence-interval
// construction rather than a line-for-line translation.
type confidence struct {
	n      int
	mean   float64
	stddev float64
}

func summarize(samples []float64) confidence {
	n := len(samples)
	if n == 0 {
		return confidence{}
	}
	mean := stats.StatsMean(samples)
	var sd float64
	if n > 1 {
		sd = stats.StatsSampleStandardDeviation(samples)
	}
	return confidence{n: n, mean: mean, stddev: sd}
}

// tValue returns the two-sided critical value of the Student-t
// distribution with n-1 degrees of freedom for the given confidence level
// (e.g. 0.95).
func tValue(n int, confidenceLevel float64) float64 {
	df := float64(n - 1)
	if df < 1 {
		df = 1
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return t.Quantile(1 - (1-confidenceLevel)/2)
}

// relativeMargin is the half-width of the confidence interval on the mean,
// expressed as a fraction of the mean itself: +/-5% at the 95% level, say.
func (c confidence) relativeMargin(confidenceLevel float64) float64 {
	if c.n == 0 || c.mean == 0 {
		return math.Inf(1)
	}
	margin := tValue(c.n, confidenceLevel) * c.stddev / math.Sqrt(float64(c.n))
	return math.Abs(margin / c.mean)
}

// isConfident reports whether the sample's mean is known to within
// tolerance of confidenceLevel, i.e. the relative half-width of the
// confidence interval is no wider than 1-confidenceLevel.
func (c confidence) isConfident(confidenceLevel float64) bool {
	if c.n < 2 {
		return false
	}
	return c.relativeMargin(confidenceLevel) <= 1-confidenceLevel
}

// runsRequired estimates how many additional samples would bring the
// relative margin down to tolerance, by inverting margin ~ t/sqrt(n).
func (c confidence) runsRequired(confidenceLevel float64) int {
	if c.n < 2 {
		return 1
	}
	tolerance := 1 - confidenceLevel
	margin := c.relativeMargin(confidenceLevel)
	if margin <= tolerance {
		return 0
	}
	ratio := margin / tolerance
	needed := int(math.Ceil(float64(c.n)*ratio*ratio)) - c.n
	if needed < 1 {
		needed = 1
	}
	return needed
}

func percentile95(sortedSizes []float64) float64 {
	n := len(sortedSizes)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sortedSizes[0]
	}
	rank := 0.95 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sortedSizes[lo]
	}
	frac := rank - float64(lo)
	return sortedSizes[lo]*(1-frac) + sortedSizes[hi]*frac
}

func insertSorted(sorted []float64, v float64) []float64 {
	i := 0
	for i < len(sorted) && sorted[i] < v {
		i++
	}
	sorted = append(sorted, 0)
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = v
	return sorted
}
