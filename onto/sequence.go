// Package onto implements the ontogenetic layer: the A000081 rooted-tree
// sequence, tree enumeration, B-series kernels, and the bridge that projects
// them into an atomspace.
package onto

// SequenceGenerator computes and caches values of the sequence counting
// unlabeled rooted trees by number of vertices (OEIS A000081):
// 1, 1, 2, 4, 9, 20, 48, 115, 286, 719, ...
//
// The sequence drives every derived parameter of the system.
type SequenceGenerator struct {
	cache []int64
}

// NewSequenceGenerator precomputes values up to maxOrder.
func NewSequenceGenerator(maxOrder int) *SequenceGenerator {
	g := &SequenceGenerator{cache: []int64{0, 1}}
	g.extend(maxOrder)
	return g
}

// extend grows the cache through order n using the recurrence
// a(n) = (1/(n-1)) * Σ_{k=1}^{n-1} Σ_{d|k} d·a(d)·a(n-k).
func (g *SequenceGenerator) extend(n int) {
	for i := len(g.cache); i <= n; i++ {
		var total int64
		for k := 1; k < i; k++ {
			for _, d := range divisors(k) {
				total += int64(d) * g.cache[d] * g.cache[i-k]
			}
		}
		g.cache = append(g.cache, total/int64(i-1))
	}
}

func divisors(n int) []int {
	var divs []int
	for i := 1; i*i <= n; i++ {
		if n%i == 0 {
			divs = append(divs, i)
			if i != n/i {
				divs = append(divs, n/i)
			}
		}
	}
	return divs
}

// At returns a(n). Negative orders yield 0.
func (g *SequenceGenerator) At(n int) int64 {
	if n < 0 {
		return 0
	}
	g.extend(n)
	return g.cache[n]
}

// Cumulative returns Σ_{i=1}^{n} a(i).
func (g *SequenceGenerator) Cumulative(n int) int64 {
	var sum int64
	for i := 1; i <= n; i++ {
		sum += g.At(i)
	}
	return sum
}

// Ratio returns a(n+1)/a(n), or 0 when a(n) = 0.
func (g *SequenceGenerator) Ratio(n int) float64 {
	an := g.At(n)
	if an == 0 {
		return 0
	}
	return float64(g.At(n+1)) / float64(an)
}

// Inverse returns 1/a(n), or 0 when a(n) = 0. Used for mutation rates and
// decay constants.
func (g *SequenceGenerator) Inverse(n int) float64 {
	an := g.At(n)
	if an == 0 {
		return 0
	}
	return 1 / float64(an)
}
