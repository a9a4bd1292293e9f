package onto

import "fmt"

// TreeEnumerator generates the unlabeled rooted trees of each order by
// partitioning the remaining vertices among children. Results are cached per
// order and shared structurally; treat enumerated trees as immutable.
//
// Child combinations are generated positionally, so orders with repeated
// partition parts that admit several tree shapes yield some isomorphic
// duplicates (first at order 7). The sequence generator, not the enumerator,
// is the authority on tree counts.
type TreeEnumerator struct {
	generator *SequenceGenerator
	cache     map[int][]*RootedTree
}

// NewTreeEnumerator creates an enumerator backed by the given generator.
func NewTreeEnumerator(generator *SequenceGenerator) *TreeEnumerator {
	return &TreeEnumerator{
		generator: generator,
		cache:     make(map[int][]*RootedTree),
	}
}

// Enumerate returns every rooted tree of the given order, labeled
// τ_<order>_<index>.
func (e *TreeEnumerator) Enumerate(order int) []*RootedTree {
	if trees, ok := e.cache[order]; ok {
		return trees
	}

	var trees []*RootedTree
	if order <= 1 {
		trees = []*RootedTree{NewLeaf("τ_1_1")}
	} else {
		for _, partition := range partitions(order - 1) {
			for _, children := range e.childCombinations(partition) {
				tree := &RootedTree{Children: children}
				tree.ComputeOrder()
				tree.ComputeSymmetry()
				tree.Label = fmt.Sprintf("τ_%d_%d", order, len(trees)+1)
				trees = append(trees, tree)
			}
		}
	}

	e.cache[order] = trees
	return trees
}

// partitions returns the partitions of n into non-increasing positive parts.
func partitions(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var result [][]int
	partitionHelper(n, n, nil, &result)
	return result
}

func partitionHelper(n, maxVal int, current []int, result *[][]int) {
	if n == 0 {
		part := make([]int, len(current))
		copy(part, current)
		*result = append(*result, part)
		return
	}
	limit := maxVal
	if n < limit {
		limit = n
	}
	for i := limit; i >= 1; i-- {
		partitionHelper(n-i, i, append(current, i), result)
	}
}

// childCombinations expands a partition into every assignment of enumerated
// trees to its parts.
func (e *TreeEnumerator) childCombinations(partition []int) [][]*RootedTree {
	if len(partition) == 0 {
		return [][]*RootedTree{{}}
	}
	var result [][]*RootedTree
	e.combinationHelper(partition, 0, nil, &result)
	return result
}

func (e *TreeEnumerator) combinationHelper(partition []int, index int, current []*RootedTree, result *[][]*RootedTree) {
	if index >= len(partition) {
		combo := make([]*RootedTree, len(current))
		copy(combo, current)
		*result = append(*result, combo)
		return
	}
	for _, tree := range e.Enumerate(partition[index]) {
		e.combinationHelper(partition, index+1, append(current, tree), result)
	}
}
