package onto

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
)

// Parameters are the system parameters derived from the rooted-tree sequence,
// so every knob of the system is mathematically justified rather than tuned.
type Parameters struct {
	ReservoirSize    int64   `json:"reservoir_size"`
	NumMembranes     int64   `json:"num_membranes"`
	GrowthRate       float64 `json:"growth_rate"`
	MutationRate     float64 `json:"mutation_rate"`
	MaxTreeOrder     int     `json:"max_tree_order"`
	AttentionDecay   float64 `json:"attention_decay"`
	FitnessThreshold float64 `json:"fitness_threshold"`
}

// Bridge connects ontogenetic dynamics to atomspace memory: it populates the
// space with the tree ontology, evolves kernels against it, and derives
// system parameters from the sequence.
type Bridge struct {
	Space      *atomspace.AtomSpace
	Generator  *SequenceGenerator
	Enumerator *TreeEnumerator
	MaxOrder   int

	kernels map[string]*Kernel
	rng     *rand.Rand
}

// NewBridge builds a bridge over the given space and seeds it with the tree
// ontology up to maxOrder.
func NewBridge(space *atomspace.AtomSpace, maxOrder int) *Bridge {
	generator := NewSequenceGenerator(maxOrder)
	b := &Bridge{
		Space:      space,
		Generator:  generator,
		Enumerator: NewTreeEnumerator(generator),
		MaxOrder:   maxOrder,
		kernels:    make(map[string]*Kernel),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	b.initTreeOntology()
	return b
}

// Seed makes subsequent evolution deterministic.
func (b *Bridge) Seed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// initTreeOntology plants the RootedTree root concept, one TreeOrder_<n>
// concept per order with STI = a(n), and every enumerated tree of that order
// attached beneath it.
func (b *Bridge) initTreeOntology() {
	root := atomspace.Concept("RootedTree")
	root.TV = atomspace.SimpleTruth(1.0, 1.0)
	root.AV = atomspace.AttentionValue{STI: 100, LTI: 100, VLTI: true}
	root = b.Space.Add(root)

	for order := 1; order <= b.MaxOrder; order++ {
		orderNode := atomspace.Concept(fmt.Sprintf("TreeOrder_%d", order))
		orderNode.TV = atomspace.SimpleTruth(1.0, 1.0)
		orderNode.AV = atomspace.AttentionValue{STI: float64(b.Generator.At(order)), LTI: float64(order)}
		orderNode = b.Space.Add(orderNode)
		b.Space.Add(atomspace.Inheritance(orderNode, root))

		for _, tree := range b.Enumerator.Enumerate(order) {
			tree.ToAtomSpace(b.Space, orderNode)
		}
	}
	logger.Debugw("tree ontology initialized", "max_order", b.MaxOrder, "atoms", b.Space.Size())
}

// CreateKernel builds a kernel whose coefficients cover every tree up to the
// given order, initialized to 1/σ(τ), and persists it to the space.
func (b *Bridge) CreateKernel(order int) *Kernel {
	coefficients := make(map[string]*BSeriesCoefficient)
	for o := 1; o <= order; o++ {
		for _, tree := range b.Enumerator.Enumerate(o) {
			coefficients[tree.Label] = &BSeriesCoefficient{
				Tree:  tree,
				Value: 1 / float64(tree.SymmetryFactor),
			}
		}
	}

	kernel := NewKernel(coefficients)
	kernel.ToAtomSpace(b.Space)
	b.kernels[kernel.ID] = kernel
	return kernel
}

// Kernel returns a previously created kernel by ID.
func (b *Bridge) Kernel(id string) (*Kernel, error) {
	kernel, ok := b.kernels[id]
	if !ok {
		return nil, errors.Newf("kernel %s not found", id)
	}
	return kernel, nil
}

// EvolvePopulation runs a genetic algorithm over kernels: fitness is the
// mean coefficient value, the top elitismRate fraction survives unchanged,
// and the rest of each generation is filled by crossover of parents drawn
// from the top half, mutated at mutationRate. The best kernel of each
// generation is persisted to the space. The returned population is sorted by
// fitness, best first.
func (b *Bridge) EvolvePopulation(populationSize, generations int, mutationRate, elitismRate float64) []*Kernel {
	population := make([]*Kernel, populationSize)
	for i := range population {
		population[i] = b.CreateKernel(4)
	}

	evaluate := func(pop []*Kernel) {
		for _, kernel := range pop {
			kernel.Fitness = kernel.MeanCoefficient()
		}
		sort.Slice(pop, func(i, j int) bool { return pop[i].Fitness > pop[j].Fitness })
	}

	for gen := 0; gen < generations; gen++ {
		evaluate(population)

		eliteCount := int(float64(populationSize) * elitismRate)
		nextGen := make([]*Kernel, 0, populationSize)
		nextGen = append(nextGen, population[:eliteCount]...)

		parentPool := population[:max(populationSize/2, 1)]
		for len(nextGen) < populationSize {
			parent1 := parentPool[b.rng.Intn(len(parentPool))]
			parent2 := parentPool[b.rng.Intn(len(parentPool))]
			child := parent1.Crossover(parent2)
			child.Mutate(mutationRate, b.rng)
			nextGen = append(nextGen, child)
		}
		population = nextGen

		best := population[0]
		best.ToAtomSpace(b.Space)
		logger.Debugw("generation evolved", "generation", gen, "best_fitness", best.Fitness)
	}

	evaluate(population)
	return population
}

// DeriveParameters maps the sequence onto the seven system parameters.
// The sequence starts at order 1, so lower base orders are clamped up
// to keep the cumulative count nonzero.
func (b *Bridge) DeriveParameters(baseOrder int) Parameters {
	if baseOrder < 1 {
		baseOrder = 1
	}
	return Parameters{
		ReservoirSize:    b.Generator.Cumulative(baseOrder),
		NumMembranes:     b.Generator.At(baseOrder),
		GrowthRate:       b.Generator.Ratio(baseOrder),
		MutationRate:     b.Generator.Inverse(baseOrder),
		MaxTreeOrder:     baseOrder + 3,
		AttentionDecay:   1 / float64(b.Generator.Cumulative(baseOrder)),
		FitnessThreshold: 1 - b.Generator.Inverse(baseOrder+1),
	}
}

// StimulateTree boosts attention on the tree node with the given label.
func (b *Bridge) StimulateTree(label string, amount float64) error {
	node, err := b.Space.GetNode(atomspace.TypeConceptNode, label)
	if err != nil {
		return err
	}
	return b.Space.Stimulate(node.ID, amount)
}

// DecayAttention decays attention across the space. A non-positive rate
// falls back to the sequence-derived default 1/a(maxOrder).
func (b *Bridge) DecayAttention(rate float64) {
	if rate <= 0 {
		rate = b.Generator.Inverse(b.MaxOrder)
	}
	b.Space.DecayAttention(rate)
}

// AttentionalFocus returns the atoms currently in focus.
func (b *Bridge) AttentionalFocus() []*atomspace.Atom {
	return b.Space.AttentionalFocus()
}
