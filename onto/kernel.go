package onto

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/teranos/chimera/atomspace"
)

// BSeriesCoefficient is the weight b(τ) attached to a rooted tree. The
// coefficients form the genetic material of an ontogenetic kernel.
type BSeriesCoefficient struct {
	Tree  *RootedTree
	Value float64
}

// TruthValue maps the coefficient onto a truth value: sigmoid-normalized
// strength with confidence growing with tree order.
func (c BSeriesCoefficient) TruthValue() atomspace.TruthValue {
	normalized := 1 / (1 + math.Exp(-c.Value))
	confidence := 1 - 1/float64(c.Tree.Order+1)
	return atomspace.SimpleTruth(normalized, confidence)
}

// Kernel is a self-evolving computational unit built from B-series
// coefficients over rooted trees.
type Kernel struct {
	ID           string
	Coefficients map[string]*BSeriesCoefficient
	Generation   int
	Fitness      float64
	Lineage      []string
}

// NewKernel creates a generation-zero kernel over the given coefficients.
func NewKernel(coefficients map[string]*BSeriesCoefficient) *Kernel {
	return &Kernel{
		ID:           uuid.NewString()[:8],
		Coefficients: coefficients,
	}
}

// ToAtomSpace projects the kernel into the space as a ConceptNode with a
// has_coefficient EvaluationLink per tree, the coefficient carried as the
// link's truth value.
func (k *Kernel) ToAtomSpace(space *atomspace.AtomSpace) *atomspace.Atom {
	kernelNode := atomspace.Concept(fmt.Sprintf("kernel_%s", k.ID))
	kernelNode.TV = atomspace.SimpleTruth(k.Fitness, 0.9)
	kernelNode.AV = atomspace.AttentionValue{STI: k.Fitness * 10, LTI: float64(k.Generation)}
	kernelNode = space.Add(kernelNode)

	pred := space.Add(atomspace.Predicate("has_coefficient"))
	for label, coeff := range k.Coefficients {
		treeNode, err := space.GetNode(atomspace.TypeConceptNode, label)
		if err != nil {
			treeNode = space.Add(atomspace.Concept(label))
		}
		link := atomspace.NewLink(atomspace.TypeEvaluationLink, pred, kernelNode, treeNode)
		link.TV = coeff.TruthValue()
		space.Add(link)
	}
	return kernelNode
}

// SelfGenerate derives an offspring kernel through chain-rule composition:
// (f∘f)' = f'(f(x)) · f'(x), realized as coefficient squaring with a
// deterministic per-label jitter.
func (k *Kernel) SelfGenerate() *Kernel {
	coeffs := make(map[string]*BSeriesCoefficient, len(k.Coefficients))
	for label, coeff := range k.Coefficients {
		jitter := 1 + 0.1*float64(labelHash(label)%10-5)/10
		coeffs[label] = &BSeriesCoefficient{
			Tree:  coeff.Tree,
			Value: coeff.Value * coeff.Value * jitter,
		}
	}
	child := NewKernel(coeffs)
	child.Generation = k.Generation + 1
	child.Lineage = append(append([]string{}, k.Lineage...), k.ID)
	return child
}

func labelHash(label string) int {
	h := fnv.New32a()
	h.Write([]byte(label))
	return int(h.Sum32() % 1000)
}

// Crossover combines two kernels: shared coefficients are averaged, the rest
// carried over from whichever parent has them.
func (k *Kernel) Crossover(other *Kernel) *Kernel {
	coeffs := make(map[string]*BSeriesCoefficient)
	for label, coeff := range k.Coefficients {
		value := coeff.Value
		if theirs, ok := other.Coefficients[label]; ok {
			value = (coeff.Value + theirs.Value) / 2
		}
		coeffs[label] = &BSeriesCoefficient{Tree: coeff.Tree, Value: value}
	}
	for label, coeff := range other.Coefficients {
		if _, ok := coeffs[label]; !ok {
			coeffs[label] = &BSeriesCoefficient{Tree: coeff.Tree, Value: coeff.Value}
		}
	}

	child := NewKernel(coeffs)
	child.Generation = max(k.Generation, other.Generation) + 1
	child.Lineage = append(append([]string{}, k.Lineage...), other.Lineage...)
	child.Lineage = append(child.Lineage, k.ID, other.ID)
	return child
}

// Mutate perturbs coefficients in place, each with the given probability.
func (k *Kernel) Mutate(rate float64, rng *rand.Rand) {
	for _, coeff := range k.Coefficients {
		if rng.Float64() < rate {
			coeff.Value += (rng.Float64() - 0.5) * 0.2
		}
	}
}

// MeanCoefficient returns the average coefficient value, the kernel's
// fitness measure.
func (k *Kernel) MeanCoefficient() float64 {
	if len(k.Coefficients) == 0 {
		return 0
	}
	var sum float64
	for _, coeff := range k.Coefficients {
		sum += coeff.Value
	}
	return sum / float64(len(k.Coefficients))
}
