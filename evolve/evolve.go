// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package evolve

import (
	"iter"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/ezrec/primeval/vm"
)

const (
	POPULATION_SIZE = 16      // Machines per population.
	STEP_CAP        = 1 << 16 // Default run-phase tick bound.

	RATE_DEFAULT = 0.05 // Default per-byte mutation probability.
)

// Publisher receives the winning genome at the end of each generation.
type Publisher interface {
	Publish(genome [vm.MEM_SIZE]byte) error
}

// Population is an ordered, fixed-length collection of machines.
// Machines never read one another's memory; the population exists only
// as parallel execution contexts sharing the instruction set.
type Population []*vm.Machine

// NewPopulation creates count halted machines. A count of zero or less
// selects POPULATION_SIZE.
func NewPopulation(count int) (pop Population) {
	if count <= 0 {
		count = POPULATION_SIZE
	}

	for range count {
		pop = append(pop, vm.NewMachine())
	}

	return
}

// Machines iterates the population in index order.
func (pop Population) Machines() iter.Seq2[int, *vm.Machine] {
	return slices.All(pop)
}

// Halted returns true once every machine in the population has halted.
func (pop Population) Halted() bool {
	for _, m := range pop {
		if !m.Halted {
			return false
		}
	}

	return true
}

// Controller drives the population through generations: it advances the
// run phase tick-by-tick, selects the longest-surviving program, and
// reloads the population with mutated variants of the winner.
type Controller struct {
	Verbose bool // Set to enable verbose logging.

	Population Population
	StepCap    int        // Ticks before a non-halting machine is scored.
	Rate       float64    // Per-byte mutation probability.
	Rand       *rand.Rand // Mutation and seeding randomness.
	Store      Publisher  // Optional winner sink, consulted by Advance.

	Generation int               // Completed generations.
	Template   [vm.MEM_SIZE]byte // Genome the current population was bred from.
	BestSteps  int               // Winning step count of the last generation.

	ticks int
}

// NewController creates a controller over the population with default
// step cap and mutation rate.
func NewController(pop Population, rng *rand.Rand) (ec *Controller) {
	ec = &Controller{
		Population: pop,
		StepCap:    STEP_CAP,
		Rate:       RATE_DEFAULT,
		Rand:       rng,
	}

	return
}

// Seed installs the generation-0 template and breeds the first
// population from it.
func (ec *Controller) Seed(template [vm.MEM_SIZE]byte) {
	ec.Template = template
	ec.reload()
}

// SeedRandom draws a fresh uniform-random generation-0 template.
func (ec *Controller) SeedRandom() {
	var template [vm.MEM_SIZE]byte
	for n := range template {
		template[n] = byte(ec.Rand.Uint32())
	}

	ec.Seed(template)
}

// Tick steps every machine once, in index order. done reports the end
// of the run phase: every machine halted, or the step cap reached.
func (ec *Controller) Tick() (done bool) {
	for _, m := range ec.Population {
		m.Step()
	}
	ec.ticks++

	done = ec.ticks >= ec.StepCap || ec.Population.Halted()
	return
}

// Ticks returns the tick count of the current run phase.
func (ec *Controller) Ticks() int {
	return ec.ticks
}

// Select returns the index of the machine with the highest step count.
// Ties break to the lowest index, so selection is deterministic and
// independent of the mutation RNG.
func (ec *Controller) Select() (winner int) {
	best := -1
	for n, m := range ec.Population.Machines() {
		if m.Steps > best {
			best = m.Steps
			winner = n
		}
	}

	return
}

// Mutate derives a variant of the genome, replacing each byte
// independently with a uniform random byte at the mutation rate.
func (ec *Controller) Mutate(genome [vm.MEM_SIZE]byte) (variant [vm.MEM_SIZE]byte) {
	variant = genome
	for n := range variant {
		if ec.Rand.Float64() < ec.Rate {
			variant[n] = byte(ec.Rand.Uint32())
		}
	}

	return
}

// Advance completes a generation: selects the winner, adopts its genome
// as the next template, reloads the population with mutated variants,
// and hands the winner to the Publisher. A publish failure is returned
// but never stalls the generation turnover.
func (ec *Controller) Advance() (winner int, err error) {
	winner = ec.Select()
	m := ec.Population[winner]

	ec.Template = m.Genome
	ec.BestSteps = m.Steps
	ec.Generation++

	if ec.Verbose {
		log.Printf("evolve: generation %d winner %d survived %d steps",
			ec.Generation, winner, ec.BestSteps)
	}

	ec.reload()

	if ec.Store != nil {
		err = ec.Store.Publish(ec.Template)
	}

	return
}

// reload breeds a variant of the template into every machine and resets
// the run phase.
func (ec *Controller) reload() {
	for _, m := range ec.Population {
		m.Load(ec.Mutate(ec.Template))
	}
	ec.ticks = 0
}
