package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/primeval/evolve"
	"github.com/ezrec/primeval/vm"
)

// newSim builds a simulation with no mutation, so every machine runs
// the template verbatim and the tests stay deterministic.
func newSim(count int, template [vm.MEM_SIZE]byte) *Sim {
	rng := rand.New(rand.NewPCG(7, 0))
	ec := evolve.NewController(evolve.NewPopulation(count), rng)
	ec.Rate = 0
	ec.Seed(template)

	return NewSim(ec)
}

// nops returns an all-NOP template, which never halts on its own.
func nops() (template [vm.MEM_SIZE]byte) {
	return
}

func TestSimDefaults(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(4, nops())

	assert.Equal(SPEED_DEFAULT, sim.Speed)
	assert.False(sim.Paused)
	assert.NotNil(sim.Controller)
}

func TestSimFrameTicks(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(4, nops())

	assert.NoError(sim.Frame())
	assert.Equal(1, sim.Ticks())

	sim.Speed = 8
	assert.NoError(sim.Frame())
	assert.Equal(9, sim.Ticks())
}

func TestSimPause(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(4, nops())

	sim.Handle(CONTROL_PAUSE_TOGGLE)
	assert.True(sim.Paused)

	for range 5 {
		assert.NoError(sim.Frame())
	}
	assert.Equal(0, sim.Ticks())

	sim.Handle(CONTROL_PAUSE_TOGGLE)
	assert.False(sim.Paused)

	assert.NoError(sim.Frame())
	assert.Equal(1, sim.Ticks())
}

func TestSimSingleStep(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(4, nops())
	sim.Speed = 16

	// Single-step executes exactly one tick irrespective of pause.
	sim.Handle(CONTROL_PAUSE_TOGGLE)
	sim.Handle(CONTROL_SINGLE_STEP)
	assert.NoError(sim.Frame())
	assert.Equal(1, sim.Ticks())

	// The step request is consumed; the next paused frame is idle.
	assert.NoError(sim.Frame())
	assert.Equal(1, sim.Ticks())

	sim.Handle(CONTROL_PAUSE_TOGGLE)
	sim.Handle(CONTROL_SINGLE_STEP)
	assert.NoError(sim.Frame())
	assert.Equal(2, sim.Ticks())
}

func TestSimSpeedControls(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(4, nops())

	sim.Handle(CONTROL_SPEED_UP)
	assert.Equal(2, sim.Speed)
	sim.Handle(CONTROL_SPEED_UP)
	assert.Equal(4, sim.Speed)

	for range 20 {
		sim.Handle(CONTROL_SPEED_UP)
	}
	assert.Equal(SPEED_MAX, sim.Speed)

	sim.Handle(CONTROL_SPEED_DOWN)
	assert.Equal(SPEED_MAX/2, sim.Speed)

	for range 20 {
		sim.Handle(CONTROL_SPEED_DOWN)
	}
	assert.Equal(1, sim.Speed)

	sim.Handle(CONTROL_SPEED_UP)
	sim.Handle(CONTROL_SPEED_RESET)
	assert.Equal(SPEED_DEFAULT, sim.Speed)
}

func TestSimFrameAdvancesGeneration(t *testing.T) {
	assert := assert.New(t)

	// HLT at 0: the run phase ends on the first tick.
	var template [vm.MEM_SIZE]byte
	template[0] = 0xff

	sim := newSim(4, template)

	assert.NoError(sim.Frame())
	assert.Equal(1, sim.Generation)
	assert.Equal(0, sim.Ticks())

	// The new generation starts fresh.
	for _, view := range sim.Views() {
		assert.False(view.Halted)
		assert.Equal(0, view.Steps)
	}
}

func TestSimFrameStopsAtGenerationBoundary(t *testing.T) {
	assert := assert.New(t)

	var template [vm.MEM_SIZE]byte
	template[0] = 0xff

	sim := newSim(4, template)
	sim.Speed = 64

	// Even at high speed a frame completes at most one generation,
	// yielding to the presentation boundary in between.
	assert.NoError(sim.Frame())
	assert.Equal(1, sim.Generation)
}

func TestSimViewCopies(t *testing.T) {
	assert := assert.New(t)

	sim := newSim(2, nops())
	m := sim.Population[0]
	m.Memory[5] = 0x77
	m.PC = 9
	m.Acc = 3
	m.Steps = 12

	view := sim.View(0)
	assert.Equal(uint8(0x77), view.Memory[5])
	assert.Equal(uint8(9), view.PC)
	assert.Equal(uint8(3), view.Acc)
	assert.Equal(12, view.Steps)

	// The view is a copy; writing it never reaches the machine.
	view.Memory[5] = 0
	assert.Equal(uint8(0x77), m.Memory[5])
}

func TestControlString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("pause", CONTROL_PAUSE_TOGGLE.String())
	assert.Equal("step", CONTROL_SINGLE_STEP.String())
	assert.Equal("reset", CONTROL_SPEED_RESET.String())
	assert.Equal("unknown", Control(99).String())
}
