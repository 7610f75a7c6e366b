// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package sim owns the top-level simulation state: the population, the
// evolution controller, and the cooperative tick cadence driven by the
// presentation boundary.
package sim

import (
	"iter"
	"log"

	"github.com/ezrec/primeval/evolve"
	"github.com/ezrec/primeval/vm"
)

// Control is a scheduling event delivered from the presentation
// boundary between frames. Control events only affect tick cadence and
// the pause flag; they never touch machine or population state.
type Control int

const (
	CONTROL_PAUSE_TOGGLE = Control(0) // pause
	CONTROL_SINGLE_STEP  = Control(1) // step
	CONTROL_SPEED_UP     = Control(2) // faster
	CONTROL_SPEED_DOWN   = Control(3) // slower
	CONTROL_SPEED_RESET  = Control(4) // reset
)

var _control_name = map[Control]string{
	CONTROL_PAUSE_TOGGLE: "pause",
	CONTROL_SINGLE_STEP:  "step",
	CONTROL_SPEED_UP:     "faster",
	CONTROL_SPEED_DOWN:   "slower",
	CONTROL_SPEED_RESET:  "reset",
}

// String returns the name of the control event.
func (c Control) String() (name string) {
	name, ok := _control_name[c]
	if !ok {
		name = "unknown"
	}

	return
}

const (
	SPEED_DEFAULT = 1    // Ticks per frame.
	SPEED_MAX     = 1024 // Upper bound for CONTROL_SPEED_UP.
)

// Sim is the simulation state. One control loop owns it exclusively;
// nothing in this package blocks or runs concurrently.
type Sim struct {
	Verbose bool // Set to enable verbose logging.

	*evolve.Controller // Reference to the evolution controller.

	Paused bool // While set, frames skip run-phase ticks.
	Speed  int  // Ticks executed per frame.

	stepOnce bool
}

// NewSim wraps a controller with the default tick cadence.
func NewSim(ec *evolve.Controller) (sim *Sim) {
	sim = &Sim{
		Controller: ec,
		Speed:      SPEED_DEFAULT,
	}

	return
}

// Handle applies a control event before the next frame.
func (sim *Sim) Handle(event Control) {
	if sim.Verbose {
		log.Printf("sim: control %v", event)
	}

	switch event {
	case CONTROL_PAUSE_TOGGLE:
		sim.Paused = !sim.Paused
	case CONTROL_SINGLE_STEP:
		sim.stepOnce = true
	case CONTROL_SPEED_UP:
		sim.Speed *= 2
		if sim.Speed > SPEED_MAX {
			sim.Speed = SPEED_MAX
		}
	case CONTROL_SPEED_DOWN:
		sim.Speed /= 2
		if sim.Speed < 1 {
			sim.Speed = 1
		}
	case CONTROL_SPEED_RESET:
		sim.Speed = SPEED_DEFAULT
	}
}

// Frame executes one cooperative unit of work: Speed ticks of the run
// phase, or exactly one tick when single-stepping, irrespective of the
// pause flag. When the run phase ends the generation is advanced before
// control returns. A publish failure is reported but leaves the
// simulation in a consistent, resumable state.
func (sim *Sim) Frame() (err error) {
	ticks := sim.Speed
	if sim.stepOnce {
		sim.stepOnce = false
		ticks = 1
	} else if sim.Paused {
		return
	}

	for range ticks {
		if !sim.Controller.Tick() {
			continue
		}

		_, err = sim.Controller.Advance()
		break
	}

	return
}

// View is a read-only copy of one machine's observable state for the
// presentation boundary.
type View struct {
	Memory [vm.MEM_SIZE]byte
	PC     uint8
	Acc    uint8
	Halted bool
	Steps  int
}

// View returns the observable state of the machine at index.
func (sim *Sim) View(index int) (view View) {
	m := sim.Population[index]
	view = View{
		Memory: m.Memory,
		PC:     m.PC,
		Acc:    m.Acc,
		Halted: m.Halted,
		Steps:  m.Steps,
	}

	return
}

// Views iterates the observable state of every machine in index order.
func (sim *Sim) Views() iter.Seq2[int, View] {
	return func(yield func(index int, view View) bool) {
		for n := range sim.Population {
			if !yield(n, sim.View(n)) {
				return
			}
		}
	}
}
