// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"log"
	"math/rand/v2"
)

const (
	MEM_SIZE = 256 // Memory size, in bytes.

	STALL_WINDOW   = 16 // Opcode history window for stall detection.
	STALL_DISTINCT = 2  // Distinct opcodes in a full window considered a stall.
)

// Machine is a single 8-bit virtual machine.
//
// Memory is circular: the program counter and every operand address wrap
// modulo MEM_SIZE, so no access is ever out of range. All accumulator
// arithmetic wraps modulo 256.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Memory [MEM_SIZE]byte // Working memory, mutated by STA and SWP.
	Genome [MEM_SIZE]byte // The program as loaded, before self-modification.

	PC     uint8 // Program counter.
	Acc    uint8 // Accumulator.
	Halted bool  // Terminal once set; Step becomes a no-op.
	Steps  int   // Steps executed since the last load.

	// DetectStalls halts the machine with a zeroed step count when the
	// last STALL_WINDOW opcodes contain no more than STALL_DISTINCT
	// distinct values. Degenerate two-instruction loops would otherwise
	// win every generation by running to the step cap.
	DetectStalls bool

	recent    [STALL_WINDOW]Opcode
	recentLen int
	recentPos int
}

// NewMachine creates a machine with zeroed memory.
func NewMachine() (m *Machine) {
	m = &Machine{}

	return
}

// Load replaces the genome and working memory with the given program
// and resets the execution state.
func (m *Machine) Load(genome [MEM_SIZE]byte) {
	m.Genome = genome
	m.Memory = genome
	m.reset()
}

// Randomize loads a uniform-random program drawn from rng.
func (m *Machine) Randomize(rng *rand.Rand) {
	var genome [MEM_SIZE]byte
	for n := range genome {
		genome[n] = byte(rng.Uint32())
	}

	m.Load(genome)
}

// Rewind restores the working memory from the genome and resets the
// execution state, replaying the same program from the start.
func (m *Machine) Rewind() {
	m.Memory = m.Genome
	m.reset()
}

func (m *Machine) reset() {
	m.PC = 0
	m.Acc = 0
	m.Halted = false
	m.Steps = 0
	m.recentLen = 0
	m.recentPos = 0
}

// Step executes a single instruction. A no-op once the machine has
// halted. Step never fails: every opcode byte decodes to a defined
// effect, and every address wraps into memory.
func (m *Machine) Step() {
	if m.Halted {
		return
	}

	m.Steps++

	op := Decode(m.Memory[m.PC])
	addr := m.Memory[m.PC+1] // operand fetch wraps with the uint8 index

	if m.Verbose {
		if op.HasOperand() {
			log.Printf("%03d: %v %d acc=%d", m.PC, op, addr, m.Acc)
		} else {
			log.Printf("%03d: %v acc=%d", m.PC, op, m.Acc)
		}
	}

	switch op {
	case OP_NOP:
		m.PC += 1
	case OP_LDA:
		m.Acc = m.Memory[addr]
		m.PC += 2
	case OP_STA:
		m.Memory[addr] = m.Acc
		m.PC += 2
	case OP_ADD:
		m.Acc += m.Memory[addr]
		m.PC += 2
	case OP_SUB:
		m.Acc -= m.Memory[addr]
		m.PC += 2
	case OP_JMP:
		m.PC = addr
	case OP_JZ:
		if m.Acc == 0 {
			m.PC = addr
		} else {
			m.PC += 2
		}
	case OP_INC:
		m.Acc += 1
		m.PC += 1
	case OP_DEC:
		m.Acc -= 1
		m.PC += 1
	case OP_SWP:
		m.Acc, m.Memory[addr] = m.Memory[addr], m.Acc
		m.PC += 2
	case OP_CMP:
		// Absolute difference of the accumulator and the operand cell.
		val := m.Memory[addr]
		if m.Acc >= val {
			m.Acc = m.Acc - val
		} else {
			m.Acc = val - m.Acc
		}
		m.PC += 2
	case OP_HLT, OP_BAD:
		if m.Verbose && op == OP_BAD {
			log.Printf("%03d: halt on unrecognized opcode 0x%02x", m.PC, m.Memory[m.PC])
		}
		m.Halted = true
	}

	if m.DetectStalls && !m.Halted {
		m.noteOpcode(op)
	}
}

// noteOpcode records an executed opcode in the stall window.
func (m *Machine) noteOpcode(op Opcode) {
	m.recent[m.recentPos] = op
	m.recentPos = (m.recentPos + 1) % STALL_WINDOW
	if m.recentLen < STALL_WINDOW {
		m.recentLen++
	}
	if m.recentLen < STALL_WINDOW {
		return
	}

	distinct := map[Opcode]bool{}
	for _, seen := range m.recent {
		distinct[seen] = true
	}

	if len(distinct) <= STALL_DISTINCT {
		if m.Verbose {
			log.Printf("%03d: stalled on %d-opcode loop", m.PC, len(distinct))
		}
		m.Halted = true
		m.Steps = 0
	}
}
