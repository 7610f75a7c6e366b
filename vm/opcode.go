package vm

// Opcode is a recognized instruction byte.
type Opcode byte

const (
	OP_NOP = Opcode(0x00) // nop
	OP_LDA = Opcode(0x01) // lda
	OP_STA = Opcode(0x02) // sta
	OP_ADD = Opcode(0x03) // add
	OP_SUB = Opcode(0x04) // sub
	OP_JMP = Opcode(0x05) // jmp
	OP_JZ  = Opcode(0x06) // jz
	OP_INC = Opcode(0x07) // inc
	OP_DEC = Opcode(0x08) // dec
	OP_SWP = Opcode(0x09) // swp
	OP_CMP = Opcode(0x0a) // cmp
	OP_HLT = Opcode(0xff) // hlt

	// OP_BAD is the decode of every unrecognized opcode byte.
	// It halts the machine, identically to OP_HLT.
	OP_BAD = Opcode(0xfe) // ???
)

var _opcode_name = map[Opcode]string{
	OP_NOP: "nop",
	OP_LDA: "lda",
	OP_STA: "sta",
	OP_ADD: "add",
	OP_SUB: "sub",
	OP_JMP: "jmp",
	OP_JZ:  "jz",
	OP_INC: "inc",
	OP_DEC: "dec",
	OP_SWP: "swp",
	OP_CMP: "cmp",
	OP_HLT: "hlt",
}

// Decode maps an arbitrary memory byte to the closed opcode set.
// Bytes outside the instruction set decode to OP_BAD, never fail.
func Decode(value byte) (op Opcode) {
	op = Opcode(value)
	if _, ok := _opcode_name[op]; !ok {
		op = OP_BAD
	}

	return
}

// HasOperand returns true if the opcode consumes an operand byte.
func (op Opcode) HasOperand() bool {
	switch op {
	case OP_LDA, OP_STA, OP_ADD, OP_SUB, OP_JMP, OP_JZ, OP_SWP, OP_CMP:
		return true
	}

	return false
}

// String returns the mnemonic for the opcode.
func (op Opcode) String() (name string) {
	name, ok := _opcode_name[op]
	if !ok {
		name = "???"
	}

	return
}
