// Package vm implements the 8-bit virtual machine evolved by primeval.
//
// A Machine owns 256 bytes of circular memory, a program counter, an
// accumulator, and a halted flag. The instruction set is twelve opcodes
// over single-byte operands; every one of the 256 possible opcode bytes
// has a defined effect, so any memory image is a runnable program.
package vm
