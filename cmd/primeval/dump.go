package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezrec/primeval/config"
	"github.com/ezrec/primeval/store"
	"github.com/ezrec/primeval/vm"
)

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [program]",
		Short: "List a stored program as mnemonics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.PROGRAM_PATH_DEFAULT
			if len(args) == 1 {
				path = args[0]
			}

			sf := &store.File{Path: path}
			prog, ok, err := sf.Load()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%v: no stored program", path)
			}

			out := cmd.OutOrStdout()
			for addr := 0; addr < len(prog); {
				op := vm.Decode(prog[addr])
				switch {
				case op.HasOperand():
					// Operand fetch wraps at the end of memory.
					operand := prog[(addr+1)%len(prog)]
					fmt.Fprintf(out, "%03d: %02x %02x  %v %d\n",
						addr, prog[addr], operand, op, operand)
					addr += 2
				default:
					fmt.Fprintf(out, "%03d: %02x     %v\n", addr, prog[addr], op)
					addr += 1
				}
			}

			return nil
		},
	}

	return cmd
}
