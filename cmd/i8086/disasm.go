/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/andreas-jonsson/i8086-core/emulator/disasm"
	"github.com/andreas-jonsson/i8086-core/emulator/memory"
)

func newDisasmCommand() *cobra.Command {
	var (
		origin string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "disasm <image>",
		Short: "Disassemble a binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(appFs, args[0])
			if err != nil {
				return err
			}
			at, err := parseAddress(origin)
			if err != nil {
				return err
			}

			mem := &memory.RAM{}
			for i, v := range data {
				mem.WriteByte(memory.NewPointer(at.Segment(), at.Offset()+uint16(i)), v)
			}

			c := disasm.NewCursor(memory.NewSegmentedBus(mem), at)
			for n, consumed := 0, 0; consumed < len(data) && (count <= 0 || n < count); n++ {
				ln := c.Next()
				consumed += len(ln.Bytes)
				fmt.Fprintln(cmd.OutOrStdout(), ln)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "0000:0100", "seg:offset of the first byte")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of instructions, 0 disassembles the whole image")
	return cmd
}
