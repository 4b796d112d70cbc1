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
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreas-jonsson/i8086-core/emulator/processor/validator"
)

func newTraceCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Print an instruction trace recorded with run --trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := appFs.Open(args[0])
			if err != nil {
				return err
			}
			defer fp.Close()

			events, err := validator.ReadAll(fp)
			if err != nil {
				return err
			}
			if limit > 0 && len(events) > limit {
				events = events[:limit]
			}

			for _, ev := range events {
				var writes strings.Builder
				for _, w := range ev.Writes {
					fmt.Fprintf(&writes, " [%v]=%02X", w.Addr, w.Data)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %02X  reads=%d%s\n", ev.At, ev.Opcode, len(ev.Reads), writes.String())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n events")
	return cmd
}
