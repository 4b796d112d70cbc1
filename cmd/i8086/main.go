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
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/andreas-jonsson/i8086-core/emulator/memory"
	"github.com/andreas-jonsson/i8086-core/version"
)

var appFs = afero.NewOsFs()

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "i8086",
		Short:        "8086 real-mode instruction execution engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("I86_LOG_LEVEL", "info"), "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(),
		newDisasmCommand(),
		newTraceCommand(),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "i8086 %s (%s)\n%s\n", version.Current.FullString(), version.Hash, version.Copyright)
		},
	}
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	return strconv.ParseUint(strings.TrimSuffix(s, "h"), 16, bits)
}

// parsePointer reads a hexadecimal physical address.
func parsePointer(s string) (memory.Pointer, error) {
	v, err := parseHex(s, 20)
	if err != nil {
		return 0, fmt.Errorf("invalid physical address: %s", s)
	}
	return memory.Pointer(v), nil
}

// parseAddress reads a hexadecimal seg:offset pair.
func parseAddress(s string) (memory.Address, error) {
	seg, offset, found := strings.Cut(s, ":")
	if !found {
		return 0, fmt.Errorf("expected seg:offset: %s", s)
	}
	sv, err := parseHex(seg, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid segment: %s", s)
	}
	ov, err := parseHex(offset, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid offset: %s", s)
	}
	return memory.NewAddress(uint16(sv), uint16(ov)), nil
}
