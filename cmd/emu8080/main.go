package main

import (
	"fmt"
	"os"

	"github.com/go8080/emu8080/pkg/cpu"
	"github.com/go8080/emu8080/pkg/hooks"
	"github.com/go8080/emu8080/pkg/machine"
	"github.com/go8080/emu8080/pkg/monitor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	var columns int
	var noBanner bool

	rootCmd := &cobra.Command{
		Use:   "emu8080 [hexfile]",
		Short: "Interactive 8080A microprocessor emulator and monitor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if columns <= 0 {
				columns = detectColumns()
			}
			m := machine.New(columns)
			console := hooks.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
			files := hooks.NewFileService(cmd.OutOrStdout())
			c := cpu.New(m, hooks.Build(console, files))
			c.Disasm = cpu.Disassemble
			c.TraceOut = func(line string) { fmt.Fprintln(cmd.OutOrStdout(), line) }

			mon := monitor.New(c, cmd.InOrStdin(), cmd.OutOrStdout())

			if !noBanner {
				fmt.Fprintln(cmd.OutOrStdout(), "\n--- Emulator for Intel 8080A microprocessor ---")
			}

			if len(args) == 1 {
				if err := mon.LoadFile(args[0]); err != nil {
					return err
				}
			}

			mon.Run()
			return nil
		},
	}

	rootCmd.Flags().IntVar(&columns, "columns", 0, "console wrap width (0 = auto-detect)")
	rootCmd.Flags().BoolVar(&noBanner, "no-banner", false, "suppress the startup banner")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// detectColumns asks the terminal for its width, falling back to the
// Machine's own default (80) when stdout isn't a terminal.
func detectColumns() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}
