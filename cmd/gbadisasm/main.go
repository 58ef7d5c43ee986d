package main

import (
	"fmt"
	"os"
	"strconv"

	"gbacore/internal/bus"
	"gbacore/internal/config"
	"gbacore/internal/cpu"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gbadisasm",
		Short: "ARM7TDMI debug harness — step, disassemble, and inspect registers",
	}

	var biosPath string
	var romPath string
	var skipBIOS bool
	var startPC string

	buildCore := func() (*bus.Bus, *cpu.CPU, error) {
		opts := []config.Option{config.WithROM(romPath)}
		if biosPath != "" {
			opts = append(opts, config.WithBIOS(biosPath))
		}
		if skipBIOS {
			pc := uint32(0x08000000)
			if startPC != "" {
				v, err := strconv.ParseUint(startPC, 0, 32)
				if err != nil {
					return nil, nil, fmt.Errorf("invalid --start-pc %q: %w", startPC, err)
				}
				pc = uint32(v)
			}
			opts = append(opts, config.WithSkipBIOS(pc))
		}
		return config.New(opts...).Build()
	}

	var stepCount int
	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "Step the CPU N times and print each instruction's address and cycle cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, core, err := buildCore()
			if err != nil {
				return err
			}
			for i := 0; i < stepCount; i++ {
				addr, cost := core.DebugStep()
				fmt.Printf("%04d: pc=0x%08X cycles=%d\n", i, addr, uint32(cost))
			}
			return nil
		},
	}
	stepCmd.Flags().IntVar(&stepCount, "count", 1, "Number of instructions to step")

	var disasmCount int
	disasmCmd := &cobra.Command{
		Use:   "disasm",
		Short: "Decode up to N instructions from the current PC without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, core, err := buildCore()
			if err != nil {
				return err
			}
			for _, line := range core.DecodeUntilBranch(disasmCount) {
				fmt.Println(line)
			}
			return nil
		},
	}
	disasmCmd.Flags().IntVar(&disasmCount, "count", 16, "Maximum instructions to decode")

	regsCmd := &cobra.Command{
		Use:   "regs",
		Short: "Print the register file after building the core",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, core, err := buildCore()
			if err != nil {
				return err
			}
			rf := core.Registers()
			for i := 0; i < 16; i++ {
				fmt.Printf("r%-2d = 0x%08X\n", i, rf.Get(uint8(i), rf.CPSR().OpMode()))
			}
			fmt.Printf("cpsr = 0x%08X (%s)\n", uint32(*rf.CPSR()), rf.CPSR().OpMode())
			return nil
		},
	}

	for _, c := range []*cobra.Command{stepCmd, disasmCmd, regsCmd} {
		c.Flags().StringVar(&biosPath, "bios", "", "Path to a 16KB GBA BIOS image")
		c.Flags().StringVar(&romPath, "rom", "", "Path to the cartridge ROM image")
		c.Flags().BoolVar(&skipBIOS, "skip-bios", true, "Skip the BIOS boot sequence")
		c.Flags().StringVar(&startPC, "start-pc", "", "Initial PC when --skip-bios is set (e.g. 0x08000000)")
		c.MarkFlagRequired("rom")
	}

	rootCmd.AddCommand(stepCmd, disasmCmd, regsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
