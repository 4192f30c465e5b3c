package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/emu"
)

type lowPowerMode struct {
	name  string
	enter func(*dramc.Controller) error
	exit  func(*dramc.Controller) error
}

func lowPowerCmd(use, short string, mode lowPowerMode) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, _ []string) {
			s := newSession(cmd, emu.MakeBuilder())
			defer s.close()

			if err := mode.enter(s.ctrl); err != nil {
				s.fatal("Error entering %s: %v", mode.name, err)
			}

			fmt.Printf("Entered %s: DRAM %s\n", mode.name, s.ctrl.State())

			if err := mode.exit(s.ctrl); err != nil {
				s.fatal("Error exiting %s: %v", mode.name, err)
			}

			fmt.Printf("Exited %s: DRAM %s\n", mode.name, s.ctrl.State())
		},
	}
}

func init() {
	rootCmd.AddCommand(lowPowerCmd("selfrefresh",
		"Enter and exit self-refresh.",
		lowPowerMode{
			name:  "self-refresh",
			enter: (*dramc.Controller).EnterSelfRefresh,
			exit:  (*dramc.Controller).ExitSelfRefresh,
		}))

	rootCmd.AddCommand(lowPowerCmd("powerdown",
		"Enter and exit power-down.",
		lowPowerMode{
			name:  "power-down",
			enter: (*dramc.Controller).EnterPowerDown,
			exit:  (*dramc.Controller).ExitPowerDown,
		}))
}
