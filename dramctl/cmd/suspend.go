package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/integrity"
	"github.com/sarchlab/dramctl/standby"
)

var suspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Run a suspend and resume cycle.",
	Long: "`suspend` saves the clock and host port configuration, puts the " +
		"DRAM into self-refresh, resumes and restores. With --check, DRAM " +
		"contents are summed before and after.",
	Run: func(cmd *cobra.Command, _ []string) {
		check, _ := cmd.Flags().GetBool("check")
		corrupt, _ := cmd.Flags().GetBool("corrupt")

		s := newSession(cmd, emu.MakeBuilder())
		defer s.close()

		builder := standby.MakeBuilder().WithController(s.ctrl)
		if check || corrupt {
			if err := s.platform.FillDRAM(1, s.cfg.CheckSize); err != nil {
				s.fatal("Error filling DRAM: %v", err)
			}

			checker := integrity.NewChecker(s.platform.DRAM, s.cfg.Window())
			builder = builder.WithIntegrityChecker(checker)
		}

		seq := builder.Build("Standby")
		s.attach(seq)

		state, err := seq.Suspend()
		if err != nil {
			s.fatal("Error suspending: %v", err)
		}

		fmt.Printf("Suspended: %s, DRAM %s\n", state, s.ctrl.State())

		if corrupt {
			if err := s.platform.CorruptDRAM(s.cfg.CheckBase); err != nil {
				s.fatal("Error corrupting DRAM: %v", err)
			}
		}

		if err := seq.Resume(state); err != nil {
			s.fatal("Error resuming: %v", err)
		}

		fmt.Printf("Resumed: DRAM %s\n", s.ctrl.State())

		if res := seq.LastIntegrity(); res != nil {
			fmt.Println(res)
		}
	},
}

func init() {
	rootCmd.AddCommand(suspendCmd)
	suspendCmd.Flags().Bool("check", false, "Checksum DRAM around the cycle")
	suspendCmd.Flags().Bool("corrupt", false,
		"Flip a DRAM word while suspended to show a checksum mismatch")
}
