package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/retrain"
)

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Rebuild the controller configuration and retrain the read pipe.",
	Long: "`retrain` replays the saved controller configuration until the " +
		"read-pipe scan passes. --fail-first makes the first scans fail.",
	Run: func(cmd *cobra.Command, _ []string) {
		failFirst, _ := cmd.Flags().GetInt("fail-first")

		s := newSession(cmd, emu.MakeBuilder().WithFailingScans(failFirst))
		defer s.close()

		policy := s.cfg.Policy()
		if cmd.Flags().Changed("max-attempts") {
			policy.MaxAttempts, _ = cmd.Flags().GetInt("max-attempts")
		}

		seq := retrain.MakeBuilder().
			WithController(s.ctrl).
			WithScanner(s.platform.Scanner).
			WithPolicy(policy).
			Build("Retrain")
		s.attach(seq)

		res, err := seq.Run()
		if err != nil {
			s.fatal("Error retraining: %v", err)
		}

		fmt.Printf("Retrained after %d attempt(s): DRAM %s\n",
			res.Attempts, s.ctrl.State())
	},
}

func init() {
	rootCmd.AddCommand(retrainCmd)
	retrainCmd.Flags().Int("fail-first", 0, "Number of scans that fail")
	retrainCmd.Flags().Int("max-attempts", retrain.DefaultMaxAttempts,
		"Attempts before giving up")
}
