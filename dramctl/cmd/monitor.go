package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/monitoring"
	"github.com/sarchlab/dramctl/retrain"
	"github.com/sarchlab/dramctl/standby"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Serve the controller state over HTTP.",
	Long: "`monitor` starts the monitoring server, runs a suspend cycle " +
		"and a retraining run, and keeps serving until interrupted.",
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		open, _ := flags.GetBool("open")

		s := newSession(cmd, emu.MakeBuilder().WithFailingScans(2))
		defer s.close()

		port := s.cfg.MonitorPort
		if flags.Changed("port") {
			port, _ = flags.GetInt("port")
		}

		m := monitoring.NewMonitor().WithPortNumber(port).WithBrowser(open)
		m.RegisterController(s.ctrl)

		suspend := standby.MakeBuilder().WithController(s.ctrl).Build("Standby")
		retrainer := retrain.MakeBuilder().
			WithController(s.ctrl).
			WithScanner(s.platform.Scanner).
			WithPolicy(s.cfg.Policy()).
			Build("Retrain")

		for _, c := range []hooking.Hookable{suspend, retrainer} {
			s.attach(c)
			m.RegisterComponent(c)
		}

		if _, err := m.StartServer(); err != nil {
			s.fatal("Error starting monitor: %v", err)
		}

		state, err := suspend.Suspend()
		if err != nil {
			s.fatal("Error suspending: %v", err)
		}

		if err := suspend.Resume(state); err != nil {
			s.fatal("Error resuming: %v", err)
		}

		runRetrain(m, retrainer)

		fmt.Fprintln(os.Stderr, "Sequences done, press Ctrl-C to exit")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
	},
}

// runRetrain runs retrainer with a progress bar on the monitor page.
func runRetrain(m *monitoring.Monitor, retrainer *retrain.Sequencer) {
	bar := m.CreateProgressBar("Retrain attempts",
		uint64(retrainer.Policy().MaxAttempts))
	defer m.CompleteProgressBar(bar)

	retrainer.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
		switch ctx.Pos {
		case retrain.HookPosAttempt:
			bar.IncrementInProgress(1)
		case retrain.HookPosScan:
			bar.MoveInProgressToFinished(1)
		}
	}))

	res, err := retrainer.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Retraining failed: %v\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "Retrained after %d attempt(s)\n", res.Attempts)
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().Int("port", 0, "Server port, 0 picks a free one")
	monitorCmd.Flags().Bool("open", false, "Open the page in a browser")
}
