package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/hostport"
)

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Show or change a host port.",
	Long: "`port --port N` prints the gate and FIFO state of a host port. " +
		"--enable, --disable, --priority, --wait and --cmd change it first.",
	Run: func(cmd *cobra.Command, _ []string) {
		flags := cmd.Flags()
		port, _ := flags.GetInt("port")

		s := newSession(cmd, emu.MakeBuilder())
		defer s.close()

		gate := s.ctrl.Gate()

		status, err := gate.Read(port)
		if err != nil {
			s.fatal("Error reading port: %v", err)
		}

		if flags.Changed("priority") || flags.Changed("wait") ||
			flags.Changed("cmd") {
			cfg := status.Config
			if flags.Changed("priority") {
				cfg.Priority, _ = flags.GetUint32("priority")
			}

			if flags.Changed("wait") {
				cfg.WaitCycles, _ = flags.GetUint32("wait")
			}

			if flags.Changed("cmd") {
				cfg.CmdCount, _ = flags.GetUint32("cmd")
			}

			if err := gate.Configure(port, cfg); err != nil {
				s.fatal("Error configuring port: %v", err)
			}
		}

		enable, _ := flags.GetBool("enable")
		disable, _ := flags.GetBool("disable")

		switch {
		case enable && disable:
			s.fatal("Error: --enable and --disable are exclusive")
		case enable || disable:
			if err := gate.SetEnabled(port, enable); err != nil {
				s.fatal("Error gating port: %v", err)
			}
		}

		printPort(gate, port)
	},
}

func printPort(gate *hostport.Gate, port int) {
	status, err := gate.Read(port)
	if err != nil {
		return
	}

	empty, _ := gate.FIFOEmpty(port)

	fmt.Printf("Port %d: enabled=%t priority=%d wait=%d cmd=%d "+
		"fifo-empty=%t raw=0x%08x\n",
		port, status.Enabled, status.Priority, status.WaitCycles,
		status.CmdCount, empty, status.Raw)
}

func init() {
	rootCmd.AddCommand(portCmd)

	flags := portCmd.Flags()
	flags.Int("port", 0, "Host port index (0-31)")
	flags.Bool("enable", false, "Enable the port")
	flags.Bool("disable", false, "Disable the port")
	flags.Uint32("priority", 0, "Arbitration priority (0-3)")
	flags.Uint32("wait", 0, "Wait cycles (0-15)")
	flags.Uint32("cmd", 0, "Outstanding command count (0-3)")
}
