package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dramctl/config"
	"github.com/sarchlab/dramctl/datarecording"
	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/hooking"
)

// session is what every command runs against: settings, an emulated board,
// a controller, and the optional log and trace hooks.
type session struct {
	cfg      config.Config
	platform *emu.Platform
	ctrl     *dramc.Controller
	recorder datarecording.DataRecorder
	hooks    []hooking.Hook
	logger   *log.Logger
}

func newSession(cmd *cobra.Command, board emu.Builder) *session {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env")
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}

	if trace, _ := flags.GetString("trace"); trace != "" {
		cfg.TraceDB = trace
	}

	busyPolls, _ := flags.GetInt("busy-polls")
	board = board.WithBusyPolls(busyPolls)

	if stuck, _ := flags.GetBool("stuck"); stuck {
		board = board.WithStuckBusy()
	}

	s := &session{
		cfg:      cfg,
		platform: board.Build("Board"),
		logger:   log.New(os.Stderr, "", log.Lmicroseconds),
	}

	s.ctrl = dramc.MakeBuilder().
		WithBus(s.platform.Bank).
		WithMaxPolls(cfg.MaxPolls).
		WithPollInterval(cfg.PollInterval).
		Build("DRAMC")

	if verbose, _ := flags.GetBool("verbose"); verbose {
		s.hooks = append(s.hooks, hooking.NewLogHook(s.logger))
	}

	if cfg.TraceDB != "" {
		s.recorder = datarecording.New(cfg.TraceDB)
		trace := datarecording.NewTraceHook(s.recorder)
		s.hooks = append(s.hooks, trace)
		s.platform.Bank.AcceptHook(trace)
	}

	s.attach(s.ctrl)

	return s
}

// attach installs the session hooks on h.
func (s *session) attach(h hooking.Hookable) {
	for _, hook := range s.hooks {
		h.AcceptHook(hook)
	}
}

func (s *session) close() {
	if s.recorder == nil {
		return
	}

	if err := s.recorder.Close(); err != nil {
		s.logger.Printf("Error closing trace: %v", err)
	}
}

// fatal closes the session and exits.
func (s *session) fatal(format string, args ...any) {
	s.close()
	log.Fatalf(format, args...)
}
