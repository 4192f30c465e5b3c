// Package config loads the tool settings from a .env file and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/jpillora/backoff"

	"github.com/sarchlab/dramctl/emu"
	"github.com/sarchlab/dramctl/integrity"
	"github.com/sarchlab/dramctl/retrain"
	"github.com/sarchlab/dramctl/timing"
)

// Environment keys.
const (
	KeyMaxPolls        = "DRAMCTL_MAX_POLLS"
	KeyPollInterval    = "DRAMCTL_POLL_INTERVAL"
	KeyRetrainAttempts = "DRAMCTL_RETRAIN_ATTEMPTS"
	KeyBackoffMin      = "DRAMCTL_RETRAIN_BACKOFF_MIN"
	KeyBackoffMax      = "DRAMCTL_RETRAIN_BACKOFF_MAX"
	KeyCheckBase       = "DRAMCTL_CHECK_BASE"
	KeyCheckSize       = "DRAMCTL_CHECK_SIZE"
	KeyTraceDB         = "DRAMCTL_TRACE_DB"
	KeyMonitorPort     = "DRAMCTL_MONITOR_PORT"
)

// Keys lists every key the loader reads.
var Keys = []string{
	KeyMaxPolls,
	KeyPollInterval,
	KeyRetrainAttempts,
	KeyBackoffMin,
	KeyBackoffMax,
	KeyCheckBase,
	KeyCheckSize,
	KeyTraceDB,
	KeyMonitorPort,
}

// ErrInvalidConfig is returned for values that fail to parse or validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the tool settings.
type Config struct {
	MaxPolls        int
	PollInterval    uint32
	RetrainAttempts int
	BackoffMin      time.Duration
	BackoffMax      time.Duration
	CheckBase       uint64
	CheckSize       uint64
	TraceDB         string
	MonitorPort     int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		MaxPolls:        timing.DefaultMaxPolls,
		RetrainAttempts: retrain.DefaultMaxAttempts,
		BackoffMin:      100 * time.Microsecond,
		BackoffMax:      10 * time.Millisecond,
		CheckBase:       emu.DefaultDRAMBase,
		CheckSize:       emu.DefaultDRAMSize,
	}
}

// Load reads path as a .env file, lets the process environment override it
// and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	values := map[string]string{}

	if path != "" {
		fileValues, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}

		for k, v := range fileValues {
			values[k] = v
		}
	}

	for _, k := range Keys {
		if v, ok := os.LookupEnv(k); ok {
			values[k] = v
		}
	}

	return FromMap(values)
}

// FromMap builds a Config from key-value pairs on top of Default.
func FromMap(values map[string]string) (Config, error) {
	c := Default()
	p := parser{values: values}

	p.intVar(KeyMaxPolls, &c.MaxPolls)
	p.uint32Var(KeyPollInterval, &c.PollInterval)
	p.intVar(KeyRetrainAttempts, &c.RetrainAttempts)
	p.durationVar(KeyBackoffMin, &c.BackoffMin)
	p.durationVar(KeyBackoffMax, &c.BackoffMax)
	p.uint64Var(KeyCheckBase, &c.CheckBase)
	p.uint64Var(KeyCheckSize, &c.CheckSize)
	p.stringVar(KeyTraceDB, &c.TraceDB)
	p.intVar(KeyMonitorPort, &c.MonitorPort)

	if p.err != nil {
		return Config{}, p.err
	}

	return c, c.Validate()
}

// Validate checks the value ranges.
func (c Config) Validate() error {
	switch {
	case c.MaxPolls <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyMaxPolls)
	case c.RetrainAttempts <= 0:
		return fmt.Errorf("%w: %s must be positive",
			ErrInvalidConfig, KeyRetrainAttempts)
	case c.BackoffMin < 0 || c.BackoffMax < c.BackoffMin:
		return fmt.Errorf("%w: backoff range [%s, %s]",
			ErrInvalidConfig, c.BackoffMin, c.BackoffMax)
	case c.CheckSize%4 != 0 || c.CheckBase%4 != 0:
		return fmt.Errorf("%w: checksum window must be word aligned",
			ErrInvalidConfig)
	case c.MonitorPort < 0 || c.MonitorPort > 65535:
		return fmt.Errorf("%w: %s out of range", ErrInvalidConfig, KeyMonitorPort)
	}

	return nil
}

// Policy returns the retraining policy.
func (c Config) Policy() retrain.Policy {
	return retrain.Policy{
		MaxAttempts: c.RetrainAttempts,
		Backoff: &backoff.Backoff{
			Min:    c.BackoffMin,
			Max:    c.BackoffMax,
			Factor: 2,
		},
	}
}

// Window returns the DRAM range covered by the integrity check.
func (c Config) Window() integrity.Window {
	return integrity.Window{Base: c.CheckBase, Size: c.CheckSize}
}

type parser struct {
	values map[string]string
	err    error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	v, ok := p.values[key]

	return v, ok && v != ""
}

func (p *parser) fail(key, value string, err error) {
	p.err = fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
}

func (p *parser) intVar(key string, dst *int) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}

		*dst = n
	}
}

func (p *parser) uint32Var(key string, dst *uint32) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			p.fail(key, v, err)
			return
		}

		*dst = uint32(n)
	}
}

func (p *parser) uint64Var(key string, dst *uint64) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}

		*dst = n
	}
}

func (p *parser) durationVar(key string, dst *time.Duration) {
	if v, ok := p.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}

		*dst = d
	}
}

func (p *parser) stringVar(key string, dst *string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}
