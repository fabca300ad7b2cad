package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Well-known file names inside the configuration directories.
const (
	IndirectionName = "named.conf"
	PrimaryName     = "named.primary.conf"
	AlternateName   = "named.alternate.conf"
)

// Baseline settings used before CLI overrides are applied.
const (
	DefaultTarget        = "8.8.8.8"
	DefaultBaseDir       = "/var/named"
	DefaultProbeAttempts = 3
	DefaultProbeTimeout  = 2 * time.Second
)

// DefaultReloadCommand returns the fixed name-server reload command line.
// No element is ever derived from program input.
func DefaultReloadCommand() []string {
	return []string{"rndc", "reload"}
}

// RunConfig holds every setting for a single reconciliation pass. It is
// assembled once at startup and passed by value; components never mutate it.
type RunConfig struct {
	// Target is the address or hostname probed for reachability.
	Target string

	// BaseDir contains the primary and alternate target files. It also
	// contains the indirection symlink unless ConfDir overrides that.
	BaseDir string

	// ConfDir, when non-empty, contains the indirection symlink.
	ConfDir string

	// ProbeTimeout bounds each probe attempt.
	ProbeTimeout time.Duration

	// ProbeAttempts is the number of probe attempts before the target is
	// declared unreachable. The first success short-circuits the rest.
	ProbeAttempts int

	// DryRun evaluates and logs but performs no filesystem or service change.
	DryRun bool

	Debug       bool
	LogToStdout bool
	LogFile     string

	// ReloadCommand is invoked after a successful switch.
	ReloadCommand []string
}

// Default returns the RunConfig used when no flag overrides anything.
func Default() RunConfig {
	return RunConfig{
		Target:        DefaultTarget,
		BaseDir:       DefaultBaseDir,
		ProbeTimeout:  DefaultProbeTimeout,
		ProbeAttempts: DefaultProbeAttempts,
		ReloadCommand: DefaultReloadCommand(),
	}
}

// Overrides holds optional CLI values. A nil field leaves the default alone.
type Overrides struct {
	Target        *string
	BaseDir       *string
	ConfDir       *string
	ProbeTimeout  *time.Duration
	ProbeAttempts *int
	DryRun        *bool
	LogToStdout   *bool
	Debug         *bool
	LogFile       *string
}

// WithOverrides returns a copy of c with every set override applied.
func (c RunConfig) WithOverrides(o Overrides) RunConfig {
	if o.Target != nil {
		c.Target = *o.Target
	}
	if o.BaseDir != nil {
		c.BaseDir = *o.BaseDir
	}
	if o.ConfDir != nil {
		c.ConfDir = *o.ConfDir
	}
	if o.ProbeTimeout != nil {
		c.ProbeTimeout = *o.ProbeTimeout
	}
	if o.ProbeAttempts != nil {
		c.ProbeAttempts = *o.ProbeAttempts
	}
	if o.DryRun != nil {
		c.DryRun = *o.DryRun
	}
	if o.LogToStdout != nil {
		c.LogToStdout = *o.LogToStdout
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	if o.LogFile != nil {
		c.LogFile = *o.LogFile
	}
	return c
}

// IndirectionPath is the location of the named.conf symlink.
func (c RunConfig) IndirectionPath() string {
	dir := c.ConfDir
	if dir == "" {
		dir = c.BaseDir
	}
	return filepath.Join(dir, IndirectionName)
}

// PrimaryPath is the nominal configuration file.
func (c RunConfig) PrimaryPath() string {
	return filepath.Join(c.BaseDir, PrimaryName)
}

// AlternatePath is the failover configuration file.
func (c RunConfig) AlternatePath() string {
	return filepath.Join(c.BaseDir, AlternateName)
}

// Validate rejects settings no run could make sense of.
func (c RunConfig) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("probe target must not be empty")
	}
	if c.BaseDir == "" {
		return fmt.Errorf("base directory must not be empty")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.ProbeAttempts < 1 {
		return fmt.Errorf("probe attempts must be at least 1, got %d", c.ProbeAttempts)
	}
	if len(c.ReloadCommand) == 0 {
		return fmt.Errorf("reload command must not be empty")
	}
	return nil
}
