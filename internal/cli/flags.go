package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/seanmcadam/dns-config-changer/internal/config"
)

// Flags captures the raw command line before defaults are applied.
type Flags struct {
	Target   OptionalString
	BaseDir  OptionalString
	ConfDir  OptionalString
	Attempts OptionalInt
	Timeout  OptionalDuration
	DryRun   OptionalBool
	Stdout   OptionalBool
	Debug    OptionalBool
	LogFile  OptionalString
	Version  bool
}

// Parse reads the command line. It returns flag.ErrHelp when -h was given;
// the flag set has already printed usage to errOut in that case.
func Parse(name string, args []string, errOut io.Writer) (Flags, error) {
	var f Flags

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Var(&f.Target, "t", "reachability target address or hostname")
	fs.Var(&f.BaseDir, "B", "directory containing the named.conf symlink and target files")
	fs.Var(&f.ConfDir, "C", "directory containing only the named.conf symlink (defaults to -B)")
	fs.Var(&f.Attempts, "r", "probe attempts before the target is declared unreachable")
	fs.Var(&f.Timeout, "W", "per-attempt probe timeout (e.g. 2s, 500ms)")
	fs.Var(&f.DryRun, "n", "dry run: evaluate and log, change nothing")
	fs.Var(&f.Stdout, "S", "log to standard output instead of the system log")
	fs.Var(&f.Debug, "d", "enable debug logging")
	fs.Var(&f.LogFile, "L", "also append logs to this rotating file")
	fs.BoolVar(&f.Version, "V", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(errOut, "usage: %s [options]\n\n", name)
		fmt.Fprintf(errOut, "Checks reachability of a target and fails the name-server\n")
		fmt.Fprintf(errOut, "configuration over (or back) by repointing %s.\n\n", config.IndirectionName)
		fmt.Fprintln(errOut, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return Flags{}, fmt.Errorf("unexpected argument: %q", fs.Arg(0))
	}
	return f, nil
}

// Overrides converts the parsed flags into configuration overrides.
func (f *Flags) Overrides() config.Overrides {
	return config.Overrides{
		Target:        f.Target.Ptr(),
		BaseDir:       f.BaseDir.Ptr(),
		ConfDir:       f.ConfDir.Ptr(),
		ProbeTimeout:  f.Timeout.Ptr(),
		ProbeAttempts: f.Attempts.Ptr(),
		DryRun:        f.DryRun.Ptr(),
		LogToStdout:   f.Stdout.Ptr(),
		Debug:         f.Debug.Ptr(),
		LogFile:       f.LogFile.Ptr(),
	}
}
