// Package cli wires the garuda command line: it parses arguments, loads the
// optional config file, reconciles and validates the result, and hands the
// final configuration to the attack engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/garuda-lt/garuda/internal/banner"
	"github.com/garuda-lt/garuda/internal/config"
	"github.com/garuda-lt/garuda/internal/engine"
	"github.com/garuda-lt/garuda/internal/output"
)

var version = "0.1.0"

// errFatal marks an error that was already reported to the operator; the
// process must exit 1 without printing anything further.
var errFatal = errors.New("fatal")

var (
	methodChoices = []string{config.MethodHTTPFlood, config.MethodSlowloris, config.MethodMixed}
	attackChoices = []string{config.MethodHTTPFlood, config.MethodSlowloris}
)

var console = output.NewConsole()

// session is the engine surface the bootstrap needs, kept narrow so tests can
// substitute a stub that never opens connections.
type session interface {
	Run(ctx context.Context) (*engine.Result, error)
	Stats() *engine.Stats
}

var newSession = func(cfg config.Resolved) (session, error) {
	return engine.New(cfg)
}

// Execute runs the root command against os.Args and returns the process exit
// code: 0 on success or a clean interruption, 1 on any fatal error, 2 on CLI
// usage errors.
func Execute() int {
	fmt.Print(banner.Disclaimer())
	return run(os.Args[1:])
}

func run(argv []string) int {
	cmd := newRootCmd()
	// A nil slice would make cobra fall back to os.Args.
	if argv == nil {
		argv = []string{}
	}
	cmd.SetArgs(argv)

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errFatal) {
			return 1
		}
		// Anything else out of cobra is a usage problem: unknown flag, bad
		// integer, invalid choice, too many positionals.
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Run 'garuda --help' for usage.")
		return 2
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "garuda [target]",
		Short:   "Advanced load-testing toolkit",
		Version: version,
		Long: `Garuda is an advanced load-testing toolkit for education and authorized
security testing. It drives http-flood and slowloris attack sessions against
a single target, configured from the command line, a YAML config file, or
both (CLI values override the file).`,
		Example: `  garuda --config config.example.yaml
  garuda http://target.example -m http-flood -c 500
  garuda --config config.yaml -c 1000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSession,
	}

	flags := cmd.Flags()
	flags.StringP("method", "m", "", "attack method: http-flood, slowloris or mixed")
	flags.String("config", "", "path to a YAML configuration file")
	flags.StringSlice("attacks", nil, "attacks to combine (mixed method only): http-flood, slowloris")
	flags.IntP("connections", "c", 0, "simultaneous connections per attack")
	flags.IntP("duration", "d", 0, "attack duration in seconds")
	flags.String("confirm-target", "", "restate the target hostname to guard against typos")
	flags.Bool("stealth", false, "enable stealth mode (http-flood only)")
	return cmd
}

func runSession(cmd *cobra.Command, posArgs []string) error {
	args, err := argsFromFlags(cmd, posArgs)
	if err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	fileCfg, err := config.LoadFile(configPath)
	if err != nil {
		console.Fatalf("%v", err)
		return errFatal
	}

	cfg := config.Resolve(fileCfg, args)
	if err := config.Validate(cfg); err != nil {
		console.Errorf("%v", err)
		return errFatal
	}

	sess, err := newSession(cfg)
	if err != nil {
		console.Fatalf("cannot start attack session: %v", err)
		return errFatal
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if output.IsTerminal(os.Stdout) {
		progCtx, progCancel := context.WithCancel(ctx)
		defer progCancel()
		go watchProgress(progCtx, sess, cfg)
	}

	result, err := sess.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Operator interrupt: the expected shutdown path, not an error.
			return nil
		}
		console.Fatalf("unexpected error during attack session: %v", err)
		return errFatal
	}

	printSummary(console, result)
	console.Successf("attack session completed normally")
	return nil
}

// argsFromFlags turns the parsed flag set into the sparse argument record.
// Presence is detected via Changed, never via zero values, so "not passed"
// stays distinguishable from an explicit zero or false. Choice validation for
// method and attacks happens here, before any other component runs.
func argsFromFlags(cmd *cobra.Command, posArgs []string) (config.Args, error) {
	flags := cmd.Flags()
	var args config.Args

	if len(posArgs) == 1 {
		target := posArgs[0]
		args.Target = &target
	}
	if flags.Changed("method") {
		m, _ := flags.GetString("method")
		if !isChoice(m, methodChoices) {
			return config.Args{}, fmt.Errorf("invalid choice %q for -m/--method (choose from %s)",
				m, strings.Join(methodChoices, ", "))
		}
		args.Method = &m
	}
	if flags.Changed("attacks") {
		list, _ := flags.GetStringSlice("attacks")
		for _, a := range list {
			if !isChoice(a, attackChoices) {
				return config.Args{}, fmt.Errorf("invalid choice %q for --attacks (choose from %s)",
					a, strings.Join(attackChoices, ", "))
			}
		}
		args.Attacks = list
	}
	if flags.Changed("connections") {
		c, _ := flags.GetInt("connections")
		args.Connections = &c
	}
	if flags.Changed("duration") {
		d, _ := flags.GetInt("duration")
		args.Duration = &d
	}
	if flags.Changed("confirm-target") {
		s, _ := flags.GetString("confirm-target")
		args.ConfirmTarget = &s
	}
	if flags.Changed("stealth") {
		v, _ := flags.GetBool("stealth")
		args.Stealth = &v
	}
	return args, nil
}

func isChoice(v string, choices []string) bool {
	for _, c := range choices {
		if v == c {
			return true
		}
	}
	return false
}

// watchProgress rewrites a single status line while the session runs. Only
// called when stdout is a terminal.
func watchProgress(ctx context.Context, sess session, cfg config.Resolved) {
	total := time.Duration(cfg.Duration) * time.Second
	start := time.Now()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(console.Out)
			return
		case <-ticker.C:
			st := sess.Stats()
			fmt.Fprintf(console.Out, "\r[%s/%s] held: %d | ok: %d | failed: %d   ",
				time.Since(start).Round(time.Second), total,
				st.Held(), st.Success(), st.Failure())
		}
	}
}

func printSummary(c *output.Console, res *engine.Result) {
	st := res.Stats
	fmt.Fprintf(c.Out, "\nSession %s finished in %s\n", res.ID, res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(c.Out, "  Requests OK : %d\n", st.Success())
	fmt.Fprintf(c.Out, "  Failures    : %d\n", st.Failure())
	if st.Success() > 0 {
		fmt.Fprintf(c.Out, "  Latency p50 : %s\n", st.LatencyAt(50).Round(time.Microsecond))
		fmt.Fprintf(c.Out, "  Latency p95 : %s\n", st.LatencyAt(95).Round(time.Microsecond))
		fmt.Fprintf(c.Out, "  Latency p99 : %s\n", st.LatencyAt(99).Round(time.Microsecond))
		fmt.Fprintf(c.Out, "  Latency max : %s\n", st.MaxLatency().Round(time.Microsecond))
	}
	if errCounts := st.ErrorCounts(); len(errCounts) > 0 {
		fmt.Fprintln(c.Out, "  Failure summary:")
		for msg, count := range errCounts {
			fmt.Fprintf(c.Out, "    %d x %s\n", count, msg)
		}
	}
}
