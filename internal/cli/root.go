package cli

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/portcheck/internal/config"
	"github.com/lu-zhengda/portcheck/internal/port"
	"github.com/lu-zhengda/portcheck/internal/process"
	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

// deps are the collaborators a run needs. Tests swap them for mocks.
type deps struct {
	runner    port.CmdRunner
	newLookup func(runner port.CmdRunner, bin string) port.Lookup
}

func defaultDeps() deps {
	return deps{
		runner:    &port.RealCmdRunner{},
		newLookup: port.NewDefault,
	}
}

type options struct {
	port       portValue
	configPath string
	jsonOutput bool
	details    bool
}

func newRootCmd(d deps) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "portcheck",
		Short: "Show which process is listening on a TCP port",
		Long: `portcheck reports the process (name, pid and user) listening on a
TCP port, or that the port is free.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceErrors: true, // main prints the error
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags parsed fine; later failures are not usage errors.
			cmd.SilenceUsage = true
			return run(cmd, d, opts)
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("portcheck %s\n", version))
	cmd.CompletionOptions.DisableDefaultCmd = true
	opts.port = portValue(port.DefaultPort)
	cmd.Flags().VarP(&opts.port, "port", "p", "TCP port to check")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/portcheck/config.yaml)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.details, "details", false, "Show parent PID, start time and command line of the listener")

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd(defaultDeps()).Execute()
}

func run(cmd *cobra.Command, d deps, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	p := port.Port(cfg.Port)
	if cmd.Flags().Changed("port") {
		p = port.Port(opts.port)
	}

	rep := newReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.ColorEnabled, opts.jsonOutput)
	rep.checking(p)

	ctx := context.Background()
	info, err := d.newLookup(d.runner, cfg.LsofPath).Lookup(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to look up port %d: %w", p, err)
	}

	res := result{port: p, info: info}
	if info != nil && opts.details {
		res.details, res.detailsErr = process.NewInfoFetcher(d.runner).GetDetails(ctx, info.PID)
	}

	return rep.report(res)
}
