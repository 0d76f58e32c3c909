package main

import (
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <machine> [tape]",
	Short: "Run a machine on a tape",
	Long: `Runs a machine (a .turingmach file or the name of a stored machine) against
a tape file, printing the tape around the head after every step.

Steps fire no faster than the configured step delay. Use --fast to run to the
halt without waiting.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{
			Machine:       args[0],
			DefaultSymbol: cfg.DefaultSymbol,
			StepDelay:     cfg.StepDelay,
			MaxSteps:      cfg.MaxSteps,
			Out:           cmd.OutOrStdout(),
			Logger:        logger,
		}
		if len(args) > 1 {
			opts.TapePath = args[1]
		}
		if cmd.Flags().Changed("delay") {
			opts.StepDelay, _ = cmd.Flags().GetDuration("delay")
		}
		if cmd.Flags().Changed("max-steps") {
			opts.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
		}
		opts.Fast, _ = cmd.Flags().GetBool("fast")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.GraphPath, _ = cmd.Flags().GetString("graph")

		if !opts.Quiet && cli.IsTerminal(opts.Out) {
			tui.PrintBanner(opts.Out)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		_, err := cli.Run(sigCtx, store, opts)
		cli.ReportInterrupt(cmd.ErrOrStderr(), sigCtx.Signal())
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("delay", 0, "Delay between steps (overrides step_delay)")
	runCmd.Flags().Int("max-steps", 0, "Stop after this many steps (overrides max_steps)")
	runCmd.Flags().Bool("fast", false, "Run to the halt without step delays")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the final tape")
	runCmd.Flags().String("graph", "", "Write a Mermaid graph of the visited states to this file")
}
