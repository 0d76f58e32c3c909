package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/editor"
	"github.com/spf13/cobra"
)

var machineCmd = &cobra.Command{
	Use:     "machine",
	Aliases: []string{"m"},
	Short:   "Manage stored machines",
}

var machineListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored machines",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListMachines(cmd.Context(), store, cmd.OutOrStdout())
	},
}

var machineInspectCmd = &cobra.Command{
	Use:   "inspect <machine>",
	Short: "Describe a machine's states and transitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var render func(string) (string, error)
		if raw, _ := cmd.Flags().GetBool("raw"); !raw && cli.IsTerminal(cmd.OutOrStdout()) {
			render = tui.NewRenderer()
		}
		return cli.InspectMachine(cmd.Context(), store, args[0], cmd.OutOrStdout(), render)
	},
}

var machineImportCmd = &cobra.Command{
	Use:   "import <file> [name]",
	Short: "Store a machine file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		stored, err := cli.ImportMachine(cmd.Context(), store, args[0], name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", stored)
		return nil
	},
}

var machineExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a stored machine to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ExportMachine(cmd.Context(), store, args[0], args[1])
	},
}

var machineRemoveCmd = &cobra.Command{
	Use:     "rm <name>...",
	Aliases: []string{"delete"},
	Short:   "Delete stored machines",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

var machineNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Store an empty machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newEditor().Create(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
		return nil
	},
}

var machineAddStateCmd = &cobra.Command{
	Use:   "add-state <name> <x> <y>",
	Short: "Add a state at a layout position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.AddState(cmd.Context(), newEditor(), args[0], args[1], args[2], cmd.OutOrStdout())
	},
}

var machineRemoveStateCmd = &cobra.Command{
	Use:   "rm-state <name> <id>",
	Short: "Remove a state and every transition touching it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RemoveState(cmd.Context(), newEditor(), args[0], args[1], cmd.OutOrStdout())
	},
}

var machineAddTransitionCmd = &cobra.Command{
	Use:   "add-transition <name> <from> <to> <read> <write> [move]",
	Short: "Link two states",
	Long: `Adds a transition: reading <read> in state <from> writes <write>, moves the
head by [move] cells and continues in state <to>.

Use "_" for the blank symbol. The move defaults to 0 and a lone "-" means -1.
Put "--" before the arguments when the move is a negative number.
A state can only have one transition per read symbol.`,
	Args: cobra.RangeArgs(5, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.AddTransition(cmd.Context(), newEditor(), args[0], args[1:], cmd.OutOrStdout())
	},
}

func newEditor() *editor.Editor {
	return editor.New(store, editor.WithLogger(logger))
}

func init() {
	rootCmd.AddCommand(machineCmd)
	machineCmd.AddCommand(machineListCmd, machineInspectCmd, machineImportCmd, machineExportCmd, machineRemoveCmd)
	machineCmd.AddCommand(machineNewCmd, machineAddStateCmd, machineRemoveStateCmd, machineAddTransitionCmd)

	machineInspectCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
