package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quelllabs/quell/internal/logging"
	"github.com/quelllabs/quell/internal/presentation/tui"
	"github.com/quelllabs/quell/pkg/pauli"
	"github.com/quelllabs/quell/pkg/persistence"
)

var rootCmd = &cobra.Command{
	Use:   "quell",
	Short: "Quell reduces the qubit count of Pauli Hamiltonians",
	Long: `Quell tapers the exact Z2 symmetries of a Pauli Hamiltonian and, beyond
that, projects it onto the stabilizers of a classically solved noncontextual
sub-Hamiltonian. Hamiltonians are YAML mappings of Pauli labels to real
coefficients.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "hamiltonian.yaml", "YAML file with the Hamiltonian")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON instead of a rendered table")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	name, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		level = slog.LevelWarn
	}
	return logging.New(level)
}

func loadHamiltonian(cmd *cobra.Command) (pauli.Operator, error) {
	path, _ := cmd.Flags().GetString("file")
	return persistence.ReadHamiltonianFile(path)
}

// emit renders markdown through glamour on a terminal and prints it raw
// otherwise, so piping stays clean.
func emit(markdown string) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		render := tui.NewRenderer()
		if out, err := render(markdown); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(markdown)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
