package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/internal/presentation/tui"
	redisstore "github.com/quelllabs/quell/pkg/adapters/redis"
	"github.com/quelllabs/quell/pkg/pauli"
	"github.com/quelllabs/quell/pkg/persistence"
)

var contextualCmd = &cobra.Command{
	Use:   "contextual",
	Short: "Contextual-subspace reduction of a Hamiltonian",
	Long: `Splits off a noncontextual sub-Hamiltonian, solves its ground state
classically, and projects the full Hamiltonian onto stabilizers of that state.
Projecting fewer stabilizers keeps more qubits and more accuracy.`,
	Run: func(cmd *cobra.Command, args []string) {
		h, err := loadHamiltonian(cmd)
		if err != nil {
			fatal(err)
		}

		opts := []quell.ContextualOption{quell.WithLogger(newLogger(cmd))}

		if labels, _ := cmd.Flags().GetStringSlice("set"); len(labels) > 0 {
			set := make([]pauli.Term, len(labels))
			for i, label := range labels {
				term, err := pauli.NewTerm(label)
				if err != nil {
					fatal(err)
				}
				set[i] = term
			}
			opts = append(opts, quell.WithNoncontextualSet(set))
		}
		if budget, _ := cmd.Flags().GetDuration("budget"); budget > 0 {
			opts = append(opts, quell.WithSearchBudget(budget))
		}
		if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
			runID, _ := cmd.Flags().GetString("run-id")
			store := redisstore.New(addr, "", 0)
			defer store.Close()
			opts = append(opts, quell.WithRunStore(store, runID))
		}

		cs, err := quell.NewContextualSubspace(h, opts...)
		if err != nil {
			fatal(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sol, err := cs.Solve(ctx)
		if err != nil {
			fatal(err)
		}

		indices, _ := cmd.Flags().GetIntSlice("indices")
		reduced, err := cs.ReducedHamiltonian(indices...)
		if err != nil {
			fatal(err)
		}

		if dir, _ := cmd.Flags().GetString("record"); dir != "" {
			if err := writeRunRecord(dir, cs); err != nil {
				fatal(err)
			}
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				fatal(err)
			}
			defer f.Close()
			if err := persistence.WriteHamiltonian(f, reduced, 1e-9); err != nil {
				fatal(err)
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			coeffs, err := reduced.RealMap(1e-9)
			if err != nil {
				fatal(err)
			}
			stabilizers := make([]string, 0, len(sol.Stabilizers))
			for _, st := range sol.Stabilizers {
				stabilizers = append(stabilizers, string(st))
			}
			payload := map[string]any{
				"energy":      sol.Energy,
				"nu":          sol.Nu,
				"theta":       sol.Theta,
				"r":           []float64{sol.R[0], sol.R[1]},
				"stabilizers": stabilizers,
				"hamiltonian": coeffs,
			}
			if ref, err := cs.ReducedReference(indices...); err == nil {
				payload["reference"] = ref
			}
			json.NewEncoder(os.Stdout).Encode(payload)
			return
		}
		emit(tui.ContextualMarkdown(sol, reduced))
	},
}

// writeRunRecord dumps the last optimizer run as space.yaml plus samples.csv,
// in the round-trippable persistence format.
func writeRunRecord(dir string, cs *quell.ContextualSubspace) error {
	run := cs.LastRun()
	if run == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	sf, err := os.Create(filepath.Join(dir, "space.yaml"))
	if err != nil {
		return err
	}
	defer sf.Close()
	if err := persistence.WriteSpace(sf, run.Space); err != nil {
		return err
	}

	cf, err := os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		return err
	}
	defer cf.Close()
	return persistence.WriteSamples(cf, run.Space, run.Samples)
}

func init() {
	rootCmd.AddCommand(contextualCmd)
	contextualCmd.Flags().StringSlice("set", nil, "Noncontextual term set; searched greedily when omitted")
	contextualCmd.Flags().IntSlice("indices", nil, "Stabilizer indices to project; all when omitted")
	contextualCmd.Flags().Duration("budget", 0, "Time budget for the noncontextual set search")
	contextualCmd.Flags().String("record", "", "Directory to record the optimizer search space and samples")
	contextualCmd.Flags().String("out", "", "Write the reduced Hamiltonian to a YAML file")
	contextualCmd.Flags().String("redis", "", "Redis address for persisting runs (e.g. localhost:6379)")
	contextualCmd.Flags().String("run-id", "default", "Run ID used with --redis")
}
