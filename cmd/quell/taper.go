package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/internal/presentation/tui"
	"github.com/quelllabs/quell/pkg/persistence"
)

var taperCmd = &cobra.Command{
	Use:   "taper",
	Short: "Taper the exact Z2 symmetries of a Hamiltonian",
	Long: `Finds the independent Pauli symmetries of the Hamiltonian and projects
them out, removing one qubit per symmetry generator. The sector is fixed by a
reference basis state or given explicitly.`,
	Run: func(cmd *cobra.Command, args []string) {
		h, err := loadHamiltonian(cmd)
		if err != nil {
			fatal(err)
		}

		reference, _ := cmd.Flags().GetIntSlice("reference")
		sector, _ := cmd.Flags().GetIntSlice("sector")

		opts := []quell.TaperingOption{quell.WithTaperingLogger(newLogger(cmd))}
		if len(sector) > 0 {
			opts = append(opts, quell.WithSector(sector))
		}
		tap, err := quell.NewTapering(h, reference, opts...)
		if err != nil {
			fatal(err)
		}

		reduced, err := tap.Taper()
		if err != nil {
			fatal(err)
		}
		chosen, err := tap.Sector()
		if err != nil {
			fatal(err)
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
			generators := make([]string, 0, len(tap.Generators()))
			for _, g := range tap.Generators() {
				generators = append(generators, string(g))
			}
			coeffs, err := reduced.RealMap(1e-9)
			if err != nil {
				fatal(err)
			}
			payload := map[string]any{
				"generators":  generators,
				"sector":      chosen,
				"hamiltonian": coeffs,
			}
			if len(reference) > 0 {
				if ref, err := tap.TaperedReference(); err == nil {
					payload["reference"] = ref
				}
			}
			json.NewEncoder(os.Stdout).Encode(payload)
			return
		}
		emit(tui.TaperMarkdown(tap.Generators(), chosen, reduced))
	},
}

func init() {
	rootCmd.AddCommand(taperCmd)
	taperCmd.Flags().IntSlice("reference", nil, "Reference basis state, one 0/1 per qubit")
	taperCmd.Flags().IntSlice("sector", nil, "Explicit sector, one +1/-1 per generator")
	taperCmd.Flags().String("out", "", "Write the reduced Hamiltonian to a YAML file")
}
