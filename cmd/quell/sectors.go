package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/internal/presentation/tui"
)

var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "Taper every symmetry sector and rank them by ground energy",
	Long: `Sweeps all eigenvalue assignments of the symmetry generators, tapers
each one, and diagonalizes the reduced Hamiltonians exactly. Sectors are listed
by ascending ground energy, so the first row is the physical sector.`,
	Run: func(cmd *cobra.Command, args []string) {
		h, err := loadHamiltonian(cmd)
		if err != nil {
			fatal(err)
		}

		tap, err := quell.NewTapering(h, nil, quell.WithTaperingLogger(newLogger(cmd)))
		if err != nil {
			fatal(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results, err := tap.SearchAllSectors(ctx)
		if err != nil {
			fatal(err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			type entry struct {
				Sector      []int              `json:"sector"`
				Energy      float64            `json:"energy"`
				Hamiltonian map[string]float64 `json:"hamiltonian"`
			}
			payload := make([]entry, len(results))
			for i, res := range results {
				coeffs, err := res.Hamiltonian.RealMap(1e-9)
				if err != nil {
					fatal(err)
				}
				payload[i] = entry{Sector: res.Sector, Energy: res.Energy, Hamiltonian: coeffs}
			}
			json.NewEncoder(os.Stdout).Encode(payload)
			return
		}
		emit(tui.SectorsMarkdown(results))
	},
}

func init() {
	rootCmd.AddCommand(sectorsCmd)
}
