package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"greenspring/core/config"
	"greenspring/core/gpio"
	"greenspring/core/logger"
	"greenspring/core/pinstore"

	"github.com/spf13/cobra"
)

var pinsJSON bool

// pinsCmd prints the stored topology and last known output values.
var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Show the configured pins and their stored values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		store, err := pinstore.Open(ctx, cfg.Store, cfg.Storage, cfg.Database, l)
		if err != nil {
			return fmt.Errorf("failed to open pin store: %w", err)
		}

		pinCfg := store.LoadConfig(ctx)
		state := store.LoadState(ctx)

		if pinsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"config": pinCfg, "state": state})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PIN\tLABEL\tDIRECTION\tVALUE")
		for _, p := range pinCfg.Effective() {
			value := "-"
			if p.Direction == gpio.Out {
				value = fmt.Sprint(state[p.Number])
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.Number, p.Label, p.Direction, value)
		}
		return w.Flush()
	},
}

func init() {
	pinsCmd.Flags().BoolVar(&pinsJSON, "json", false, "Output documents as JSON")
	RootCmd.AddCommand(pinsCmd)
}
