package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/normalize"
	"github.com/sells-group/roster-cli/pkg/viacep"
)

var cepCmd = &cobra.Command{
	Use:   "cep <cep>",
	Short: "Look up a CEP on ViaCEP and print the canonical address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := viacep.NewClient(
			viacep.WithBaseURL(cfg.ViaCEP.BaseURL),
			viacep.WithTimeout(time.Duration(cfg.ViaCEP.TimeoutSecs)*time.Second),
		)

		cep := normalize.CEP(args[0])
		addr, err := client.Lookup(cmd.Context(), cep)
		if errors.Is(err, viacep.ErrNotFound) {
			return eris.Errorf("cep: %s not found", cep)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(addr)
	},
}

func init() {
	rootCmd.AddCommand(cepCmd)
}
