package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/cpf"
	"github.com/sells-group/roster-cli/internal/report"
)

var cpfCmd = &cobra.Command{
	Use:   "cpf <cpf>...",
	Short: "Check CPF numbers and print them formatted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(args))
		for _, a := range args {
			status := "inválido"
			if cpf.Valid(a) {
				status = "válido"
			}
			rows = append(rows, []string{a, cpf.Format(a), status})
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), report.Table([]string{"Entrada", "CPF", "Situação"}, rows))
		return err
	},
}

func init() {
	rootCmd.AddCommand(cpfCmd)
}
