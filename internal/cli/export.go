package cli

import (
	"fmt"
	"log/slog"

	"github.com/AndrewDonelson/persist"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "export SQL PATH",
		Short: "Run a query against PostgreSQL and save the result as an XML table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			query, path := args[0], args[1]
			if name == "" {
				name = path
			}
			t, err := s.QueryTable(cmd.Context(), name, query)
			if err != nil {
				return err
			}
			if err := persist.Save(cmd.Context(), s, path, t); err != nil {
				return err
			}
			slog.Info("table exported", "path", path, "rows", t.RowCount())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", t.RowCount(), path)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Table name stored in the document (default: PATH)")
	return cmd
}
