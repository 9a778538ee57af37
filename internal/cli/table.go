package cli

import (
	"fmt"
	"time"

	"github.com/AndrewDonelson/persist"
	"github.com/AndrewDonelson/persist/tabular"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const nullCell = "NULL"

func newTableCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "table PATH",
		Short: "Print the tables of an XML dataset document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			ds, err := persist.Load[*tabular.DataSet](cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			if ds == nil {
				return fmt.Errorf("%s: no such file", args[0])
			}

			tables := ds.Tables()
			if name != "" {
				t := ds.Table(name)
				if t == nil {
					return fmt.Errorf("%s: no table named %q", args[0], name)
				}
				tables = []*tabular.Table{t}
			}
			out := cmd.OutOrStdout()
			for _, t := range tables {
				fmt.Fprintf(out, "%s (%d rows)\n", t.Name, t.RowCount())
				tw := tablewriter.NewWriter(out)
				tw.Header(t.ColumnNames())
				for _, r := range t.Rows() {
					if err := tw.Append(cells(r)); err != nil {
						return err
					}
				}
				if err := tw.Render(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Only print the table with this name")
	return cmd
}

func cells(r *tabular.Row) []string {
	vals := r.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = nullCell
		case time.Time:
			out[i] = x.Format(time.RFC3339)
		case []byte:
			out[i] = fmt.Sprintf("%d bytes", len(x))
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}
