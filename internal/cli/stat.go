package cli

import (
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newStatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat PATH...",
		Short: "Show existence, size, modification time and codec of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}

			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.Header([]string{"Path", "Exists", "Size", "Modified", "Format"})
			for _, p := range args {
				fi, err := s.Stat(p)
				if err != nil {
					return err
				}
				modified := "-"
				if fi.Exists {
					modified = fi.ModTime.Format(time.RFC3339)
				}
				if err := tw.Append([]string{
					fi.Path,
					strconv.FormatBool(fi.Exists),
					strconv.FormatInt(fi.Size, 10),
					modified,
					fi.Format,
				}); err != nil {
					return err
				}
			}
			return tw.Render()
		},
	}
}
