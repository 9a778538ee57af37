package cli

import (
	"fmt"
	"strings"

	"github.com/AndrewDonelson/persist"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump PATH",
		Short: "Decode a binary file with the configured codec and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.EqualFold(a.values.Codec, "gob") {
				return fmt.Errorf("dump does not support the gob codec: gob payloads need their Go type to decode")
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			fi, err := s.Stat(args[0])
			if err != nil {
				return err
			}
			if !fi.Exists {
				return fmt.Errorf("%s: no such file", args[0])
			}
			if fi.Format == "xml" {
				return fmt.Errorf("%s: markup document, use the table command", args[0])
			}

			v, err := persist.Load[any](cmd.Context(), s, args[0])
			if err != nil {
				return fmt.Errorf("decode %s as %s: %w", args[0], fi.Format, err)
			}
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
