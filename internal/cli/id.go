package cli

import (
	"fmt"

	"github.com/dalemusser/exhibithub/internal/app/system/identity"
	"github.com/spf13/cobra"
)

// NewIDCommand creates the id command.
func NewIDCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "id <museum-id> <title>",
		Short: "Print the exhibition id derived from a museum id and title",
		Long: `Print the id an exhibition would be stored under.

The title is normalized (NFKC, lowercase, collapsed whitespace) before
hashing, so titles differing only in width, case or spacing share an id.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			museumID, err := canonicalMuseumID(args[0])
			if err != nil {
				return err
			}
			title := args[1]
			if identity.NormalizeTitle(title) == "" {
				return fmt.Errorf("title is required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), identity.ExhibitionID(museumID, title))
			return nil
		},
	}
}
