package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/herobanner/internal/hero"
)

func newListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the selectable images of every category",
		Long: `List prints the images of each category in selection order, with the
index that picks them via --indexes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return hero.NewRunner(cmd.OutOrStdout()).List(categories(v))
		},
	}
}
