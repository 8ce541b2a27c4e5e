package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/herobanner/internal/composer"
	"github.com/kiesman99/herobanner/internal/hero"
	"github.com/kiesman99/herobanner/pkg/banner"
)

// Execute builds the command tree and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the base command and its subcommands. Each tree owns
// its flags and its viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "herobanner",
		Short: "Combine one image from each cake category into a hero banner",
		Long: `herobanner picks one image from each of the three cake category folders
(is_it_cake, sophisticaked, themed) under images/cakes and combines them into
a single JPEG hero background.

Images in each folder are sorted by name (case-insensitive); --indexes chooses
which one to take from each folder, in category order. All three are scaled
to a common height before being combined.

Examples:
  # First image of every category, placed side by side
  herobanner

  # Second is_it_cake image, first sophisticaked, third themed, blended
  herobanner --indexes 1,0,2 --mode blend

  # Same selection from the environment
  HEROBANNER_INDEXES="1 0 2" herobanner

  # Show which index selects which file
  herobanner list

  # Preview banners over HTTP
  herobanner serve --port 8080`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHero(cmd, v)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.herobanner.yaml)")
	rootCmd.PersistentFlags().String("root", ".", "repository root containing images/cakes")
	rootCmd.PersistentFlags().Int("height", banner.DefaultTargetHeight, "target height in pixels every image is scaled to")
	rootCmd.PersistentFlags().Int("quality", banner.DefaultQuality, "JPEG quality (1-100)")

	// Composition options
	rootCmd.Flags().IntSlice("indexes", []int{0, 0, 0},
		"zero-based image index per category in order is_it_cake,sophisticaked,themed; "+
			"comma-separated (--indexes 1,0,2) or repeated (--indexes 1 --indexes 0 --indexes 2)")
	rootCmd.Flags().String("mode", string(banner.ModeSideBySide), "layout mode (side-by-side|blend)")
	rootCmd.Flags().StringP("output", "o", banner.DefaultOutput, "output file, relative to --root unless absolute")

	// Bind flags to viper
	v.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	v.BindPFlag("height", rootCmd.PersistentFlags().Lookup("height"))
	v.BindPFlag("quality", rootCmd.PersistentFlags().Lookup("quality"))
	v.BindPFlag("indexes", rootCmd.Flags().Lookup("indexes"))
	v.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
	v.BindPFlag("output", rootCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(newListCmd(v), newServeCmd(v))
	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".herobanner" (without extension).
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".herobanner")
	}

	v.SetEnvPrefix("herobanner")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
	return nil
}

// categories returns the fixed category layout under the configured root
func categories(v *viper.Viper) [banner.CategoryCount]banner.Category {
	return banner.DefaultCategories(v.GetString("root"))
}

// parseIndexes accepts the flag's int slice, a YAML list, or a string from
// the environment separated by commas and/or whitespace.
func parseIndexes(raw interface{}) ([]int, error) {
	s, ok := raw.(string)
	if !ok {
		return cast.ToIntSliceE(raw)
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	indexes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %v", f, err)
		}
		indexes = append(indexes, n)
	}
	return indexes, nil
}

func runHero(cmd *cobra.Command, v *viper.Viper) error {
	indexes, err := parseIndexes(v.Get("indexes"))
	if err != nil {
		return fmt.Errorf("--indexes: %w", err)
	}
	if len(indexes) != banner.CategoryCount {
		return fmt.Errorf("--indexes needs exactly %d values, got %d", banner.CategoryCount, len(indexes))
	}

	mode, err := banner.ParseMode(v.GetString("mode"))
	if err != nil {
		return err
	}

	output := v.GetString("output")
	if !filepath.IsAbs(output) {
		output = filepath.Join(v.GetString("root"), output)
	}

	opts := &hero.Options{
		Compose: composer.Options{
			Categories:   categories(v),
			Mode:         mode,
			TargetHeight: v.GetInt("height"),
		},
		Output:  output,
		Quality: v.GetInt("quality"),
	}
	copy(opts.Compose.Indexes[:], indexes)

	return hero.NewRunner(cmd.OutOrStdout()).Run(cmd.Context(), opts)
}
