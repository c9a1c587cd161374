package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/gridmark/internal/stamp"
	"github.com/kiesman99/gridmark/internal/watermark"
	"github.com/kiesman99/gridmark/pkg/layout"
)

const version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridmark",
	Short: "Stamp a repeated text watermark across an image",
	Long: `gridmark stamps a text watermark many times across an image.

The copies are laid out on a near-square grid with a random offset per copy,
so the pattern is hard to crop out. Input may be PNG, JPEG, GIF, WebP, BMP or
TIFF; output is always PNG.

Examples:
  # Watermark a photo with the defaults (40 copies, 50px white at 50% opacity)
  gridmark -i photo.jpg -o photo.png

  # Custom text, fewer and tighter copies
  gridmark -i photo.jpg -o photo.png --text "DRAFT" --count 12 --stretch 1

  # Red monospace text, reproducible layout, stdin to stdout
  cat photo.jpg | gridmark -i - --fill "#ff0000" --opacity 0.3 --font "36px monospace" --seed 7 > out.png

  # Start HTTP server
  gridmark serve --port 3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("input") == "" && len(args) == 0 {
			return cmd.Help()
		}
		return runStamp(cmd, args)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gridmark.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// Watermark options, shared with serve as request defaults
	rootCmd.PersistentFlags().String("text", watermark.DefaultText, "watermark text")
	rootCmd.PersistentFlags().IntP("count", "n", watermark.DefaultCount, "number of watermark copies")
	rootCmd.PersistentFlags().Float64("stretch", watermark.DefaultStretchFactor, "grid spacing multiplier; above 1 may place copies off-canvas")
	rootCmd.PersistentFlags().String("fill", "#ffffff", "text color (#rrggbb, rgb(...) or rgba(...))")
	rootCmd.PersistentFlags().Float64("opacity", watermark.DefaultOpacity, "text opacity between 0 and 1")
	rootCmd.PersistentFlags().String("font", "50px sans-serif", "font as '<size>px <family>'; family may be a .ttf/.otf path")
	rootCmd.PersistentFlags().String("align", "center", "text alignment around each position (center|left|right)")
	rootCmd.PersistentFlags().Int64("seed", 0, "seed the layout jitter for reproducible output")

	// Input/output
	rootCmd.Flags().StringP("input", "i", "", "input image file, '-' for stdin")
	rootCmd.Flags().StringP("output", "o", "", "output PNG file (default: stdout)")

	for _, name := range []string{"verbose", "text", "count", "stretch", "fill", "opacity", "font", "align", "seed"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".gridmark" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gridmark")
	}

	viper.SetEnvPrefix("gridmark")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// watermarkOptions builds the watermark options from flags, config and env
func watermarkOptions() (watermark.Options, error) {
	opts := watermark.DefaultOptions()
	opts.Style.Text = viper.GetString("text")
	opts.Count = viper.GetInt("count")
	opts.StretchFactor = viper.GetFloat64("stretch")

	fill, err := watermark.ParseColor(viper.GetString("fill"), viper.GetFloat64("opacity"))
	if err != nil {
		return opts, err
	}
	opts.Style.Fill = fill

	font, err := watermark.ParseFont(viper.GetString("font"))
	if err != nil {
		return opts, err
	}
	opts.Style.Font = font

	align, err := watermark.ParseAlign(viper.GetString("align"))
	if err != nil {
		return opts, err
	}
	opts.Style.Align = align

	if viper.IsSet("seed") {
		opts.Rand = layout.Seeded(viper.GetInt64("seed"))
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func runStamp(cmd *cobra.Command, args []string) error {
	input := viper.GetString("input")
	if input == "" {
		input = args[0]
	}

	opts, err := watermarkOptions()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	stamper := stamp.NewStamper(logger)

	return stamper.Stamp(cmd.Context(), stamp.Options{
		Input:     input,
		Output:    viper.GetString("output"),
		Watermark: opts,
	})
}
