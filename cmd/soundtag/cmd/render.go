package cmd

import (
	"fmt"
	"strconv"

	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/soundtag-tech/soundtag/internal/render"
	"github.com/soundtag-tech/soundtag/internal/utils"
	"github.com/spf13/cobra"
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render <media-ref>",
	Short: "Encode a media reference and render it as a barcode PNG",
	Long: `Encode a media reference and render the resulting barcode to a PNG
file: the logo on the left followed by 23 rounded bars.

Colors, bar geometry and an optional logo image come from flags or the
configuration file. Without a logo image a plain disc is drawn.

Examples:
  soundtag render 57639171874
  soundtag render 57639171874 --out code.png --background white --bar black
  soundtag render 57639171874 --logo brand.png`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaRef, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid media reference %q: %w", args[0], err)
		}

		cfg := GetConfig()
		opts := cfg.RenderOptions()

		if cmd.Flags().Changed("background") {
			opts.Background, _ = cmd.Flags().GetString("background")
		}
		if cmd.Flags().Changed("bar") {
			opts.Bar, _ = cmd.Flags().GetString("bar")
		}
		logoPath := cfg.Render.LogoPath
		if cmd.Flags().Changed("logo") {
			logoPath, _ = cmd.Flags().GetString("logo")
		}
		if logoPath != "" {
			logo, err := utils.LoadImage(logoPath)
			if err != nil {
				return err
			}
			opts.Logo = logo
		}

		symbols, err := codec.Encode(mediaRef)
		if err != nil {
			return err
		}

		img, err := render.Render(symbols, opts)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("%d_code.png", mediaRef)
		}
		if err := utils.SavePNG(out, img); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	renderCmd.Flags().String("out", "", "output PNG path (default <media-ref>_code.png)")
	renderCmd.Flags().String("background", "", "background color (black, white, red, green, blue)")
	renderCmd.Flags().String("bar", "", "bar color (black, white, red, green, blue)")
	renderCmd.Flags().String("logo", "", "logo image path")
	rootCmd.AddCommand(renderCmd)
}
