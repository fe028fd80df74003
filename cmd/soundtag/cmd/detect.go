package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundtag-tech/soundtag/internal/common"
	"github.com/soundtag-tech/soundtag/internal/detect"
	"github.com/soundtag-tech/soundtag/internal/utils"
	"github.com/spf13/cobra"
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Locate a barcode inside an image",
	Long: `Locate a barcode inside a screenshot or photo by logo template
matching and print the detected region.

Requires a logo template (--logo or detect.logo_path in the config).

Examples:
  soundtag detect screenshot.png --logo brand.png`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		logoPath := cfg.Detect.LogoPath
		if cmd.Flags().Changed("logo") {
			logoPath, _ = cmd.Flags().GetString("logo")
		}
		if logoPath == "" {
			return errors.New("no logo template configured (use --logo or detect.logo_path)")
		}

		detector, err := detect.NewFromFile(logoPath, cfg.Detect.MinLogoConfidence)
		if err != nil {
			return err
		}

		img, err := utils.LoadImage(args[0])
		if err != nil {
			return err
		}

		timer := common.NewNamedTimer("detect")
		result := detector.Detect(img)
		slog.Debug("detection finished", "path", args[0], "elapsed", timer.Stop())
		if !result.Found {
			return fmt.Errorf("no barcode found: %s", result.Reason)
		}

		r := result.Region
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "region: %d,%d %dx%d (confidence %.2f)\n",
			r.Min.X, r.Min.Y, r.Dx(), r.Dy(), result.LogoConfidence)
		return nil
	},
}

func init() {
	detectCmd.Flags().String("logo", "", "logo template image")
	rootCmd.AddCommand(detectCmd)
}
