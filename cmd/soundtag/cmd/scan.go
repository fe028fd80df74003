package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/soundtag-tech/soundtag/internal/common"
	"github.com/soundtag-tech/soundtag/internal/detect"
	"github.com/soundtag-tech/soundtag/internal/scan"
	"github.com/soundtag-tech/soundtag/internal/utils"
	"github.com/spf13/cobra"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan <image>...",
	Short: "Scan barcode images and decode their media references",
	Long: `Scan one or more barcode images and print the decoded media
reference for each.

The image is expected to contain the logo and all 23 bars; for
screenshots or photos where the barcode must be located first, configure
a detection logo (--logo or detect.logo_path) and the scanner will fall
back to logo detection when a direct scan fails.

Examples:
  soundtag scan code.png
  soundtag scan screenshot.png --logo brand.png
  soundtag scan codes/*.png --symbols`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		logoPath := cfg.Detect.LogoPath
		if cmd.Flags().Changed("logo") {
			logoPath, _ = cmd.Flags().GetString("logo")
		}
		var detector *detect.Detector
		if logoPath != "" {
			d, err := detect.NewFromFile(logoPath, cfg.Detect.MinLogoConfidence)
			if err != nil {
				return err
			}
			detector = d
		}

		showSymbols, _ := cmd.Flags().GetBool("symbols")

		var firstErr error
		for _, path := range args {
			mediaRef, symbols, err := scanFile(path, detector)
			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if showSymbols {
				parts := make([]string, len(symbols))
				for i, s := range symbols {
					parts[i] = strconv.Itoa(s)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d [%s]\n", path, mediaRef, strings.Join(parts, " "))
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", path, mediaRef)
			}
		}
		return firstErr
	},
}

func scanFile(path string, detector *detect.Detector) (uint64, []int, error) {
	timer := common.NewNamedTimer("scan")
	defer func() { slog.Debug("scan finished", "path", path, "elapsed", timer.Stop()) }()

	img, err := utils.LoadImage(path)
	if err != nil {
		return 0, nil, err
	}

	symbols, err := scan.Symbols(img)
	if err != nil && detector != nil {
		result := detector.Detect(img)
		if !result.Found {
			return 0, nil, fmt.Errorf("scan failed (%w) and %s", err, result.Reason)
		}
		symbols, err = scan.Symbols(imaging.Crop(img, result.Region))
	}
	if err != nil {
		return 0, nil, err
	}

	mediaRef, err := codec.Decode(symbols)
	if err != nil {
		return 0, symbols, err
	}
	return mediaRef, symbols, nil
}

func init() {
	scanCmd.Flags().Bool("symbols", false, "also print the 23 raw bar heights")
	scanCmd.Flags().String("logo", "", "logo image for detection fallback")
	rootCmd.AddCommand(scanCmd)
}
