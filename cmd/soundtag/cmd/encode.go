package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/spf13/cobra"
)

// encodeCmd represents the encode command.
var encodeCmd = &cobra.Command{
	Use:   "encode <media-ref>",
	Short: "Encode a media reference into 23 bar heights",
	Long: `Encode a 37-bit media reference into the 23-bar symbol sequence.

The output lists the bar heights 0-7 left to right, including the three
fixed reference bars at positions 0, 11 and 22.

Examples:
  soundtag encode 57639171874
  soundtag encode 57639171874 --format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaRef, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid media reference %q: %w", args[0], err)
		}

		symbols, err := codec.Encode(mediaRef)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			out, err := json.Marshal(symbols)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		case "text":
			parts := make([]string, len(symbols))
			for i, s := range symbols {
				parts[i] = strconv.Itoa(s)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
		default:
			return errors.New("invalid format: must be 'text' or 'json'")
		}
		return nil
	},
}

func init() {
	encodeCmd.Flags().String("format", "text", "output format (text, json)")
	rootCmd.AddCommand(encodeCmd)
}
