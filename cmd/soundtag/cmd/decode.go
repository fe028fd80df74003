package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/spf13/cobra"
)

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode <symbols>",
	Short: "Decode 23 bar heights back into a media reference",
	Long: `Decode a 23-bar symbol sequence back into its media reference.

Symbols are given as digits 0-7, either space separated across arguments
or as one comma/space separated string.

Examples:
  soundtag decode 0 5 7 4 1 4 6 6 0 2 4 7 3 4 6 7 5 5 6 0 5 0 0
  soundtag decode "0,5,7,4,1,4,6,6,0,2,4,7,3,4,6,7,5,5,6,0,5,0,0"`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols, err := parseSymbolArgs(args)
		if err != nil {
			return err
		}

		mediaRef, err := codec.Decode(symbols)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), mediaRef)
		return nil
	},
}

// parseSymbolArgs accepts bar heights spread over arguments or packed
// into one comma-separated string.
func parseSymbolArgs(args []string) ([]int, error) {
	var fields []string
	for _, arg := range args {
		for _, f := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			if f != "" {
				fields = append(fields, f)
			}
		}
	}

	symbols := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid symbol %q: %w", f, err)
		}
		symbols = append(symbols, v)
	}
	return symbols, nil
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
