package cmd

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/jpfielding/telepen.go/pkg/telepen"
	"github.com/spf13/cobra"
)

// NewEncodeCmd renders a Telepen Numeric symbol to a PNG, which is what the
// decoder's test rigs and scanner bench setups feed back in.
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "render digits as a Telepen Numeric barcode PNG",
		Long:  "render a digit string as a Telepen Numeric barcode PNG, checksum and framing included",
		RunE: func(cmd *cobra.Command, args []string) error {
			digits, _ := cmd.Flags().GetString("digits")
			if digits == "" && len(args) > 0 {
				digits = args[0]
			}
			out, _ := cmd.Flags().GetString("out")
			narrow, _ := cmd.Flags().GetInt("narrow")
			quiet, _ := cmd.Flags().GetInt("quiet-zone")
			height, _ := cmd.Flags().GetInt("height")

			sym, err := telepen.Encode(digits)
			if err != nil {
				return err
			}
			img := sym.Bitmap(telepen.BitmapOptions{Narrow: narrow, QuietZone: quiet, Height: height})

			if out == "" {
				out = fmt.Sprintf("telepen_%s.png", digits)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return fmt.Errorf("writing png: %w", err)
			}
			fmt.Printf("wrote %s (%dx%d)\n", out, img.Bounds().Dx(), img.Bounds().Dy())
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("digits", "d", "", "digit payload to encode")
	pf.StringP("out", "o", "", "output PNG path")
	pf.Int("narrow", 2, "narrow element width in pixels")
	pf.Int("quiet-zone", 0, "quiet zone width in pixels (0 = 10x narrow)")
	pf.Int("height", 40, "bitmap height in pixels")
	return cmd
}
