package cmd

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/jpfielding/telepen.go/pkg/telepen"
	"github.com/jpfielding/telepen.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the Telepen scan pipeline for an image",
		Long:  "Runs each pipeline stage per probed scan row and reports thresholds, run counts, and width estimates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, _ := cmd.Flags().GetString("uri")
			if uri == "" && len(args) > 0 {
				uri = args[0]
			}
			in, closer, err := openSource(ctx, cmd, uri)
			if err != nil {
				return err
			}
			defer closer()

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			img, format, err := decodeImageBytes(raw)
			if err != nil {
				return fmt.Errorf("decoding image: %w", err)
			}
			return runAnalyze(raw, format, img)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("uri", "u", "", "image URI (file path, file://, http(s)://, or - for stdin)")
	pf.Bool("verbose", false, "dump http request/response when fetching")
	return cmd
}

// runAnalyze walks the scan rows the decoder would probe and prints what each
// stage sees, which is the fastest way to tell why a frame refuses to decode.
func runAnalyze(raw []byte, format string, img image.Image) error {
	raster := telepen.FromImage(img)
	w, h := raster.Width(), raster.Height()

	fmt.Println("=== Image ===")
	fmt.Printf("Digest: %s\n", util.Md5ThenHex(raw))
	fmt.Printf("Format: %s\n", format)
	fmt.Printf("Size: %dx%d\n\n", w, h)

	fmt.Println("=== Scan Rows ===")
	for _, y := range telepen.SampleRows(h) {
		gray, threshold, err := telepen.Binarize(raster.RowPixels(y))
		if err != nil {
			fmt.Printf("row %d: binarize error: %v\n", y, err)
			continue
		}
		runs := telepen.ExtractRuns(gray, threshold)
		fmt.Printf("row %d: threshold=%d runs=%d", y, threshold, len(runs))
		if len(runs) < telepen.MinRuns {
			fmt.Println("  (too few runs, skipped)")
			continue
		}

		startIdx := 0
		for startIdx < len(runs) && !runs[startIdx].IsBar {
			startIdx++
		}
		if startIdx >= len(runs) {
			fmt.Println("  (no bar runs)")
			continue
		}
		narrow, err := telepen.EstimateNarrow(runs, startIdx)
		if err != nil {
			fmt.Printf("  width estimate: %v\n", err)
			continue
		}
		fmt.Printf(" narrow=%.2fpx", narrow)

		elements := telepen.Classify(runs, startIdx, narrow, 0.30)
		d, err := telepen.DecodeElements(elements)
		if err != nil {
			fmt.Printf(" decode: %v\n", err)
			continue
		}
		fmt.Printf(" decoded=%q checksum=%v stop=%v\n", d.Text, d.ChecksumValid, d.HasStopChar)
	}

	fmt.Println("\n=== Full Decode ===")
	text, err := telepen.Decode(raster)
	if err != nil {
		fmt.Printf("result: %v\n", err)
		return nil
	}
	fmt.Printf("result: %q (scan %s)\n", text, util.ScanID(w, h, raw))
	return nil
}
