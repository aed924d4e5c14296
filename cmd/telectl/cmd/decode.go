package cmd

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	// registered formats for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/jpfielding/telepen.go/pkg/telepen"
	"github.com/jpfielding/telepen.go/pkg/util"
	"github.com/spf13/cobra"
)

// decodeResult is the JSON shape emitted by the decode command.
type decodeResult struct {
	Scan   string `json:"scan"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Text   string `json:"text,omitempty"`
	Found  bool   `json:"found"`
}

// NewDecodeCmd scans a raster image for a Telepen Numeric symbol.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "decode a Telepen Numeric barcode from an image",
		Long:  "decode a Telepen Numeric barcode from a PNG/JPEG/GIF/BMP/TIFF image",
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

			raster := telepen.FromImage(img)
			text, err := telepen.Decode(raster)
			found := err == nil
			if err != nil && !errors.Is(err, telepen.ErrNotFound) {
				return err
			}

			res := decodeResult{
				Scan:   util.ScanID(raster.Width(), raster.Height(), raw),
				Format: format,
				Width:  raster.Width(),
				Height: raster.Height(),
				Text:   text,
				Found:  found,
			}
			switch outType, _ := cmd.Flags().GetString("format"); outType {
			case "text":
				if !found {
					fmt.Println("no barcode found")
					return nil
				}
				fmt.Println(text)
			default:
				j, _ := json.Marshal(res)
				os.Stdout.Write(j)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("uri", "u", "", "image URI (file path, file://, http(s)://, or - for stdin)")
	pf.StringP("format", "f", "json", "output format (text|json)")
	pf.Bool("verbose", false, "dump http request/response when fetching")
	return cmd
}

// decodeImageBytes sniffs and decodes any registered raster format.
func decodeImageBytes(raw []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(raw))
}

// openSource resolves an image URI to a reader the way every telectl
// subcommand expects: stdin, http(s), or a local file.
func openSource(ctx context.Context, cmd *cobra.Command, uri string) (io.Reader, func(), error) {
	uri = strings.TrimPrefix(uri, "file://")
	switch {
	case uri == "":
		return nil, nil, fmt.Errorf("image URI is required; use --uri or provide as argument")
	case uri == "-":
		return os.Stdin, func() {}, nil
	case strings.HasPrefix(uri, "http"):
		cl := &http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create request: %v", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to download: %v", err)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			os.Stderr.Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			os.Stderr.Write(resDump)
		}
		return resp.Body, func() { resp.Body.Close() }, nil
	default:
		f, err := os.Open(uri)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file: %v", err)
		}
		return f, func() { f.Close() }, nil
	}
}
