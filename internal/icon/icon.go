// Package icon prepares marker icons for the map client.
package icon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Quality is the lossy WebP quality of processed icons.
const Quality = 90

// Load downloads or opens a source image and decodes it.
func Load(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	var reader io.Reader

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(body)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	log.Debug().Str("source", source).Str("format", format).Msg("Icon decoded")
	return img, nil
}

// Fit scales img down so its longest side is at most maxSize, keeping the aspect ratio.
// Smaller images are returned as is.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	nw, nh := maxSize, maxSize
	if w > h {
		nh = max(1, h*maxSize/w)
	} else {
		nw = max(1, w*maxSize/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	return dst
}

// Encode writes img as WebP.
func Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: Quality})
}

// Process loads source, fits it into maxSize and writes it to dest as WebP.
// An existing non-empty dest is kept unless force is set.
func Process(ctx context.Context, client *http.Client, source, dest string, maxSize int, force bool) error {
	if !force {
		if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
			log.Debug().Str("path", dest).Msg("Icon exists, skipping")
			return nil
		}
	}

	img, err := Load(ctx, client, source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}

	if err := Encode(f, Fit(img, maxSize)); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode webp: %w", err)
	}

	return f.Close()
}
