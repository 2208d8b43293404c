// Package media prepares image attachments for transmission. The
// service accepts base64 JPEG payloads with both dimensions capped at
// 800px, so oversized photos are scaled down and recompressed before
// they ever hit the wire.
package media

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	// maxDimension caps width and height of an outbound attachment.
	maxDimension = 800
	// jpegQuality trades fidelity for kiosk-friendly upload sizes.
	jpegQuality = 50
)

// Prepare reads one image, scales it so neither dimension exceeds
// 800px and returns it JPEG-compressed, ready for base64 transport
// encoding. This is a one-shot blocking call; run it off the
// stream-consuming path.
func Prepare(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}

	scaled := shrink(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(err, "encoding jpeg")
	}
	return buf.Bytes(), nil
}

// shrink scales src down preserving aspect ratio. Images already
// within bounds pass through untouched.
func shrink(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDimension && h <= maxDimension {
		return src
	}

	scale := float64(maxDimension) / float64(max(w, h))
	dw := max(int(float64(w)*scale), 1)
	dh := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}
