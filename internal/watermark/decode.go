package watermark

import (
	"bytes"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds the surface area of a single render
const MaxPixels = 10000 * 10000

// Decode reads an image from r and returns it with its format name
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", &Error{Kind: KindDecode, Op: "decode", Err: err}
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a PNG, JPEG, GIF, WebP, BMP or TIFF image.
// Dimensions are checked from the header before pixels are decoded.
func DecodeBytes(data []byte) (image.Image, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &Error{Kind: KindDecode, Op: "decode", Err: err}
	}

	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, format, &Error{Kind: KindRender, Op: "decode", Err: err}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, &Error{Kind: KindDecode, Op: "decode", Err: err}
	}
	return img, format, nil
}

func checkSize(width, height int) error {
	if int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}
	return nil
}
