package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	perr "mbot/internal/platform/errors"
)

// Binarize rewrites the PNG at path as pure black and white: grayscale values above
// threshold become white, everything else black
func Binarize(path string, threshold uint8) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCaptureFailed, "read %s", path)
	}
	src, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCaptureFailed, "decode %s", path)
	}

	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			if g.Y > threshold {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCaptureFailed, "encode %s", path)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCaptureFailed, "write %s", path)
	}
	return nil
}
