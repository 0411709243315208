package capture

import (
	"context"
	"fmt"
	"image"

	"mbot/internal/adapters/osexec"
)

// Import captures with ImageMagick's import tool
type Import struct {
	Cmd string
	Run osexec.Runner
}

// Capture implements Capturer
func (i Import) Capture(ctx context.Context, r image.Rectangle, path string) error {
	cmd := i.Cmd
	if cmd == "" {
		cmd = "import"
	}
	run := i.Run
	if run == nil {
		run = osexec.Run
	}
	geom := fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	_, err := run(ctx, cmd, "-window", "root", "-crop", geom, "png:"+path)
	return err
}

// Tesseract transcribes with the tesseract CLI, printing to stdout
type Tesseract struct {
	Cmd string
	Run osexec.Runner
}

// Recognize implements Recognizer
func (t Tesseract) Recognize(ctx context.Context, path string) (string, error) {
	cmd := t.Cmd
	if cmd == "" {
		cmd = "tesseract"
	}
	run := t.Run
	if run == nil {
		run = osexec.Run
	}
	out, err := run(ctx, cmd, path, "stdout")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Rect converts x,y,width,height into an image.Rectangle
func Rect(xywh []int) image.Rectangle {
	if len(xywh) != 4 {
		return image.Rectangle{}
	}
	return image.Rect(xywh[0], xywh[1], xywh[0]+xywh[2], xywh[1]+xywh[3])
}
