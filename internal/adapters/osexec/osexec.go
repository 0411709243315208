// Package osexec runs the external desktop helpers (xdotool, ImageMagick, tesseract)
package osexec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	perr "mbot/internal/platform/errors"
)

// Runner executes name with args and returns its stdout
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run is the default Runner. A non-zero exit is reported with the trimmed stderr so the
// operator can see what the helper complained about
func Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, perr.FromContext(ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "command failed"
		}
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnknown, "%s: %s", name, msg), name)
	}
	return stdout.Bytes(), nil
}
