package pano

import (
	"context"
	"fmt"
	"strconv"

	"media-preview/internal/toolexec"
)

// MaxFaceSize caps the edge length of each cubemap face.
const MaxFaceSize = 1024

// faceOrder is the kubi face permutation for a single-row strip.
var faceOrder = []string{"1", "4", "0", "5", "3", "2"}

// FaceSize returns the face edge for a source of the given width.
func FaceSize(width int) int {
	return min(width/4, MaxFaceSize)
}

// Projector renders cubemaps with kubi.
type Projector struct {
	bin   string
	tools *toolexec.Invoker
}

// NewProjector returns a Projector that runs bin (default "kubi") through inv.
func NewProjector(bin string, inv *toolexec.Invoker) *Projector {
	if bin == "" {
		bin = "kubi"
	}
	return &Projector{bin: bin, tools: inv}
}

// OutputPath is the cubemap file written for prefix.
func OutputPath(prefix string) string {
	return prefix + ".c.jxl"
}

// Cubemap projects src into a six-face row strip at <prefix>.c.jxl.
func (p *Projector) Cubemap(ctx context.Context, src, prefix string, faceSize int) error {
	args := []string{"-l", "row", "-s", strconv.Itoa(faceSize), "--order"}
	args = append(args, faceOrder...)
	args = append(args, src, OutputPath(prefix))

	if _, err := p.tools.Run(ctx, "kubi", p.bin, args...); err != nil {
		return fmt.Errorf("cubemap projection failed: %w", err)
	}
	return nil
}

// CheckTool verifies that kubi can be found.
func (p *Projector) CheckTool() error {
	return toolexec.Available(p.bin)
}
