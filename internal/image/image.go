// Package image renders image files inline in the terminal. It rides
// go-termimg for protocol-aware output (kitty, iTerm2, sixel) and falls
// back to unicode half blocks when no graphics protocol is available or
// rendering fails.
package image

import (
	"fmt"
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	termimg "github.com/blacktop/go-termimg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/vroablec/notebook-navigator-sub013/internal/thumbs"
)

// Result is a rendered image ready to print.
type Result struct {
	Content string
	// IsFallback marks half-block output, which loses detail compared
	// to a real graphics protocol.
	IsFallback bool
}

// Renderer renders image files at a requested cell size. It memoizes the
// last render so resize-free redraws are free.
type Renderer struct {
	lastPath string
	lastW    int
	lastH    int
	last     Result
	lastOK   bool
}

// NewRenderer creates a renderer with an empty memo.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws the image at path into a width x height cell box.
func (r *Renderer) Render(path string, width, height int) (Result, error) {
	if r.lastOK && path == r.lastPath && width == r.lastW && height == r.lastH {
		return r.last, nil
	}

	res, err := render(path, width, height)
	if err != nil {
		r.lastOK = false
		return Result{}, err
	}

	r.lastPath, r.lastW, r.lastH = path, width, height
	r.last, r.lastOK = res, true
	return res, nil
}

// Invalidate drops the memoized render, forcing the next Render to redraw.
func (r *Renderer) Invalidate() {
	r.lastOK = false
}

func render(path string, width, height int) (Result, error) {
	if ti, err := termimg.Open(path); err == nil {
		out, rerr := ti.Width(width).Height(height).Render()
		if rerr == nil && strings.TrimSpace(out) != "" {
			return Result{Content: out}, nil
		}
	}

	content, err := blockRender(path, width, height)
	if err != nil {
		return Result{}, err
	}
	return Result{Content: content, IsFallback: true}, nil
}

// blockRender decodes the file and renders it as half-block cells.
func blockRender(path string, cols, rows int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := stdimage.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return thumbs.Blocks(img, cols, rows), nil
}

// SupportedTerminals names terminals with full-quality inline images.
func SupportedTerminals() string {
	return "kitty, iTerm2, WezTerm, Ghostty"
}
