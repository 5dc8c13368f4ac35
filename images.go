package jwsite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	ogImageWidth  = 1200
	ogImageHeight = 627
	maxDimension  = 2400
	jpegQuality   = 80
)

// OGImageURL returns the absolute URL of an asset cropped to Open Graph size.
func OGImageURL(base, asset string) string {
	return fmt.Sprintf("%s?w=%d&h=%d", AbsoluteURL(base, "/images/"+asset), ogImageWidth, ogImageHeight)
}

// transformImage decodes src, crops it to the w:h aspect ratio around the
// center, scales it to w×h, and encodes it as JPEG. A zero w or h keeps the
// source aspect ratio; both zero keeps the source size. The output never
// exceeds maxDimension on either side.
func transformImage(src io.Reader, w, h int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	if sw == 0 || sh == 0 {
		return nil, errors.New("decode image: empty image")
	}

	switch {
	case w == 0 && h == 0:
		w, h = sw, sh
	case h == 0:
		h = max(1, sh*w/sw)
	case w == 0:
		w = max(1, sw*h/sh)
	}
	w, h = clampDimensions(w, h)

	crop := cropRect(bounds, w, h)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// clampDimensions scales w×h down, keeping its aspect ratio, until neither
// side exceeds maxDimension.
func clampDimensions(w, h int) (int, int) {
	if w > maxDimension {
		h = max(1, h*maxDimension/w)
		w = maxDimension
	}
	if h > maxDimension {
		w = max(1, w*maxDimension/h)
		h = maxDimension
	}
	return w, h
}

// cropRect returns the largest centered rectangle of b with aspect w:h.
func cropRect(b image.Rectangle, w, h int) image.Rectangle {
	sw, sh := b.Dx(), b.Dy()
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := b.Min.X + (sw-cw)/2
		return image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	}
	ch := sw * h / w
	y0 := b.Min.Y + (sh-ch)/2
	return image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
}

// parseDimension reads an optional w or h query value.
func parseDimension(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxDimension {
		return 0, fmt.Errorf("dimension must be between 1 and %d", maxDimension)
	}
	return n, nil
}

func (a *App) handleImage(c echo.Context) error {
	name := c.Param("file")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return echo.ErrNotFound
	}

	w, err := parseDimension(c.QueryParam("w"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid width: "+err.Error())
	}
	h, err := parseDimension(c.QueryParam("h"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid height: "+err.Error())
	}

	f, err := os.Open(filepath.Join(a.Config.ImagesDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	defer f.Close()

	data, err := transformImage(f, w, h)
	if err != nil {
		return c.String(http.StatusUnprocessableEntity, "Invalid image")
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
