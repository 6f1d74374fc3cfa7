package export

import (
	"image/png"
	"io"

	"github.com/san-kum/sphfluid/internal/fluid"
)

// WritePNG encodes f with the bottom of the domain on the last row.
func WritePNG(w io.Writer, f *fluid.Frame) error {
	return png.Encode(w, f.Image())
}
