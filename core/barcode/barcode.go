package barcode

import (
	"errors"
	"fmt"
)

// Format identifies a barcode symbology as reported by scanners.
type Format string

const (
	FormatQRCode     Format = "qr_code"
	FormatAztec      Format = "aztec"
	FormatDataMatrix Format = "data_matrix"
	FormatPDF417     Format = "pdf417"
	FormatCode128    Format = "code_128"
	FormatCode39     Format = "code_39"
	FormatCodabar    Format = "codabar"
	FormatEAN13      Format = "ean_13"
	FormatEAN8       Format = "ean_8"
	FormatUPCA       Format = "upc_a"
	FormatUPCE       Format = "upc_e"
	FormatITF        Format = "itf"
)

// DefaultSize is the rendered image size in pixels when none is requested.
const DefaultSize = 256

var (
	// ErrUnknownFormat is returned for format names outside the known set.
	ErrUnknownFormat = errors.New("unknown barcode format")
	// ErrUnsupportedFormat is returned for known formats without a renderer.
	ErrUnsupportedFormat = errors.New("unsupported barcode format")
	// ErrEmptyValue is returned when there is nothing to encode.
	ErrEmptyValue = errors.New("value cannot be empty")
	// ErrInvalidSize is returned for non-positive image sizes.
	ErrInvalidSize = errors.New("size must be positive")
)

// Renderer encodes a value into image bytes of the given pixel size.
type Renderer func(value string, size int) ([]byte, error)

// renderers is the process-wide symbology table. Built once at startup and
// never mutated afterwards.
var renderers = map[Format]Renderer{
	FormatQRCode: renderQR,
}

// knownFormats covers every symbology a scanner may report, renderable or not.
var knownFormats = map[Format]struct{}{
	FormatQRCode:     {},
	FormatAztec:      {},
	FormatDataMatrix: {},
	FormatPDF417:     {},
	FormatCode128:    {},
	FormatCode39:     {},
	FormatCodabar:    {},
	FormatEAN13:      {},
	FormatEAN8:       {},
	FormatUPCA:       {},
	FormatUPCE:       {},
	FormatITF:        {},
}

// Known reports whether f is a recognized symbology name.
func Known(f Format) bool {
	_, ok := knownFormats[f]
	return ok
}

// Renderable reports whether f has a registered renderer.
func Renderable(f Format) bool {
	_, ok := renderers[f]
	return ok
}

// Render encodes value into a PNG image of the given symbology. Size is in
// pixels; pass 0 for DefaultSize.
func Render(f Format, value string, size int) ([]byte, error) {
	if value == "" {
		return nil, ErrEmptyValue
	}
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	if !Known(f) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	render, ok := renderers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return render(value, size)
}
