// Package barcode renders stored code values into scannable images.
//
// The mapping from symbology to renderer is an immutable table constructed
// once at package initialization; formats without a renderer are reported
// via ErrUnsupportedFormat so the caller can fall back to plain-text
// display.
//
// Currently QR codes are rendered as PNG with medium error correction:
//
//	png, err := barcode.Render(barcode.FormatQRCode, "https://example.com", 256)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// For direct HTML embedding a base64 data URI variant is provided:
//
//	dataURI, err := barcode.RenderBase64Image(barcode.FormatQRCode, "https://example.com", 256)
//	// <img src="data:image/png;base64,...">
package barcode
