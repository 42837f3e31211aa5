package scanning

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/heic"
)

// NormalizedMIMEType is the encoding every normalized image is written in
const NormalizedMIMEType = "image/jpeg"

// Image is an encoded image ready for recognition
type Image struct {
	MIMEType string
	Data     []byte
	Width    int
	Height   int
}

// DataURL returns the image as a base64 data URL
func (i *Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Normalize decodes the source into a bitmap and re-encodes it as JPEG at its
// native dimensions. No resizing or filtering is applied.
func Normalize(src Source) (*Image, error) {
	if len(src.Data) == 0 {
		return nil, fmt.Errorf("decoding image: empty image data")
	}

	img, err := decodeImage(src.Data, src.ContentType)
	if err != nil {
		return nil, err
	}

	return EncodeFrame(img)
}

// EncodeFrame encodes a bitmap as a normalized JPEG image
func EncodeFrame(img image.Image) (*Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Image{
		MIMEType: NormalizedMIMEType,
		Data:     buf.Bytes(),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

func decodeImage(data []byte, mimeType string) (image.Image, error) {
	// Go's image packages don't know HEIC, phone cameras produce it
	if isHEICFormat(data) || isHEICMimeType(mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, BMP, TIFF, HEIC, HEIF. Error: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// isHEICFormat checks for an ftyp box with a HEIC-family brand at offset 4
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// IsImageType reports whether a MIME type names an image, the same filter
// an "image/*" picker applies.
func IsImageType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(mimeType, "image/")
}
