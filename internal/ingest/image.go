package ingest

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the re-encoding quality for resized JPEG images.
const JPEGQuality = 90

// ImageTranscoder resizes images with disintegration/imaging. Resizing keeps
// the aspect ratio and never enlarges.
type ImageTranscoder struct {
	quality int
}

func NewImageTranscoder(quality int) *ImageTranscoder {
	return &ImageTranscoder{quality: quality}
}

func (t *ImageTranscoder) Transcode(data []byte, ext string, width int) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}

	var img image.Image
	img, err = imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ext, err)
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	return buf.Bytes(), nil
}
