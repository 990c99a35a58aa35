package storage

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor produces gallery thumbnails.
type ImageProcessor struct {
	// Size is the bounding box edge in pixels.
	Size    int
	Quality int
}

func NewImageProcessor(size int) *ImageProcessor {
	return &ImageProcessor{Size: size, Quality: 80}
}

// Thumbnail fits the image into a Size x Size box, honouring EXIF orientation,
// and encodes it as JPEG.
func (p *ImageProcessor) Thumbnail(content io.Reader) ([]byte, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := imaging.Fit(img, p.Size, p.Size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
