package media

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

const maxJPEGQuality = 100

func (p *Processor) DecodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media - DecodeFile - imaging.Open: %w", err)
	}
	return img, nil
}

// EncodedType is the content type Encode produces for a source of
// contentType: PNG stays PNG, everything else becomes JPEG.
func EncodedType(contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "png") {
		return "image/png"
	}
	return "image/jpeg"
}

func (p *Processor) Encode(img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer

	var err error
	if EncodedType(contentType) == "image/png" {
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(maxJPEGQuality))
	}
	if err != nil {
		return nil, fmt.Errorf("media - Encode - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}

func (p *Processor) Resize(img image.Image, dim int) image.Image {
	return imaging.Fit(img, dim, dim, imaging.Lanczos)
}

func (p *Processor) AverageColor(img image.Image) string {
	if img.Bounds().Empty() {
		return ""
	}
	px := imaging.Resize(img, 1, 1, imaging.Box)
	c := px.NRGBAAt(0, 0)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
