package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// jpegQuality is used for every re-encoded cover.
const jpegQuality = 90

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Crop video thumbnails to a centered square
//   - Resize covers to the canonical square size
//   - Convert images to JPEG format (the only type embedded in tags)
//
// Example usage:
//
//	svc := NewImageService()
//
//	square, _ := svc.CropToSquare(ctx, thumbnail)
//	resized, _ := svc.ResizeImage(ctx, square, 1000, 1000)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// CropToSquare cuts the largest centered square out of an image.
//
// A 1280x720 thumbnail becomes the 720x720 region starting at x=280.
// The result is JPEG-encoded.
func (s *ImageService) CropToSquare(ctx context.Context, data []byte) ([]byte, error) {
	img, err := decode(ctx, data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	src := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)

	return encodeJPEG(dst)
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Square images are always scaled to exactly
// maxWidth x maxHeight when those are equal, so every cropped cover ends up
// at the same canonical size.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
//	// A 1500x1000 image becomes 1000x666
//	// A 720x720 image becomes 1000x1000
//	// A 800x600 image remains 800x600 (but re-encoded)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, err := decode(ctx, data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG converts an image to JPEG format.
//
// If the input is already JPEG, it will be re-encoded.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, err := decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// fitWithin computes the target size for a width x height image.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width == height && maxWidth == maxHeight {
		return maxWidth, maxHeight
	}
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		return int(float64(maxHeight) * ratio), maxHeight
	}
	// Width is the limiting factor
	return maxWidth, int(float64(maxWidth) / ratio)
}

func decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
