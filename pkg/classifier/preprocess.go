package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"food-recognizer/domain"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	resizeSize = 256
	cropSize   = 224

	maxImageSide   = 12000
	maxImagePixels = 40_000_000
)

var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Preprocess decodes an image and turns it into a normalized 1x3x224x224
// tensor. The geometry is that of resizing the shorter side to 256 and
// taking the center 224 crop, but only the crop region is ever scaled.
func Preprocess(raw []byte) (Tensor, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Tensor{}, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}
	if cfg.Width > maxImageSide || cfg.Height > maxImageSide || cfg.Width*cfg.Height > maxImagePixels {
		return Tensor{}, fmt.Errorf("%w: %dx%d exceeds size limit", domain.ErrInvalidImage, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Tensor{}, fmt.Errorf("%w: empty image", domain.ErrInvalidImage)
	}

	// a cropSize square in resized space is side pixels in source space
	side := max(min(w, h)*cropSize/resizeSize, 1)
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, cropSize, cropSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	plane := cropSize * cropSize
	data := make([]float32, 3*plane)
	for y := 0; y < cropSize; y++ {
		row := y * dst.Stride
		for x := 0; x < cropSize; x++ {
			px := dst.Pix[row+x*4 : row+x*4+3]
			for c := 0; c < 3; c++ {
				v := float32(px[c]) / 255
				data[c*plane+y*cropSize+x] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}

	return Tensor{Shape: []int{1, 3, cropSize, cropSize}, Data: data}, nil
}
