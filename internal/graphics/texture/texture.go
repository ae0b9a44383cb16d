package texture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"

	"planar-water/internal/graphics/gpu"

	_ "golang.org/x/image/bmp"
)

// ErrDecode is returned when a file exists but is not a readable image.
var ErrDecode = errors.New("texture decode failed")

// Image is decoded RGBA8 pixel data, bottom row first as GL expects.
type Image struct {
	Pix    []byte
	Width  int
	Height int
	// Channels is the channel count of the source image (1, 3 or 4).
	Channels int
}

// Options control how an image is sampled once uploaded.
type Options struct {
	Wrap    gpu.Wrap
	Filter  gpu.Filter
	Mipmaps bool
}

// Decode reads an image file (BMP, PNG or JPEG) and flips it vertically.
func Decode(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()
	return decode(file, path)
}

// DecodeFS is Decode for a file inside fsys, such as the embedded assets.
func DecodeFS(fsys fs.FS, name string) (*Image, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()
	return decode(file, name)
}

func decode(r io.Reader, name string) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	flipVertical(rgba)

	return &Image{
		Pix:      rgba.Pix,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: channels(img),
	}, nil
}

// Load decodes path and uploads it. On failure it returns handle 0, which
// leaves the sampler unbound, together with the error for the caller to report.
func Load(dev gpu.Device, path string, opts Options) (uint32, error) {
	img, err := Decode(path)
	if err != nil {
		return 0, err
	}
	return upload(dev, img, opts), nil
}

// LoadFS decodes name from fsys and uploads it, failing the same way as Load.
func LoadFS(dev gpu.Device, fsys fs.FS, name string, opts Options) (uint32, error) {
	img, err := DecodeFS(fsys, name)
	if err != nil {
		return 0, err
	}
	return upload(dev, img, opts), nil
}

func upload(dev gpu.Device, img *Image, opts Options) uint32 {
	return dev.CreateTexture(gpu.TextureDesc{
		Width:   img.Width,
		Height:  img.Height,
		Format:  gpu.RGBA,
		Pixels:  img.Pix,
		Filter:  opts.Filter,
		Wrap:    opts.Wrap,
		Mipmaps: opts.Mipmaps,
	})
}

func flipVertical(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}
