package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Channel selects one 8-bit component of an RGB pixel.
type Channel string

const (
	Red   Channel = "red"
	Green Channel = "green"
	Blue  Channel = "blue"
)

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case Red, Green, Blue:
		return c, nil
	}
	return "", fmt.Errorf("unknown color channel '%s'", s)
}

// MeanChannel averages channel ch (0-255) over every pixel of img.
func MeanChannel(img image.Image, ch Channel) (float64, error) {
	b := img.Bounds()
	count := b.Dx() * b.Dy()
	if count <= 0 {
		return 0, ErrEmptyImage
	}

	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			switch ch {
			case Red:
				sum += uint64(c.R)
			case Green:
				sum += uint64(c.G)
			case Blue:
				sum += uint64(c.B)
			default:
				return 0, fmt.Errorf("unknown color channel '%s'", ch)
			}
		}
	}

	return float64(sum) / float64(count), nil
}
