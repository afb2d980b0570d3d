package figdraw

import "image/color"

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are not premultiplied;
// use Packed to obtain the premultiplied wire representation.
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Packed returns the premultiplied 8-bit RGBA packing of the color, the
// representation used by display-list opcode records.
func (c RGBA) Packed() PackedColor {
	a := clamp01(c.A)
	r := uint32(clamp255(c.R * a * 255))
	g := uint32(clamp255(c.G * a * 255))
	b := uint32(clamp255(c.B * a * 255))
	return PackedColor(r<<24 | g<<16 | b<<8 | uint32(clamp255(a*255)))
}

// PackedColor is a premultiplied color packed as 0xRRGGBBAA. It is the
// fixed-size color representation carried inside display-list records.
type PackedColor uint32

// Unpack expands the packed color back into float components. The result
// has premultiplication undone; fully transparent unpacks to the zero RGBA.
func (p PackedColor) Unpack() RGBA {
	a := float64(uint32(p)&0xff) / 255
	if a == 0 {
		return RGBA{}
	}
	return RGBA{
		R: float64(uint32(p)>>24&0xff) / 255 / a,
		G: float64(uint32(p)>>16&0xff) / 255 / a,
		B: float64(uint32(p)>>8&0xff) / 255 / a,
		A: a,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Predefined colors.
var (
	Black       = RGBA{R: 0, G: 0, B: 0, A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Transparent = RGBA{}
)
