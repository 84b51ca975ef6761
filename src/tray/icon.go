package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"runtime"
)

const iconSize = 32

var (
	lensRim    = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	lensGlass  = color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0x60}
	lensHandle = color.RGBA{R: 0x66, G: 0x44, B: 0x22, A: 0xff}
)

// Icon returns the tray icon in the format systray expects on this
// platform: ICO on Windows, PNG elsewhere.
func Icon() []byte {
	data := iconPNG()
	if runtime.GOOS == "windows" {
		return icoFromPNG(data, iconSize)
	}
	return data
}

// drawIcon paints a magnifying glass.
func drawIcon(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size) / 32
	cx, cy := 13*s, 13*s
	inner, outer := 8*s, 11*s

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			d := math.Hypot(px-cx, py-cy)
			switch {
			case d <= inner:
				img.SetRGBA(x, y, lensGlass)
			case d <= outer:
				img.SetRGBA(x, y, lensRim)
			case onSegment(px, py, 21*s, 21*s, 30*s, 30*s, 2.5*s):
				img.SetRGBA(x, y, lensHandle)
			}
		}
	}
	return img
}

// onSegment reports whether (px,py) lies within r of the segment a-b.
func onSegment(px, py, ax, ay, bx, by, r float64) bool {
	dx, dy := bx-ax, by-ay
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy)) <= r
}

func iconPNG() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, drawIcon(iconSize)); err != nil {
		return nil
	}
	return buf.Bytes()
}

// icoFromPNG wraps PNG data in a single-image ICO container.
func icoFromPNG(data []byte, size int) []byte {
	var buf bytes.Buffer
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Reserved, Type, Count uint16
	}{0, 1, 1})
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{dim, dim, 0, 0, 1, 32, uint32(len(data)), 6 + 16})
	buf.Write(data)
	return buf.Bytes()
}
