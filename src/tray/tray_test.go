package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"
)

func TestIconPNGDecodes(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconPNG()))
	if err != nil {
		t.Fatalf("decode icon: %v", err)
	}
	if img.Bounds().Dx() != iconSize || img.Bounds().Dy() != iconSize {
		t.Errorf("icon size = %v", img.Bounds())
	}
	if _, _, _, a := img.At(13, 13).RGBA(); a == 0 {
		t.Error("lens centre is transparent")
	}
	if _, _, _, a := img.At(0, 31).RGBA(); a != 0 {
		t.Error("corner is not transparent")
	}
}

func TestIcoFromPNG(t *testing.T) {
	data := iconPNG()
	ico := icoFromPNG(data, iconSize)
	if len(ico) != 6+16+len(data) {
		t.Fatalf("ico length = %d", len(ico))
	}
	if binary.LittleEndian.Uint16(ico[2:]) != 1 || binary.LittleEndian.Uint16(ico[4:]) != 1 {
		t.Error("bad ICO header")
	}
	if ico[6] != iconSize || ico[7] != iconSize {
		t.Errorf("entry size = %dx%d", ico[6], ico[7])
	}
	if off := binary.LittleEndian.Uint32(ico[18:]); off != 22 {
		t.Errorf("image offset = %d", off)
	}
	if !bytes.Equal(ico[22:], data) {
		t.Error("PNG payload not embedded verbatim")
	}
}

func TestZoomTooltip(t *testing.T) {
	if got := ZoomTooltip(2); got != "Magnifier 2x" {
		t.Errorf("ZoomTooltip(2) = %q", got)
	}
	if got := ZoomTooltip(2.5); got != "Magnifier 2.5x" {
		t.Errorf("ZoomTooltip(2.5) = %q", got)
	}
}

func TestUpdateTooltipBeforeReadyIsIgnored(t *testing.T) {
	UpdateTooltip("ignored")
	Status("ignored")
}
