//go:build !windows

package hotkey

// X11 keysyms. XK_F1..XK_F24 are contiguous.
const functionKeyBase uint16 = 0xffbe

// Letters map to both cases since Shift changes the keysym.
func letterRawcodes(c byte) []uint16 {
	return []uint16{uint16(c), uint16(c - 'a' + 'A')}
}

var namedKeys = map[string][]uint16{
	"ctrl":  {0xffe3, 0xffe4}, // XK_Control_L, XK_Control_R
	"alt":   {0xffe9, 0xffea}, // XK_Alt_L, XK_Alt_R
	"shift": {0xffe1, 0xffe2}, // XK_Shift_L, XK_Shift_R
	"win":   {0xffeb, 0xffec}, // XK_Super_L, XK_Super_R
	"cmd":   {0xffeb, 0xffec},
	"super": {0xffeb, 0xffec},

	"space":     {0x0020},
	"enter":     {0xff0d},
	"return":    {0xff0d},
	"esc":       {0xff1b},
	"escape":    {0xff1b},
	"tab":       {0xff09},
	"backspace": {0xff08},
	"delete":    {0xffff},
	"del":       {0xffff},
	"insert":    {0xff63},
	"ins":       {0xff63},
	"home":      {0xff50},
	"end":       {0xff57},
	"pageup":    {0xff55},
	"pgup":      {0xff55},
	"pagedown":  {0xff56},
	"pgdn":      {0xff56},

	"left":  {0xff51},
	"up":    {0xff52},
	"right": {0xff53},
	"down":  {0xff54},
}
