//go:build windows

package hotkey

import "github.com/lxn/win"

// Virtual key codes: letters are the upper-case ASCII codes.
const functionKeyBase = uint16(win.VK_F1)

func letterRawcodes(c byte) []uint16 {
	return []uint16{uint16(c - 'a' + 'A')}
}

var namedKeys = map[string][]uint16{
	"ctrl":  {win.VK_LCONTROL, win.VK_RCONTROL},
	"alt":   {win.VK_LMENU, win.VK_RMENU},
	"shift": {win.VK_LSHIFT, win.VK_RSHIFT},
	"win":   {win.VK_LWIN, win.VK_RWIN},
	"cmd":   {win.VK_LWIN, win.VK_RWIN},
	"super": {win.VK_LWIN, win.VK_RWIN},

	"space":     {win.VK_SPACE},
	"enter":     {win.VK_RETURN},
	"return":    {win.VK_RETURN},
	"esc":       {win.VK_ESCAPE},
	"escape":    {win.VK_ESCAPE},
	"tab":       {win.VK_TAB},
	"backspace": {win.VK_BACK},
	"delete":    {win.VK_DELETE},
	"del":       {win.VK_DELETE},
	"insert":    {win.VK_INSERT},
	"ins":       {win.VK_INSERT},
	"home":      {win.VK_HOME},
	"end":       {win.VK_END},
	"pageup":    {win.VK_PRIOR},
	"pgup":      {win.VK_PRIOR},
	"pagedown":  {win.VK_NEXT},
	"pgdn":      {win.VK_NEXT},

	"left":  {win.VK_LEFT},
	"up":    {win.VK_UP},
	"right": {win.VK_RIGHT},
	"down":  {win.VK_DOWN},
}
