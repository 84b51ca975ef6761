//go:build windows

package main

import (
	"log"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const processPerMonitorDPIAware = 2

var procSetProcessDpiAwareness = windows.NewLazySystemDLL("shcore.dll").NewProc("SetProcessDpiAwareness")

// enableDPIAwareness makes window and capture coordinates physical pixels.
// Per-monitor awareness needs Windows 8.1; older systems get system-wide.
func enableDPIAwareness() {
	if err := procSetProcessDpiAwareness.Find(); err == nil {
		hr, _, _ := procSetProcessDpiAwareness.Call(processPerMonitorDPIAware)
		if hr == 0 {
			log.Printf("DPI: per-monitor awareness enabled")
			return
		}
		log.Printf("DPI: SetProcessDpiAwareness failed: %#x", hr)
	}
	if win.SetProcessDPIAware() {
		log.Printf("DPI: system awareness enabled")
	} else {
		log.Printf("DPI: no DPI awareness set")
	}
}

func logVirtualScreen() {
	log.Printf("MONITOR: virtual screen x:%d y:%d w:%d h:%d",
		win.GetSystemMetrics(win.SM_XVIRTUALSCREEN),
		win.GetSystemMetrics(win.SM_YVIRTUALSCREEN),
		win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN),
		win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN))
}
