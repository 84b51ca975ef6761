//go:build !windows

package main

// enableDPIAwareness is a no-op; X11 reports physical pixels already.
func enableDPIAwareness() {}

func logVirtualScreen() {}
