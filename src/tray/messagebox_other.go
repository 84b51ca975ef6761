//go:build !windows

package tray

import (
	"fmt"
	"os"
)

// ShowMessage prints the message to stderr.
func ShowMessage(title, message string, isError bool) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}
