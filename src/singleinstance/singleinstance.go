package singleinstance

// This file defines the API for single-instance ownership and command delegation.

import (
	"context"
	"errors"
)

// ErrAlreadyRunning is returned by Server.Start when another magnifier
// answers on the port.
var ErrAlreadyRunning = errors.New("singleinstance: a magnifier is already running")

// Commands a client can send to the resident.
const (
	CommandSnapshot = "SNAPSHOT"
	CommandQuit     = "QUIT"
)

// ReplyBusy is the error a resident sends when it cannot take a snapshot yet.
const ReplyBusy = "busy, please retry"

// Server owns the TCP endpoint and answers delegated commands.
type Server interface {
	// Start binds the configured port on loopback and begins accepting clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	// Request returns the parsed client request.
	Request() Request
	// RespondSuccess sends success with an optional message.
	RespondSuccess(text string) error
	// RespondError sends an error with human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Request represents a single delegated command.
type Request struct {
	Command string
}

// Client delegates a command to a resident server.
type Client interface {
	// Send pings the resident and forwards cmd. If no resident answers,
	// returns delegated=false, err=nil.
	Send(ctx context.Context, cmd string) (delegated bool, reply string, err error)
}

// NewServer returns TCP implementation.
func NewServer(port int) Server { return newTcpServer(resolvePort(port)) }

// NewClient returns TCP implementation.
func NewClient(port int) Client { return newTcpClient(resolvePort(port)) }

const defaultPort = 49600

// resolvePort falls back to the default for ports outside [1024, 65535].
func resolvePort(port int) int {
	if port < 1024 || port > 65535 {
		return defaultPort
	}
	return port
}
