package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"
)

type tcpClient struct{ port int }

func newTcpClient(port int) Client { return &tcpClient{port: port} }

func (c *tcpClient) Send(ctx context.Context, cmd string) (bool, string, error) {
	deadline := timeoutFrom(ctx, 2*time.Second)
	addr := residentAddr(c.port)
	if !ping(addr, deadline) {
		return false, "", nil
	}
	conn, err := net.DialTimeout("tcp", addr, deadline)
	if err != nil {
		return false, "", nil
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(deadline))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(cmd + "\n"); err != nil {
		return true, "", err
	}
	if err := w.Flush(); err != nil {
		return true, "", err
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return true, "", err
	}
	switch status {
	case "SUCCESS\n":
		b, _ := io.ReadAll(br)
		return true, string(b), nil
	case "ERROR\n":
		msg, _ := io.ReadAll(br)
		return true, "", errors.New(string(msg))
	default:
		return true, "", errors.New("singleinstance: unexpected reply " + status)
	}
}
