package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"screen-magnifier/src/config"
	"screen-magnifier/src/singleinstance"
)

type stressOptions struct {
	n        int
	port     int
	deadline time.Duration
}

type tally struct {
	ok, busy, absent, failed int32
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-snapshot",
		Short:         "Stress test snapshot delegation to a running magnifier",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.port == 0 {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				opts.port = cfg.SingleInstancePort
			}
			client := singleinstance.NewClient(opts.port)
			return runWithOptions(*opts, client, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().IntVar(&opts.port, "port", 0, "resident port (default from SINGLEINSTANCE_PORT)")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(opts stressOptions, client singleinstance.Client, out io.Writer) error {
	var wg sync.WaitGroup
	var t tally

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			delegated, _, err := client.Send(ctx, singleinstance.CommandSnapshot)
			t.record(delegated, err)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)
	fmt.Fprintf(out, "launched=%d ok=%d busy=%d absent=%d err=%d elapsed=%s\n",
		opts.n, t.ok, t.busy, t.absent, t.failed, elapsed)
	return nil
}

func (t *tally) record(delegated bool, err error) {
	switch {
	case err != nil && err.Error() == singleinstance.ReplyBusy:
		atomic.AddInt32(&t.busy, 1)
	case err != nil:
		atomic.AddInt32(&t.failed, 1)
	case delegated:
		atomic.AddInt32(&t.ok, 1)
	default:
		atomic.AddInt32(&t.absent, 1)
	}
}
