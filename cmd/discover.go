package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codencytech/smartdesk-mirror/internal/discovery"
)

func discoverCmd() *cobra.Command {
	var (
		port    int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Probe the local network for SmartDesk hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts, err := discovery.Probe(context.Background(), discovery.BroadcastAddr(port), timeout)
			if err != nil {
				return err
			}
			if len(hosts) == 0 {
				fmt.Println("No hosts found.")
				return nil
			}
			for _, h := range hosts {
				code := h.Code
				if code == "" {
					code = "(no active code)"
				}
				fmt.Printf("%s  %s:%d  code=%s\n", h.Name, h.IP, h.Port, code)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 8001, "discovery port to probe")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to wait for replies")
	return cmd
}
