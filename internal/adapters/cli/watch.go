package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var eventsOnly bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live world events",
		Long: `Subscribe to the daemon and stream lifecycle events as they happen.

The daemon sends the full world snapshot first, then every construction,
damage, destruction and activation event in simulation order. Stop with
Ctrl-C.

Examples:
  rts watch
  rts watch --events-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(eventsOnly)
		},
	}

	cmd.Flags().BoolVar(&eventsOnly, "events-only", false, "Skip the initial snapshot listing")

	return cmd
}

// runWatch executes the watch command until interrupted
func runWatch(eventsOnly bool) error {
	client, err := connectDaemon()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Subscribe(ctx); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	frames := make(chan *WatchFrame)
	readErr := make(chan error, 1)
	go func() {
		for {
			frame, err := client.NextFrame()
			if err != nil {
				readErr <- err
				return
			}
			frames <- frame
		}
	}()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", gatewayAddr)
	for {
		select {
		case <-interrupt:
			fmt.Println("\nStopped")
			return nil
		case err := <-readErr:
			return fmt.Errorf("stream closed: %w", err)
		case frame := <-frames:
			printFrame(frame, eventsOnly)
		}
	}
}

// printFrame renders one streamed frame
func printFrame(frame *WatchFrame, eventsOnly bool) {
	now := time.Now().Format("15:04:05")

	if frame.Snapshot != nil {
		fmt.Printf("%s  snapshot: %d structures, %d teams\n",
			now, len(frame.Snapshot.Buildings), len(frame.Snapshot.Teams))
		if !eventsOnly && len(frame.Snapshot.Buildings) > 0 {
			printBuildingTable(frame.Snapshot.Buildings)
		}
		return
	}

	event := frame.Event
	fmt.Printf("%s  %-18s %s (team %d)", now, event.Event, event.BuildingID, event.TeamID)
	if verbose && len(event.Data) > 0 {
		fmt.Printf("  %s", string(event.Data))
	}
	fmt.Println()
}
