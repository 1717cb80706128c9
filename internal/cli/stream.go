package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// wireMessage is a frame in either direction: an event name plus payload
type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newCreateCmd() *cobra.Command {
	var maxScore int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room as host and stream its events",
		Long: `Connect to the server, create a room, and stream events as the host.

The room code is printed once the server confirms creation. Press Ctrl+C
to disconnect; the room stays open for host rejoin.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]any{"maxScore": maxScore})
			return streamSession(wireMessage{Event: "create_room", Data: payload})
		},
	}

	cmd.Flags().IntVar(&maxScore, "max-score", 0, "Points needed to win (0 for server default)")

	return cmd
}

func newJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <code> <name>",
		Short: "Join a room as a player and stream its events",
		Long: `Connect to the server, join the given room under the given name, and
stream events as a player.

Rejoining after a disconnect works by using the same name. Press Ctrl+C
to disconnect.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{
				"roomCode":   strings.ToUpper(args[0]),
				"playerName": args[1],
			})
			return streamSession(wireMessage{Event: "join_room", Data: payload})
		},
	}

	return cmd
}

// streamSession dials the websocket endpoint, sends one opening command and
// prints every server event until interrupted
func streamSession(opening wireMessage) error {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.WriteJSON(opening); err != nil {
		return fmt.Errorf("failed to send %s: %w", opening.Event, err)
	}

	jsonOutput := cfg.Output == "json"
	if !jsonOutput {
		fmt.Printf("Connected to %s\n", wsURL)
	}

	// Close the socket on cancellation so the read loop unblocks
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printEvent(msg, jsonOutput)
	}
}

func printEvent(msg wireMessage, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(msg)
		fmt.Println(string(data))
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	displayData := string(msg.Data)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	fmt.Printf("[%s] %s: %s\n", timestamp, msg.Event, displayData)
}
