// Command ws_chat is a minimal interactive terminal client for manual
// testing against a running chatrelay server.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/chatrelay/chatrelay-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "username")
	room := flag.String("room", "general", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	joinPayload, err := json.Marshal(proto.JoinData{Username: *user, Room: *room})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoin, Data: joinPayload}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *user, *room)
	fmt.Println("Type messages and press Enter to send. /room <name> switches rooms. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func decodeEvent(data any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			fmt.Printf("error: %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			continue
		}

		switch outbound.Event {
		case proto.EventNameMessage:
			var evt proto.MessagePayload
			if err := decodeEvent(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			if evt.IsPrivate {
				fmt.Printf("[private] %s: %s\n", evt.Sender, evt.Text)
			} else {
				fmt.Printf("[%s] %s: %s\n", evt.Room, evt.Sender, evt.Text)
			}
		case proto.EventNameUserJoined:
			var evt proto.EventUserJoined
			if err := decodeEvent(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal user_joined: %v", err)
				continue
			}
			fmt.Printf("[room %s] %s joined\n", evt.Room, evt.User)
		case proto.EventNameUserLeft:
			var evt proto.EventUserLeft
			if err := decodeEvent(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal user_left: %v", err)
				continue
			}
			fmt.Printf("[room %s] %s left\n", evt.Room, evt.User)
		case proto.EventNameTypingUsers:
			var evt proto.EventTypingUsers
			if err := decodeEvent(outbound.Data, &evt); err != nil {
				continue
			}
			if len(evt.Users) > 0 {
				fmt.Printf("[room %s] typing: %s\n", evt.Room, strings.Join(evt.Users, ", "))
			}
		case proto.EventNameRooms:
			var evt proto.EventRooms
			if err := decodeEvent(outbound.Data, &evt); err != nil {
				continue
			}
			fmt.Printf("rooms: %s\n", strings.Join(evt.Rooms, ", "))
		case proto.EventNameHistory, proto.EventNameMessageSent, proto.EventNameUserList:
			// Quiet by default.
		default:
			fmt.Printf("event=%s data=%v\n", outbound.Event, outbound.Data)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	send := func(msgType string, data any) {
		payload, err := json.Marshal(data)
		if err != nil {
			log.Printf("marshal %s: %v", msgType, err)
			return
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
			log.Printf("send error: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			if room, found := strings.CutPrefix(text, "/room "); found {
				send(proto.InboundTypeChangeRoom, proto.ChangeRoomData{Room: room})
				continue
			}
			send(proto.InboundTypeMsg, proto.MsgData{Text: text})
		}
	}
}
