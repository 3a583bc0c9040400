package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/proto"
	"github.com/chatrelay/chatrelay-server/internal/upload"
)

func getJSON(t *testing.T, ts string, path string, out any) {
	t.Helper()

	resp, err := http.Get(ts + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func TestListRoomsEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	var rooms []string
	getJSON(t, ts.URL, "/api/rooms", &rooms)

	if len(rooms) != len(core.DefaultRooms) {
		t.Fatalf("expected default rooms, got %v", rooms)
	}
}

func TestListUsersAndMessagesEndpoints(t *testing.T) {
	ts, hub := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: "alice", Room: "general"})
	readEvent(t, ctx, conn, proto.EventNameHistory)
	sendInbound(t, ctx, conn, proto.InboundTypeMsg, proto.MsgData{Text: "hello"})
	readEvent(t, ctx, conn, proto.EventNameMessageSent)

	var users []UserResponse
	getJSON(t, ts.URL, "/api/users", &users)
	if len(users) != 1 || users[0].Username != "alice" || users[0].Room != "general" {
		t.Fatalf("unexpected users: %+v", users)
	}

	var messages []proto.MessagePayload
	getJSON(t, ts.URL, "/api/messages/general", &messages)
	if len(messages) != 1 || messages[0].Text != "hello" {
		t.Fatalf("unexpected messages: %+v", messages)
	}

	// The hub snapshot matches what the API returned.
	stored, err := hub.RoomHistory(ctx, "general")
	if err != nil {
		t.Fatalf("history query: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != messages[0].ID {
		t.Fatalf("API and hub history disagree: %+v vs %+v", messages, stored)
	}
}

func TestAllMessagesEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Username: "alice", Room: "general"})
	readEvent(t, ctx, connA, proto.EventNameHistory)
	sendInbound(t, ctx, connA, proto.InboundTypeMsg, proto.MsgData{Text: "hello general"})
	readEvent(t, ctx, connA, proto.EventNameMessageSent)

	connB := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Username: "bob", Room: "tech"})
	readEvent(t, ctx, connB, proto.EventNameHistory)
	sendInbound(t, ctx, connB, proto.InboundTypeMsg, proto.MsgData{Text: "hello tech"})
	readEvent(t, ctx, connB, proto.EventNameMessageSent)

	var logs map[string][]proto.MessagePayload
	getJSON(t, ts.URL, "/api/messages", &logs)

	if len(logs["general"]) != 1 || logs["general"][0].Text != "hello general" {
		t.Fatalf("unexpected general log: %+v", logs["general"])
	}
	if len(logs["tech"]) != 1 || logs["tech"][0].Text != "hello tech" {
		t.Fatalf("unexpected tech log: %+v", logs["tech"])
	}
}

func postFile(t *testing.T, ts, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	resp, err := http.Post(ts+"/api/upload", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /api/upload: %v", err)
	}
	return resp
}

func TestUploadEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := postFile(t, ts.URL, "notes.txt", []byte("hello upload"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var desc upload.Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		t.Fatalf("decode descriptor: %v", err)
	}
	if desc.OriginalName != "notes.txt" || desc.Size != int64(len("hello upload")) {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}

	// Stored files are served back under /uploads.
	served, err := http.Get(ts.URL + desc.URL)
	if err != nil {
		t.Fatalf("GET %s: %v", desc.URL, err)
	}
	defer served.Body.Close()
	if served.StatusCode != http.StatusOK {
		t.Fatalf("stored file not served: %d", served.StatusCode)
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := postFile(t, ts.URL, "payload.exe", []byte{0x4d, 0x5a})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for disallowed type, got %d", resp.StatusCode)
	}
}
