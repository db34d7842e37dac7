package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- hub.Run(ctx) }()

	room := RoomForTournament(7)
	if room != "tournament_7" {
		t.Fatalf("room = %q", room)
	}

	member := &Client{Hub: hub, Room: room, Send: make(chan []byte, 4)}
	other := &Client{Hub: hub, Room: RoomForTournament(8), Send: make(chan []byte, 4)}
	if !hub.Join(member) || !hub.Join(other) {
		t.Fatal("Join failed on a running hub")
	}
	waitFor(t, func() bool { return hub.RoomSize(room) == 1 })

	hub.BroadcastToRoom(room, WebSocketMessage{Type: EventGroupResult, Payload: map[string]int{"tournament_id": 7}, RoomID: room})

	select {
	case raw := <-member.Send:
		var msg WebSocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != EventGroupResult || msg.RoomID != room {
			t.Errorf("message = %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("member did not receive the broadcast")
	}
	select {
	case <-other.Send:
		t.Error("client of another room received the broadcast")
	default:
	}

	cancel()
	if err := <-stopped; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if _, ok := <-member.Send; ok {
		t.Error("send channel should be closed after shutdown")
	}
	if hub.Join(&Client{Hub: hub, Room: room, Send: make(chan []byte, 1)}) {
		t.Error("Join succeeded on a stopped hub")
	}
}

func TestHubUnregisterDropsEmptyRoom(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{Hub: hub, Room: "tournament_1", Send: make(chan []byte, 1)}
	hub.Join(c)
	waitFor(t, func() bool { return hub.RoomSize("tournament_1") == 1 })

	hub.leave(c)
	waitFor(t, func() bool { return hub.RoomSize("tournament_1") == 0 })

	// Broadcasting to an empty room is a no-op.
	hub.BroadcastToRoom("tournament_1", WebSocketMessage{Type: EventTournamentCreated})
}
