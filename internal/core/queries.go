package core

import "context"

// Read-only snapshot queries, answered on the hub loop so REST
// handlers never race with event processing.

type queryKind int

const (
	queryRooms queryKind = iota
	queryUsers
	queryHistory
	queryAllHistory
)

type query struct {
	kind  queryKind
	room  string
	reply chan queryResult
}

type queryResult struct {
	rooms      []string
	users      []Session
	messages   []*Message
	byRoomLogs map[string][]*Message
}

func (h *Hub) ask(ctx context.Context, q query) (queryResult, error) {
	q.reply = make(chan queryResult, 1)
	select {
	case h.queries <- q:
	case <-ctx.Done():
		return queryResult{}, ctx.Err()
	case <-h.stopped:
		return queryResult{}, ErrHubStopped
	}
	select {
	case res := <-q.reply:
		return res, nil
	case <-ctx.Done():
		return queryResult{}, ctx.Err()
	}
}

func (h *Hub) answer(q query) {
	var res queryResult
	switch q.kind {
	case queryRooms:
		res.rooms = h.rooms.List()
	case queryUsers:
		res.users = h.sessions.List()
	case queryHistory:
		res.messages = h.history.List(NormalizeRoom(q.room))
	case queryAllHistory:
		res.byRoomLogs = h.history.All()
	}
	q.reply <- res
}

// Rooms returns the current room catalog.
func (h *Hub) Rooms(ctx context.Context) ([]string, error) {
	res, err := h.ask(ctx, query{kind: queryRooms})
	if err != nil {
		return nil, err
	}
	return res.rooms, nil
}

// Users returns all online sessions in join order.
func (h *Hub) Users(ctx context.Context) ([]Session, error) {
	res, err := h.ask(ctx, query{kind: queryUsers})
	if err != nil {
		return nil, err
	}
	return res.users, nil
}

// Histories returns a snapshot of every room's message log, keyed by
// room name.
func (h *Hub) Histories(ctx context.Context) (map[string][]*Message, error) {
	res, err := h.ask(ctx, query{kind: queryAllHistory})
	if err != nil {
		return nil, err
	}
	return res.byRoomLogs, nil
}

// RoomHistory returns a snapshot of a room's message log.
func (h *Hub) RoomHistory(ctx context.Context, room string) ([]*Message, error) {
	res, err := h.ask(ctx, query{kind: queryHistory, room: room})
	if err != nil {
		return nil, err
	}
	return res.messages, nil
}
