package core

import "strings"

// MaxRoomNameLen bounds room names so a malicious client cannot grow
// the directory with arbitrarily long names.
const MaxRoomNameLen = 20

// DefaultRooms pre-exist at startup.
var DefaultRooms = []string{"general", "random", "tech", "gaming"}

// NormalizeRoom canonicalizes a room name: trimmed, lowercased, and
// truncated to MaxRoomNameLen runes. Returns "" for blank input.
func NormalizeRoom(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if runes := []rune(name); len(runes) > MaxRoomNameLen {
		name = string(runes[:MaxRoomNameLen])
	}
	return name
}

// RoomDirectory is the set of known room names. Rooms are created
// lazily on first join and never deleted. Not safe for concurrent
// use; the hub loop is its only caller.
type RoomDirectory struct {
	known map[string]struct{}
	order []string // insertion order, for a stable catalog
}

// NewRoomDirectory constructs a directory seeded with the given rooms.
func NewRoomDirectory(seed ...string) *RoomDirectory {
	d := &RoomDirectory{known: make(map[string]struct{})}
	for _, name := range seed {
		d.Ensure(name)
	}
	return d
}

// Ensure creates the room if it does not exist. Returns the normalized
// name and whether the room was newly created. Blank names are invalid
// and return created=false with an empty name.
func (d *RoomDirectory) Ensure(name string) (string, bool) {
	name = NormalizeRoom(name)
	if name == "" {
		return "", false
	}
	if _, ok := d.known[name]; ok {
		return name, false
	}
	d.known[name] = struct{}{}
	d.order = append(d.order, name)
	return name, true
}

// Has reports whether the room exists.
func (d *RoomDirectory) Has(name string) bool {
	_, ok := d.known[NormalizeRoom(name)]
	return ok
}

// List returns all room names in creation order.
func (d *RoomDirectory) List() []string {
	return append([]string(nil), d.order...)
}
