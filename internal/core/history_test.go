package core

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedMessage(id, text string) *Message {
	return &Message{
		ID:        id,
		Sender:    "alice",
		SenderID:  "a",
		Room:      "general",
		Text:      text,
		CreatedAt: time.Now().UTC(),
		ReadBy:    make(map[string]time.Time),
		Reactions: make(map[string][]string),
	}
}

func fillHistory(h *History, room string, n int) {
	for i := 0; i < n; i++ {
		h.Append(room, storedMessage(fmt.Sprintf("m%d", i), fmt.Sprintf("text %d", i)))
	}
}

func TestHistoryBoundEvictsOldestFirst(t *testing.T) {
	h := NewHistory(5)
	fillHistory(h, "general", 7)

	require.Equal(t, 5, h.Len("general"))

	log := h.List("general")
	assert.Equal(t, "m2", log[0].ID, "oldest two entries must be evicted")
	assert.Equal(t, "m6", log[4].ID, "insertion order must be preserved")
	assert.Nil(t, h.Find("general", "m0"))
	assert.Nil(t, h.Find("general", "m1"))
}

func TestHistoryBoundIsPerRoom(t *testing.T) {
	h := NewHistory(3)
	fillHistory(h, "general", 4)
	fillHistory(h, "tech", 2)

	assert.Equal(t, 3, h.Len("general"))
	assert.Equal(t, 2, h.Len("tech"))
}

func TestHistoryPageReconstructsLog(t *testing.T) {
	h := NewHistory(0)
	fillHistory(h, "general", 120)

	const limit = 50
	seen := make(map[string]struct{})
	page := 0
	for {
		msgs, hasMore := h.Page("general", page, limit)
		for _, m := range msgs {
			_, dup := seen[m.ID]
			require.False(t, dup, "duplicate message %s on page %d", m.ID, page)
			seen[m.ID] = struct{}{}
		}
		if !hasMore {
			require.NotEmpty(t, msgs, "the page with the oldest message must not be empty")
			assert.Equal(t, "m0", msgs[0].ID, "last page must contain the oldest entry")
			break
		}
		page++
	}

	assert.Len(t, seen, 120, "pages must cover the full log with no gaps")
	assert.Equal(t, 2, page, "120 entries at limit 50 span three pages")
}

func TestHistoryPageTail(t *testing.T) {
	h := NewHistory(0)
	fillHistory(h, "general", 5)

	msgs, hasMore := h.Page("general", 0, 2)
	require.Len(t, msgs, 2)
	assert.True(t, hasMore)
	assert.Equal(t, "m3", msgs[0].ID)
	assert.Equal(t, "m4", msgs[1].ID)

	msgs, hasMore = h.Page("general", 5, 2)
	assert.Empty(t, msgs)
	assert.False(t, hasMore)
}

func TestHistoryPageOutOfRange(t *testing.T) {
	h := NewHistory(0)
	fillHistory(h, "general", 5)

	for _, page := range []int{3, 6148914691236517205, math.MaxInt} {
		msgs, hasMore := h.Page("general", page, 3)
		assert.Empty(t, msgs, "page %d is past the log", page)
		assert.False(t, hasMore)
	}

	msgs, hasMore := h.Page("general", 0, math.MaxInt)
	require.Len(t, msgs, 5, "an oversized limit returns the whole log")
	assert.False(t, hasMore)

	msgs, hasMore = h.Page("general", -1, 3)
	assert.Empty(t, msgs)
	assert.False(t, hasMore)

	msgs, hasMore = h.Page("general", 0, 0)
	assert.Empty(t, msgs)
	assert.False(t, hasMore)
}

func TestHistorySearch(t *testing.T) {
	h := NewHistory(0)
	h.Append("general", storedMessage("m1", "Hello World"))
	h.Append("general", storedMessage("m2", "goodbye"))
	h.Append("general", storedMessage("m3", "well HELLO there"))

	hits := h.Search("general", "hello")
	require.Len(t, hits, 2)
	assert.Equal(t, "m3", hits[0].ID, "results must be newest first")
	assert.Equal(t, "m1", hits[1].ID)
}

func TestHistorySearchCap(t *testing.T) {
	h := NewHistory(0)
	fillHistory(h, "general", SearchResultLimit+10)

	hits := h.Search("general", "text")
	assert.Len(t, hits, SearchResultLimit)
}

func TestHistoryReactionsIdempotent(t *testing.T) {
	h := NewHistory(0)
	h.Append("general", storedMessage("m1", "hi"))

	reactions, ok := h.AddReaction("general", "m1", "👍", "a")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, reactions["👍"])

	reactions, ok = h.AddReaction("general", "m1", "👍", "a")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, reactions["👍"], "redundant add is a no-op")

	reactions, ok = h.RemoveReaction("general", "m1", "👍", "b")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, reactions["👍"], "removing an absent reactor is a no-op")

	reactions, ok = h.RemoveReaction("general", "m1", "👍", "a")
	require.True(t, ok)
	assert.NotContains(t, reactions, "👍", "empty emoji sets are pruned")
}

func TestHistoryReactionUnknownMessage(t *testing.T) {
	h := NewHistory(0)

	_, ok := h.AddReaction("general", "missing", "👍", "a")
	assert.False(t, ok)
	_, ok = h.RemoveReaction("general", "missing", "👍", "a")
	assert.False(t, ok)
}

func TestHistoryMarkRead(t *testing.T) {
	h := NewHistory(0)
	h.Append("general", storedMessage("m1", "hi"))

	first := time.Now().UTC()
	senderID, ok := h.MarkRead("general", "m1", "b", first)
	require.True(t, ok)
	assert.Equal(t, "a", senderID)

	later := first.Add(time.Minute)
	_, ok = h.MarkRead("general", "m1", "b", later)
	require.True(t, ok)

	msg := h.Find("general", "m1")
	assert.Equal(t, later, msg.ReadBy["b"], "last write wins")

	_, ok = h.MarkRead("general", "missing", "b", later)
	assert.False(t, ok)
}

func TestHistoryListReturnsClones(t *testing.T) {
	h := NewHistory(0)
	h.Append("general", storedMessage("m1", "hi"))

	snapshot := h.List("general")
	snapshot[0].ReadBy["x"] = time.Now()

	msg := h.Find("general", "m1")
	assert.NotContains(t, msg.ReadBy, "x", "snapshots must not alias store state")
}
