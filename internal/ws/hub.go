package ws

import (
	"encoding/json"
	"strconv"

	"github.com/sirupsen/logrus" // Logging library
)

// Event names exchanged with clients.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventSendGift    = "send_gift"
	EventUserJoined  = "user_joined"
	EventUserLeft    = "user_left"
	EventNewMessage  = "new_message"
	EventNewGift     = "new_gift"
)

// RoomID is a room identifier as supplied by clients. Clients may send it as
// a JSON number or string; both decode to the same room.
type RoomID string

// UnmarshalJSON accepts a string or a number.
func (r *RoomID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = RoomID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = RoomID(n.String())
	return nil
}

// inbound is a client frame. Fields not relevant to the event are simply
// absent; missing fields default to their zero values rather than being
// rejected.
type inbound struct {
	Event     string          `json:"event"`
	RoomID    RoomID          `json:"room_id"`
	Message   string          `json:"message"`
	GiftType  string          `json:"gift_type"`
	UserInfo  json.RawMessage `json:"user_info"`
	Timestamp json.RawMessage `json:"timestamp"` // Echoed back untouched
}

// outbound is a broadcast frame. Every frame carries the room id and the
// room's live occupancy at dispatch time.
type outbound struct {
	Event     string          `json:"event"`
	RoomID    string          `json:"room_id"`
	Message   string          `json:"message,omitempty"`
	GiftType  string          `json:"gift_type,omitempty"`
	UserInfo  json.RawMessage `json:"user_info,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	UserCount int             `json:"user_count"`
}

// Hub tracks which connections have joined which rooms and fans events out
// to room members. All state is in-process and ephemeral: a restart loses
// every membership and clients rejoin on reconnect.
//
// Every mutation and broadcast runs on the single Run goroutine via the
// commands channel, so events within one room are delivered in the order the
// hub processes them.
type Hub struct {
	rooms    map[string]map[*Client]bool // Room id -> member set
	commands chan func()                 // Single dispatch point
	done     chan struct{}
}

// NewHub returns an idle hub; call Run to start dispatching.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[*Client]bool),
		commands: make(chan func(), 256),
		done:     make(chan struct{}),
	}
}

// Run processes commands until Stop is called. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case cmd := <-h.commands:
			cmd()
		case <-h.done:
			return
		}
	}
}

// Stop terminates the dispatch loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Join adds the client to a room and notifies every member, the new client
// included.
func (h *Hub) Join(c *Client, room string, userInfo json.RawMessage) {
	h.commands <- func() {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Client]bool)
			h.rooms[room] = members
		}
		members[c] = true
		c.rooms[room] = true
		h.broadcast(room, outbound{
			Event:     EventUserJoined,
			RoomID:    room,
			UserInfo:  userInfo,
			UserCount: len(members),
		})
		logrus.WithFields(logrus.Fields{"room": room, "users": len(members)}).Debug("Client joined room")
	}
}

// Leave removes the client from a room and notifies the remaining members.
func (h *Hub) Leave(c *Client, room string) {
	h.commands <- func() {
		h.leaveLocked(c, room)
	}
}

// Disconnect removes the client from every room it joined and closes its
// send channel. Idempotent.
func (h *Hub) Disconnect(c *Client) {
	h.commands <- func() {
		h.dropLocked(c)
	}
}

// Message broadcasts a chat message to the room.
func (h *Hub) Message(room, message string, userInfo, timestamp json.RawMessage) {
	h.commands <- func() {
		h.broadcast(room, outbound{
			Event:     EventNewMessage,
			RoomID:    room,
			Message:   message,
			UserInfo:  userInfo,
			Timestamp: timestamp,
			UserCount: len(h.rooms[room]),
		})
	}
}

// Gift broadcasts a gift event to the room.
func (h *Hub) Gift(room, giftType string, userInfo, timestamp json.RawMessage) {
	h.commands <- func() {
		h.broadcast(room, outbound{
			Event:     EventNewGift,
			RoomID:    room,
			GiftType:  giftType,
			UserInfo:  userInfo,
			Timestamp: timestamp,
			UserCount: len(h.rooms[room]),
		})
	}
}

// Occupancy returns the current member count of a room. Synchronous; used by
// handlers and tests.
func (h *Hub) Occupancy(room string) int {
	reply := make(chan int, 1)
	h.commands <- func() {
		reply <- len(h.rooms[room])
	}
	return <-reply
}

// leaveLocked runs on the dispatch goroutine.
func (h *Hub) leaveLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok || !members[c] {
		return
	}
	delete(members, c)
	delete(c.rooms, room)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	h.broadcast(room, outbound{
		Event:     EventUserLeft,
		RoomID:    room,
		UserCount: len(members),
	})
}

// broadcast runs on the dispatch goroutine. Members whose send buffer is
// full are disconnected rather than blocking the dispatch loop.
func (h *Hub) broadcast(room string, frame outbound) {
	members := h.rooms[room]
	if len(members) == 0 {
		return
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		logrus.WithField("event", frame.Event).Errorf("failed to encode frame: %v", err)
		return
	}
	var slow []*Client
	for c := range members {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	// A member that cannot keep up departs like any other: remaining members
	// see user_left, so occupancy counts stay accurate.
	for _, c := range slow {
		h.dropLocked(c)
	}
}

// dropLocked runs on the dispatch goroutine. It removes the client from
// every joined room and closes its send channel exactly once.
func (h *Hub) dropLocked(c *Client) {
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// itoa helps handlers address rooms by numeric live session id.
func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// RoomForLive returns the broadcaster room id used for a live session.
func RoomForLive(liveID uint) string { return itoa(liveID) }
