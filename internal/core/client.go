package core

// Client is one connected transport endpoint as seen by the core layer.
// The transport writes inbound commands to Commands and drains Events;
// the hub owns everything else about the connection.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub once the client is dropped, stopping
	// the command pump.
	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 32),
		done:     make(chan struct{}),
	}
}

// Done is closed when the hub has finished tearing the client down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// send delivers an event without blocking. Slow consumers lose events
// rather than stalling the hub loop.
func (c *Client) send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
