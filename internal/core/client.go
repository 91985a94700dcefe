package core

import (
	"sync"
	"time"
)

// sendQueueSize bounds the per-client outbound queue. At 20 Hz a healthy
// client drains one snapshot per tick; 32 frames of slack absorbs transient
// network stalls before drops begin.
const sendQueueSize = 32

// Client is one live connection as seen by the room. The transport layer
// owns the socket; the room only ever pushes prepared frames into the send
// queue and closes Done to force a teardown.
type Client struct {
	ID         string
	RemoteAddr string
	CreatedAt  time.Time

	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewClient constructs a client with an initialized send queue.
func NewClient(id, remoteAddr string) *Client {
	return &Client{
		ID:         id,
		RemoteAddr: remoteAddr,
		CreatedAt:  time.Now(),
		send:       make(chan []byte, sendQueueSize),
		done:       make(chan struct{}),
	}
}

// Send exposes the outbound frame queue for the transport write loop.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Done is closed when the room forces this connection shut.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// TrySend enqueues a frame without blocking. A full queue means the
// consumer is too slow to keep the tick cadence; the frame is dropped and
// the caller records it.
func (c *Client) TrySend(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// ForceClose signals the transport to tear the connection down. Safe to
// call more than once.
func (c *Client) ForceClose() {
	c.once.Do(func() {
		close(c.done)
	})
}
