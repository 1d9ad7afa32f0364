package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendResponseWaitsForRoom(t *testing.T) {
	c := &Client{send: make(chan *WebMessage, 1), done: make(chan struct{})}
	require.True(t, c.sendResponse(&WebMessage{Type: MessageTypeResult}))

	sent := make(chan bool, 1)
	go func() {
		sent <- c.sendResponse(&WebMessage{Type: MessageTypeError})
	}()

	select {
	case <-sent:
		t.Fatal("reply queued while the buffer was full")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, MessageTypeResult, (<-c.send).Type)
	select {
	case ok := <-sent:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("reply not queued after the buffer drained")
	}
	assert.Equal(t, MessageTypeError, (<-c.send).Type)
}

func TestSendResponseAfterWritePumpStops(t *testing.T) {
	c := &Client{send: make(chan *WebMessage), done: make(chan struct{})}

	sent := make(chan bool, 1)
	go func() {
		sent <- c.sendResponse(&WebMessage{Type: MessageTypeResult})
	}()
	close(c.done)

	select {
	case ok := <-sent:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("send blocked after the write pump stopped")
	}
}
