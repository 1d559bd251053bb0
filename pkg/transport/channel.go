package transport

// ChannelTransport buffers outbound messages on a channel. The TUI drains it
// through its command loop; tests drain it directly.
type ChannelTransport struct {
	ch chan Outbound
}

// NewChannelTransport creates a transport with the given buffer size.
func NewChannelTransport(buffer int) *ChannelTransport {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelTransport{ch: make(chan Outbound, buffer)}
}

// Send implements Transport. It blocks when the buffer is full so chunk
// ordering is preserved under backpressure.
func (t *ChannelTransport) Send(msg Outbound) error {
	t.ch <- msg
	return nil
}

// Messages returns the receive side of the transport.
func (t *ChannelTransport) Messages() <-chan Outbound {
	return t.ch
}

// Close closes the channel. Only the sending side may call it, after all
// sessions using the transport have stopped.
func (t *ChannelTransport) Close() {
	close(t.ch)
}
