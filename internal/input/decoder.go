// Package input turns a raw terminal byte stream into engine events.
package input

import (
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

const esc = 0x1b

// maxQueued bounds the decoded event queue. Events past the bound are
// dropped, like an overrun receive FIFO.
const maxQueued = 64

// Decoder converts bytes into events. Escape sequences split across Feed
// calls are held until the rest arrives. A Decoder is not safe for
// concurrent use.
type Decoder struct {
	pending []byte
	queue   []engine.Event
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed decodes b and queues every event it produces.
func (d *Decoder) Feed(b []byte) {
	d.pending = append(d.pending, b...)
	for len(d.pending) > 0 {
		n, ev, ok := nextEvent(d.pending)
		if !ok {
			return
		}
		d.pending = d.pending[n:]
		if ev != engine.EventNone && len(d.queue) < maxQueued {
			d.queue = append(d.queue, ev)
		}
	}
	d.pending = d.pending[:0]
}

// Poll returns the oldest queued event, or EventNone when the queue is empty.
func (d *Decoder) Poll() engine.Event {
	if len(d.queue) == 0 {
		return engine.EventNone
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev
}

// Pending returns the number of undecoded bytes held back.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Queued returns the number of events waiting to be polled.
func (d *Decoder) Queued() int {
	return len(d.queue)
}

// Reset drops buffered bytes and queued events.
func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
	d.queue = d.queue[:0]
}

// nextEvent decodes one key from b. ok is false when b holds only the
// start of an escape sequence.
func nextEvent(b []byte) (consumed int, ev engine.Event, ok bool) {
	if len(b) == 0 {
		return 0, engine.EventNone, false
	}

	if b[0] == esc {
		if len(b) == 1 {
			return 0, engine.EventNone, false
		}
		if b[1] != '[' && b[1] != 'O' {
			// Lone escape; the next byte is decoded on its own.
			return 1, engine.EventNone, true
		}
		if len(b) < 3 {
			return 0, engine.EventNone, false
		}
		switch b[2] {
		case 'A':
			return 3, engine.EventRotate, true
		case 'B':
			return 3, engine.EventSoftDrop, true
		case 'C':
			return 3, engine.EventRight, true
		case 'D':
			return 3, engine.EventLeft, true
		default:
			return 3, engine.EventNone, true
		}
	}

	return 1, KeyEvent(b[0]), true
}

// KeyEvent maps a single key byte to an event.
func KeyEvent(c byte) engine.Event {
	switch c {
	case 'a', 'A', 'h':
		return engine.EventLeft
	case 'd', 'D', 'l':
		return engine.EventRight
	case 'w', 'W', 'k':
		return engine.EventRotate
	case 's', 'S', 'j':
		return engine.EventSoftDrop
	case ' ':
		return engine.EventHardDrop
	case 'p', 'P':
		return engine.EventPause
	case 'q', 'Q':
		return engine.EventQuit
	default:
		return engine.EventNone
	}
}
