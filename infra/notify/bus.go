// Package notify bridges engine events to delivery channels: the in-process
// event bus consumed by dashboard adapters and an MQTT broker for external
// subscribers.
package notify

import (
	"github.com/tannguyen1129/fresh-sync-demo/core/events"
	"github.com/tannguyen1129/fresh-sync-demo/internal/eventbus"
)

// Envelope is the message published on the in-process bus.
type Envelope struct {
	Event   string
	Payload any
}

// BusEmitter publishes engine events on the in-process event bus.
type BusEmitter struct {
	bus eventbus.EventBus
}

// NewBusEmitter wraps the given bus.
func NewBusEmitter(bus eventbus.EventBus) *BusEmitter {
	return &BusEmitter{bus: bus}
}

// Emit wraps the payload in an Envelope and publishes it. Publishing never
// blocks; slow subscribers lose events.
func (e *BusEmitter) Emit(event string, payload any) {
	e.bus.Publish(Envelope{Event: event, Payload: payload})
}

// MultiEmitter fans one event out to several emitters.
type MultiEmitter struct {
	emitters []events.Emitter
}

// NewMultiEmitter creates a MultiEmitter with the provided emitters.
func NewMultiEmitter(emitters ...events.Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

func (m *MultiEmitter) Emit(event string, payload any) {
	for _, e := range m.emitters {
		e.Emit(event, payload)
	}
}
