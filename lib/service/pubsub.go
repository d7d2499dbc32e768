package service

import (
	"sync"

	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/labstack/gommon/random"
)

// EventTypeAll subscribes to every event type.
const EventTypeAll = "*"

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.InvoiceEvent
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.InvoiceEvent)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan models.InvoiceEvent) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.InvoiceEvent)
	}
	subId = random.String(20)
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

func (ps *Pubsub) Publish(topic string, msg models.InvoiceEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subs[topic] {
		ch <- msg
	}
	if topic == EventTypeAll {
		return
	}
	for _, ch := range ps.subs[EventTypeAll] {
		ch <- msg
	}
}
