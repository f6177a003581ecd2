// Package hub reparte avisos de cambio del log a los clientes conectados.
package hub

import (
	"sync"
	"sync/atomic"
	"time"
)

const subscriberBuffer = 16

const TypeStoreChanged = "store_changed"

// Message avisa que el store cambió; el cliente vuelve a pedir su vista.
type Message struct {
	Type   string    `json:"type"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	closed      bool
	dropped     atomic.Int64
	now         func() time.Time
}

func New() *Hub {
	return &Hub{
		subscribers: make(map[chan Message]struct{}),
		now:         time.Now,
	}
}

// Subscribe devuelve un canal con buffer y la función para darse de baja.
// El canal se cierra en la baja o con Close.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Notify publica un store_changed con el motivo dado.
func (h *Hub) Notify(reason string) {
	h.Publish(Message{Type: TypeStoreChanged, Reason: reason, At: h.now()})
}

// Publish nunca bloquea: si un cliente tiene el buffer lleno, el mensaje se pierde para él.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped es el total de mensajes perdidos por clientes lentos.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close cierra todos los canales; publicar después no hace nada.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = map[chan Message]struct{}{}
}
