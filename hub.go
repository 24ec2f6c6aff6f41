package di

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	messengerHubType = TypeOf[MessengerHub]()
	hubType          = TypeOf[*Hub]()
)

// MessengerHub is a publish/subscribe hub.
// A root container created with WithMessenger registers a *Hub as MessengerHub.
// Use the Subscribe and Publish functions for a typed API.
type MessengerHub interface {
	// Subscribe calls handler with the messages of type msgType
	// accepted by filter. filter can be nil.
	Subscribe(msgType reflect.Type, handler func(msg any), filter func(msg any) bool) SubscriptionToken
	// Unsubscribe removes a subscription. It returns false if it does not exist.
	Unsubscribe(token SubscriptionToken) bool
	// Publish delivers msg to the subscribers of msgType, synchronously.
	Publish(msgType reflect.Type, msg any)
}

// SubscriptionToken identifies a subscription.
type SubscriptionToken struct {
	id      string
	msgType reflect.Type
}

func (t SubscriptionToken) String() string {
	return t.id
}

type subscription struct {
	token   SubscriptionToken
	handler func(msg any)
	filter  func(msg any) bool
}

// Hub is the MessengerHub implementation.
// Subscriber panics are recovered and logged.
type Hub struct {
	m      sync.RWMutex
	subs   map[reflect.Type][]subscription
	logger *zap.Logger
}

// NewHub creates a Hub. logger can be nil.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   map[reflect.Type][]subscription{},
		logger: logger,
	}
}

func (h *Hub) Subscribe(msgType reflect.Type, handler func(msg any), filter func(msg any) bool) SubscriptionToken {
	token := SubscriptionToken{id: uuid.NewString(), msgType: msgType}

	h.m.Lock()
	h.subs[msgType] = append(h.subs[msgType], subscription{
		token:   token,
		handler: handler,
		filter:  filter,
	})
	h.m.Unlock()

	return token
}

func (h *Hub) Unsubscribe(token SubscriptionToken) bool {
	h.m.Lock()
	defer h.m.Unlock()

	subs := h.subs[token.msgType]

	for i, sub := range subs {
		if sub.token.id == token.id {
			h.subs[token.msgType] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}

	return false
}

func (h *Hub) Publish(msgType reflect.Type, msg any) {
	h.m.RLock()
	subs := h.subs[msgType]
	h.m.RUnlock()

	for _, sub := range subs {
		h.deliver(sub, msg)
	}
}

func (h *Hub) deliver(sub subscription, msg any) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error(
				"subscriber panicked",
				zap.Stringer("message_type", sub.token.msgType),
				zap.String("subscription", sub.token.id),
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if sub.filter != nil && !sub.filter(msg) {
		return
	}

	sub.handler(msg)
}

// Subscribe calls handler with the messages of type T accepted by all the filters.
func Subscribe[T any](hub MessengerHub, handler func(msg T), filters ...func(msg T) bool) SubscriptionToken {
	var filter func(msg any) bool

	if len(filters) > 0 {
		filter = func(msg any) bool {
			m, _ := msg.(T)
			for _, f := range filters {
				if !f(m) {
					return false
				}
			}
			return true
		}
	}

	return hub.Subscribe(TypeOf[T](), func(msg any) {
		m, _ := msg.(T)
		handler(m)
	}, filter)
}

// Publish delivers msg to the subscribers of T.
func Publish[T any](hub MessengerHub, msg T) {
	hub.Publish(TypeOf[T](), msg)
}
