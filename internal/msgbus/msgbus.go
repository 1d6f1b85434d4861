package msgbus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Error represents a textual error value that implements the error interface.
type Error string

// Error returns the string representation of the Error type. It satisfies the error interface.
func (e Error) Error() string {
	return string(e)
}

// ErrNilSubChannel represents an error occurring when a subscriber channel is uninitialized.
// ErrGeneratingKey represents an error that occurs while generating a key.
const (
	ErrNilSubChannel = Error("Uninitialised subscriber channel")
	ErrGeneratingKey = Error("Error generating key")
)

// DefaultPublishTimeout bounds how long a single delivery may wait on a full subscriber channel.
const DefaultPublishTimeout = 5 * time.Second

// Topic represents a category or channel for messages in a publish-subscribe system.
type Topic string

// TopicMessage links a message payload of type T to the Topic it was published on.
type TopicMessage[T any] struct {
	Topic   Topic
	Message T
}

// MessageHandler is the channel a subscriber receives its TopicMessages on.
type MessageHandler[T any] chan TopicMessage[T]

type subscription[T any] struct {
	Topic   Topic
	Key     uuid.UUID
	Handler MessageHandler[T]
}

// Publisher is implemented by anything that can deliver a TopicMessage to subscribers.
type Publisher[T any] interface {
	Publish(msg TopicMessage[T])
}

// Subscriber registers a handler for a topic and returns the key identifying the subscription.
type Subscriber[T any] interface {
	Subscribe(topic Topic, handler MessageHandler[T]) (uuid.UUID, error)
}

// Unsubscriber removes a subscription from a topic using its key.
type Unsubscriber interface {
	Unsubscribe(topic Topic, key uuid.UUID)
}

// PublisherSubscriber combines publishing, subscribing and unsubscribing.
type PublisherSubscriber[T any] interface {
	Publisher[T]
	Subscriber[T]
	Unsubscriber
}

// Option configures a message bus.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	publishTimeout time.Duration
}

// WithLogger sets the logger used for delivery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.publishTimeout = d
		}
	}
}

type messageBus[T any] struct {
	subscribers map[Topic][]subscription[T]
	subLock     sync.Mutex
	opts        options
}

// NewMessageBus creates and initialises a new message bus carrying messages of type T.
func NewMessageBus[T any](opts ...Option) PublisherSubscriber[T] {
	o := options{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &messageBus[T]{
		subscribers: make(map[Topic][]subscription[T]),
		opts:        o,
	}
}

// Publish sends msg to every subscriber of its topic. Each delivery runs on its own goroutine
// and is dropped if the subscriber does not accept it within the publish timeout.
func (m *messageBus[T]) Publish(msg TopicMessage[T]) {
	m.subLock.Lock()
	defer m.subLock.Unlock()
	subscriptions, ok := m.subscribers[msg.Topic]
	if !ok {
		return
	}
	logger := m.opts.logger
	publish := func(s subscription[T], ctx context.Context, cancel context.CancelFunc) {
		defer cancel()
		select {
		case s.Handler <- msg:
			logger.Debug("published message", "topic", s.Topic, "subscriber", s.Key)
		case <-ctx.Done():
			logger.Warn("dropped message for slow subscriber", "topic", s.Topic, "subscriber", s.Key)
		}
	}
	for _, sub := range subscriptions {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.publishTimeout)
		go publish(sub, ctx, cancel)
	}
}

// Subscribe registers a handler to a specific topic and returns a unique identifier for the subscription.
func (m *messageBus[T]) Subscribe(topic Topic, handler MessageHandler[T]) (uuid.UUID, error) {
	if handler == nil {
		return uuid.UUID{}, ErrNilSubChannel
	}
	key, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %w", ErrGeneratingKey, err)
	}
	s := subscription[T]{
		Topic:   topic,
		Key:     key,
		Handler: handler,
	}
	m.subLock.Lock()
	defer m.subLock.Unlock()
	m.subscribers[s.Topic] = append(m.subscribers[s.Topic], s)
	return key, nil
}

// Unsubscribe removes the subscription identified by topic and key.
func (m *messageBus[T]) Unsubscribe(topic Topic, key uuid.UUID) {
	m.subLock.Lock()
	defer m.subLock.Unlock()
	subscriptions, ok := m.subscribers[topic]
	if !ok {
		return
	}
	for i, s := range subscriptions {
		if s.Key != key {
			continue
		}
		if len(subscriptions) == 1 {
			delete(m.subscribers, topic)
			m.opts.logger.Debug("removed topic, no more subscribers", "topic", topic)
			return
		}
		m.subscribers[topic] = append(subscriptions[:i:i], subscriptions[i+1:]...)
		m.opts.logger.Debug("removed subscriber", "topic", topic, "remaining", len(m.subscribers[topic]))
		return
	}
}
