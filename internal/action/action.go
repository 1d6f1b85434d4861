package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Aj4x/jiyu/internal/config"
	"github.com/Aj4x/jiyu/internal/logger"
	"github.com/Aj4x/jiyu/internal/msgbus"
)

// ErrBusy is returned when an action is started while another one is still running.
var ErrBusy = errors.New("another action is running")

// ErrUnknownKind is returned for an action whose kind no component handles.
var ErrUnknownKind = errors.New("unknown action kind")

type Type string

func (t Type) topic() msgbus.Topic {
	return msgbus.Topic(t)
}

const (
	TypeStarted  = Type("action.started")
	TypeFinished = Type("action.finished")
)

const (
	TopicStarted  = msgbus.Topic(TypeStarted)
	TopicFinished = msgbus.Topic(TypeFinished)
)

// Message reports the progress of one action run.
type Message struct {
	Type   Type
	Run    uint64
	Action config.Action
	OK     bool
	Err    error
}

// Terminator kills every process with a given image name.
type Terminator interface {
	TerminateAllByName(ctx context.Context, name string) bool
}

// Elevator runs a command line with elevated privileges.
type Elevator interface {
	RunElevated(ctx context.Context, commandLine string) bool
}

// Executor runs one action at a time and announces each run on the bus.
type Executor struct {
	terminator Terminator
	elevator   Elevator
	bus        msgbus.Publisher[Message]
	logger     *slog.Logger

	busy atomic.Bool
	runs atomic.Uint64
}

// NewExecutor creates an Executor. bus may be nil when nobody listens.
func NewExecutor(t Terminator, e Elevator, bus msgbus.Publisher[Message], log *slog.Logger) *Executor {
	if log == nil {
		log = logger.Discard()
	}
	return &Executor{
		terminator: t,
		elevator:   e,
		bus:        bus,
		logger:     log.With("component", "action"),
	}
}

// Busy reports whether an action is currently running.
func (x *Executor) Busy() bool {
	return x.busy.Load()
}

// Run carries out a and blocks until it completes. A started message is published
// before the work begins and a finished message after it ends.
func (x *Executor) Run(ctx context.Context, a config.Action) (bool, error) {
	if !x.busy.CompareAndSwap(false, true) {
		x.logger.Warn("action rejected, executor busy", "action", a.ID)
		return false, ErrBusy
	}
	defer x.busy.Store(false)

	run := x.runs.Add(1)
	x.publish(Message{Type: TypeStarted, Run: run, Action: a})
	x.logger.Info("action started", "action", a.ID, "kind", a.Kind, "target", a.Target)

	start := time.Now()
	var ok bool
	var err error
	switch a.Kind {
	case config.KindKill:
		ok = x.terminator.TerminateAllByName(ctx, a.Target)
	case config.KindElevated:
		ok = x.elevator.RunElevated(ctx, a.Target)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}

	x.logger.Info("action finished", "action", a.ID, "ok", ok, "elapsed", time.Since(start), "error", err)
	x.publish(Message{Type: TypeFinished, Run: run, Action: a, OK: ok, Err: err})
	return ok, err
}

func (x *Executor) publish(msg Message) {
	if x.bus == nil {
		return
	}
	x.bus.Publish(msgbus.TopicMessage[Message]{
		Topic:   msg.Type.topic(),
		Message: msg,
	})
}
