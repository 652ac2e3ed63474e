// Package worker runs one action on a background goroutine and reports its
// output and completion over a channel.
package worker

import (
	"context"
	"fmt"

	"github.com/xlttj/fridamgr/pkg/logging"
)

// Task is the unit of work dispatched to a worker.
type Task func(ctx context.Context, sink logging.Sink) (int, error)

// FaultCode is reported when a task fails to execute or panics.
const FaultCode = 1

// Event is one of LineEvent, ErrorEvent or DoneEvent.
type Event interface {
	isEvent()
}

// LineEvent carries one line of task output.
type LineEvent struct {
	Line string
}

// ErrorEvent reports an execution fault. It is always followed by a DoneEvent
// with FaultCode.
type ErrorEvent struct {
	Err error
}

// DoneEvent is the last event of every dispatch.
type DoneEvent struct {
	Code int
}

func (LineEvent) isEvent()  {}
func (ErrorEvent) isEvent() {}
func (DoneEvent) isEvent()  {}

// channelSink forwards lines to the event channel in call order. Lines are
// dropped once ctx is done so an abandoned consumer cannot block the task.
type channelSink struct {
	ctx    context.Context
	events chan<- Event
}

func (c channelSink) Line(line string) {
	c.send(LineEvent{Line: line})
}

// send delivers ev. It only gives up when the buffer is full and ctx is done.
func (c channelSink) send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// Dispatch starts task on its own goroutine. The returned channel delivers the
// task's lines in order, then an optional ErrorEvent, then exactly one
// DoneEvent, and is closed afterwards. Once ctx is done a consumer may stop
// reading; events that no longer fit the buffer are dropped and the channel is
// closed, possibly without a DoneEvent.
func Dispatch(ctx context.Context, task Task) <-chan Event {
	events := make(chan Event, 64)
	go func() {
		defer close(events)
		sink := channelSink{ctx: ctx, events: events}
		code, err := run(ctx, task, sink)
		if err != nil {
			logging.LogError("Task failed: %v", err)
			if !sink.send(ErrorEvent{Err: err}) {
				return
			}
			code = FaultCode
		}
		sink.send(DoneEvent{Code: code})
	}()
	return events
}

// run executes task, converting a panic into an error.
func run(ctx context.Context, task Task, sink logging.Sink) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx, sink)
}

// Wait drains events, forwarding lines to sink, and returns the final code and
// the execution error if one was reported.
func Wait(events <-chan Event, sink logging.Sink) (int, error) {
	code := FaultCode
	var taskErr error
	for ev := range events {
		switch e := ev.(type) {
		case LineEvent:
			logging.Emit(sink, e.Line)
		case ErrorEvent:
			taskErr = e.Err
		case DoneEvent:
			code = e.Code
		}
	}
	return code, taskErr
}
