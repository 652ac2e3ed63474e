// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"slices"
	"sync"

	"github.com/xlttj/fridamgr/pkg/logging"
	"github.com/xlttj/fridamgr/pkg/runner"
)

// Reply is the scripted outcome of one invocation.
type Reply struct {
	Code   int
	Output string
	Err    error
}

// Recorder is a thread-safe runner.Runner that records every invocation and
// answers with queued replies in order. Once the queue is empty every call
// succeeds with no output.
type Recorder struct {
	mu       sync.Mutex
	replies  []Reply
	Calls    []runner.Invocation
	Captured []bool
}

var _ runner.Runner = (*Recorder)(nil)

// New constructs a Recorder that hands out replies sequentially.
func New(replies ...Reply) *Recorder {
	return &Recorder{replies: slices.Clone(replies)}
}

func (r *Recorder) next(inv runner.Invocation, capture bool) Reply {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, runner.Invocation{Args: slices.Clone(inv.Args), Dir: inv.Dir})
	r.Captured = append(r.Captured, capture)
	if len(r.replies) == 0 {
		return Reply{}
	}
	reply := r.replies[0]
	r.replies = r.replies[1:]
	return reply
}

func (r *Recorder) Run(ctx context.Context, inv runner.Invocation, sink logging.Sink) (int, error) {
	logging.Emit(sink, "$ "+inv.String())
	reply := r.next(inv, false)
	for _, line := range runner.SplitLines(reply.Output) {
		logging.Emit(sink, line)
	}
	return reply.Code, reply.Err
}

func (r *Recorder) RunCapture(ctx context.Context, inv runner.Invocation, sink logging.Sink) (int, string, error) {
	logging.Emit(sink, "$ "+inv.String())
	reply := r.next(inv, true)
	for _, line := range runner.SplitLines(reply.Output) {
		logging.Emit(sink, line)
	}
	return reply.Code, reply.Output, reply.Err
}

// Commands returns the recorded command lines in call order.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Calls))
	for i, inv := range r.Calls {
		out[i] = inv.String()
	}
	return out
}

// Remaining returns the number of queued replies not yet consumed.
func (r *Recorder) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.replies)
}
