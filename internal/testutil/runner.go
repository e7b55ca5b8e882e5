package testutil

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded tool invocation.
type Call struct {
	Name string
	Args []string
}

// Line joins the call into a shell-like string.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Reply is the scripted outcome of a call.
type Reply struct {
	Output []byte
	Err    error
	// Effect runs before the reply is returned, for example to create the
	// file the real tool would have written.
	Effect func(args []string) error
}

// ScriptedRunner satisfies toolexec.Runner. Replies are chosen by the first
// registered key found in the call's command line; unmatched calls succeed
// with no output.
type ScriptedRunner struct {
	mu      sync.Mutex
	keys    []string
	replies map[string]Reply
	calls   []Call
}

// NewScriptedRunner returns an empty script.
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{replies: map[string]Reply{}}
}

// On registers reply for calls whose command line contains key.
func (s *ScriptedRunner) On(key string, reply Reply) *ScriptedRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.replies[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.replies[key] = reply
	return s
}

// Run implements toolexec.Runner.
func (s *ScriptedRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	var reply Reply
	line := call.Line()
	for _, k := range s.keys {
		if strings.Contains(line, k) {
			reply = s.replies[k]
			break
		}
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reply.Effect != nil {
		if err := reply.Effect(args); err != nil {
			return nil, err
		}
	}
	return reply.Output, reply.Err
}

// Calls returns a copy of the recorded invocations.
func (s *ScriptedRunner) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the invocations of the named binary.
func (s *ScriptedRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
