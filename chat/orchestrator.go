// Package chat drives the request/response/tool-call loop for one user turn:
// it repeatedly queries the model backend, executes any requested tool calls
// through the registry, and stops when the model produces a final answer or
// the round cap is hit.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/logging"
	"github.com/EllieNosrat/chat-with-bing/model"
	"github.com/EllieNosrat/chat-with-bing/tool"
)

// ErrMaxRounds reports that the model kept requesting tools without
// converging to a final answer within the configured round cap. It is fatal
// for the turn, not for the session.
var ErrMaxRounds = errors.New("chat: tool loop exceeded max rounds")

// ErrInvalidHistory reports a malformed input transcript (empty, or not
// starting with the system message).
var ErrInvalidHistory = errors.New("chat: history must be non-empty and begin with a system message")

// Options configure an Orchestrator.
type Options struct {
	// MaxRounds caps how many times the model may respond with tool calls
	// within a single turn before the turn is abandoned.
	MaxRounds int
	Logger    logging.Logger
}

// Orchestrator runs the bounded tool-use loop for one turn. It never mutates
// the session store; the caller persists the returned message.
type Orchestrator struct {
	llm       model.Model
	registry  *tool.Registry
	maxRounds int
	logger    logging.Logger
}

// New constructs an Orchestrator over a model backend and a tool registry.
func New(llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxRounds: 5,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		llm:       llm,
		registry:  registry,
		maxRounds: opts.MaxRounds,
		logger:    opts.Logger,
	}
}

// Complete produces the next assistant message for the given transcript. The
// history must be non-empty and begin with a system message; the returned
// message carries final natural-language content and no pending tool calls.
// Tool failures are folded back into the loop as error payloads; only model
// backend failures and the round cap surface as errors.
func (o *Orchestrator) Complete(ctx context.Context, history []core.Message) (core.Message, error) {
	if len(history) == 0 || history[0].Role != core.RoleSystem {
		return core.Message{}, ErrInvalidHistory
	}

	working := make([]core.Message, len(history))
	copy(working, history)

	start := time.Now()
	for round := 0; round <= o.maxRounds; round++ {
		resp, err := o.llm.Complete(ctx, model.Request{
			Messages: working,
			Tools:    o.registry.Definitions(),
		})
		if err != nil {
			return core.Message{}, fmt.Errorf("model call failed: %w", err)
		}

		if !resp.HasToolCalls() {
			o.logger.Info("chat.turn.complete",
				"rounds", round,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return resp, nil
		}

		o.logger.Debug("chat.tool_calls.requested", "round", round, "count", len(resp.ToolCalls))

		working = append(working, resp)
		for _, call := range resp.ToolCalls {
			working = append(working, o.registry.Dispatch(ctx, call))
		}
	}

	return core.Message{}, fmt.Errorf("%w (%d)", ErrMaxRounds, o.maxRounds)
}
