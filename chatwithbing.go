// Package chatwithbing provides a high-level façade over the chat
// orchestrator and its services: the session store, the tool registry and the
// model backend. Most applications interact with this package by:
//  1. Creating an Advisor via New() (optionally overriding the defaults)
//  2. Registering tools (typically the grounding adapter)
//  3. Running turns with Chat() and wiring Sweep() to a periodic scheduler
//
// All defaults are safe for local development and testing; production
// deployments supply a configured model backend and a structured logger.
package chatwithbing

import (
	"context"
	"fmt"
	"time"

	"github.com/EllieNosrat/chat-with-bing/chat"
	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/logging"
	"github.com/EllieNosrat/chat-with-bing/model"
	"github.com/EllieNosrat/chat-with-bing/session"
	"github.com/EllieNosrat/chat-with-bing/tool"
)

// Options configures an Advisor instance.
type Options struct {
	// GroundedSites names the domains the agent is allowed to cite; they are
	// baked into the pinned system prompt.
	GroundedSites []string
	// MaxToolRounds caps the orchestrator's tool loop per turn.
	MaxToolRounds int
	// TurnTimeout bounds one whole turn including all model and tool calls.
	// Zero disables the bound.
	TurnTimeout time.Duration
	// IdleThreshold is how long a session may sit untouched before Sweep
	// evicts it.
	IdleThreshold time.Duration
	// Store overrides the default in-memory session store.
	Store *session.Store
	// Registry overrides the default empty tool registry.
	Registry *tool.Registry
	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Advisor is the high-level façade aggregating the session store, the tool
// registry and the turn orchestrator. It is safe for concurrent use.
type Advisor struct {
	store         *session.Store
	registry      *tool.Registry
	orchestrator  *chat.Orchestrator
	turnTimeout   time.Duration
	idleThreshold time.Duration
	logger        logging.Logger
}

// New creates an Advisor over the given model backend with optional
// overrides. Any unset service is initialized with an in-memory default.
func New(llm model.Model, optFns ...func(o *Options)) *Advisor {
	opts := Options{
		GroundedSites: []string{"sec.gov", "finra.org/rules-guidance/rulebooks"},
		MaxToolRounds: 5,
		TurnTimeout:   2 * time.Minute,
		IdleThreshold: 30 * time.Minute,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = opts.Logger })
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(core.SystemPrompt(opts.GroundedSites), func(o *session.StoreOptions) {
			o.Logger = opts.Logger
		})
	}

	orchestrator := chat.New(llm, opts.Registry, func(o *chat.Options) {
		o.MaxRounds = opts.MaxToolRounds
		o.Logger = opts.Logger
	})

	return &Advisor{
		store:         opts.Store,
		registry:      opts.Registry,
		orchestrator:  orchestrator,
		turnTimeout:   opts.TurnTimeout,
		idleThreshold: opts.IdleThreshold,
		logger:        opts.Logger,
	}
}

// RegisterTool adds a tool to the advisor's registry.
func (a *Advisor) RegisterTool(t tool.Tool) { a.registry.Register(t) }

// Chat runs one turn: it resolves (or creates) the session, runs the
// orchestrator over the transcript plus the new user message, and persists
// the user and final assistant messages together only after the turn
// succeeds. A failed turn therefore leaves the transcript untouched, so a
// retry re-sends cleanly. When the sweep evicted the session mid-turn the
// returned error wraps session.ErrSessionExpired.
func (a *Advisor) Chat(ctx context.Context, sessionID, userMessage string) (string, string, error) {
	id, history := a.store.GetOrCreate(sessionID)

	if a.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.turnTimeout)
		defer cancel()
	}

	userMsg := core.UserMessage(userMessage)
	answer, err := a.orchestrator.Complete(ctx, append(history, userMsg))
	if err != nil {
		a.logger.Warn("chat.turn.failed", "session_id", id, "error", err.Error())
		return "", id, fmt.Errorf("turn failed: %w", err)
	}

	if err := a.store.Append(id, userMsg, answer); err != nil {
		a.logger.Warn("chat.append.failed", "session_id", id, "error", err.Error())
		return "", id, err
	}

	a.logger.Info("chat.turn.persisted", "session_id", id)
	return answer.Content, id, nil
}

// Sweep evicts sessions idle past the configured threshold and returns the
// eviction count. It is meant to be invoked on a fixed interval by an
// external scheduler, not by request handling.
func (a *Advisor) Sweep(now time.Time) int {
	evicted := a.store.Sweep(now, a.idleThreshold)
	if evicted > 0 {
		a.logger.Info("session.sweep", "evicted", evicted, "remaining", a.store.Len())
	}
	return evicted
}

// Sessions returns the number of live sessions.
func (a *Advisor) Sessions() int { return a.store.Len() }
