package chatwithbing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/grounding"
	"github.com/EllieNosrat/chat-with-bing/model"
	"github.com/EllieNosrat/chat-with-bing/session"
)

// fakeSearcher returns a fixed URL list.
type fakeSearcher struct {
	urls []string
}

func (f *fakeSearcher) Search(context.Context, string) ([]string, error) { return f.urls, nil }

// fakeExtractor maps URLs to texts.
type fakeExtractor struct {
	texts map[string]string
}

func (f *fakeExtractor) Extract(_ context.Context, pageURL string) (string, error) {
	text, ok := f.texts[pageURL]
	if !ok {
		return "", errors.New("fetch failed")
	}
	return text, nil
}

func TestGroundedTurnEndToEnd(t *testing.T) {
	m := model.NewMockModel()
	a := New(m)
	a.RegisterTool(grounding.NewAdapter(
		&fakeSearcher{urls: []string{"https://sec.gov/a", "https://finra.org/b"}},
		&fakeExtractor{texts: map[string]string{
			"https://sec.gov/a":   "rule text a",
			"https://finra.org/b": "rule text b",
		}},
		[]string{"sec.gov", "finra.org/rules-guidance/rulebooks"},
	))

	// Scripted turn: the model asks for grounding, then answers with a
	// citation of source 1.
	m.Enqueue(core.Message{
		Role:      core.RoleAssistant,
		ToolCalls: []core.ToolCall{{ID: "call_1", Name: grounding.ToolName, Arguments: `{"query":"pattern day trader rule"}`}},
	})
	finalAnswer := `The rule requires $25,000 minimum equity <cite id="1"/>.`
	m.Enqueue(core.AssistantMessage(finalAnswer))

	answer, id, err := a.Chat(context.Background(), "", "What is the pattern day trader rule?")
	require.NoError(t, err)
	assert.Equal(t, finalAnswer, answer)
	assert.NotEmpty(t, id)

	// The tool round trip cost exactly one extra model invocation and the
	// tool result carried both sources with ids 1 and 2.
	reqs := m.Requests()
	require.Len(t, reqs, 2)
	toolMsg := reqs[1].Messages[len(reqs[1].Messages)-1]
	assert.Equal(t, core.RoleTool, toolMsg.Role)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)
	assert.Contains(t, toolMsg.Content, `<source id="1" src="https://sec.gov/a">`)
	assert.Contains(t, toolMsg.Content, `<source id="2" src="https://finra.org/b">`)

	// The transcript gained exactly one user and one assistant message; the
	// intermediate tool exchange is not persisted.
	msgs, ok := a.store.Messages(id)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Equal(t, core.RoleUser, msgs[1].Role)
	assert.Equal(t, finalAnswer, msgs[2].Content)
}

func TestMultiTurnKeepsTranscriptOrder(t *testing.T) {
	m := model.NewMockModel()
	a := New(m)

	m.Enqueue(core.AssistantMessage("answer one"))
	_, id, err := a.Chat(context.Background(), "", "question one")
	require.NoError(t, err)

	m.Enqueue(core.AssistantMessage("answer two"))
	_, id2, err := a.Chat(context.Background(), id, "question two")
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	// The second request saw the full prior transcript in order.
	reqs := m.Requests()
	require.Len(t, reqs, 2)
	roles := make([]string, 0)
	for _, msg := range reqs[1].Messages {
		roles = append(roles, msg.Role)
	}
	assert.Equal(t, []string{core.RoleSystem, core.RoleUser, core.RoleAssistant, core.RoleUser}, roles)
	assert.Equal(t, "question two", reqs[1].Messages[3].Content)
}

func TestFailedTurnLeavesSessionUntouched(t *testing.T) {
	m := model.NewMockModel()
	a := New(m)

	m.Enqueue(core.AssistantMessage("ok"))
	_, id, err := a.Chat(context.Background(), "", "first")
	require.NoError(t, err)

	m.FailWith(errors.New("model backend down"))
	_, _, err = a.Chat(context.Background(), id, "second")
	require.Error(t, err)

	// The failed user message was not appended: a retry re-sends cleanly.
	msgs, ok := a.store.Messages(id)
	require.True(t, ok)
	assert.Len(t, msgs, 3) // system + first turn only
}

func TestChatAfterEvictionReportsExpiredSession(t *testing.T) {
	m := model.NewMockModel()
	store := session.NewStore(core.SystemPrompt([]string{"sec.gov"}))
	a := New(m, func(o *Options) { o.Store = store })

	m.Enqueue(core.AssistantMessage("ok"))
	_, id, err := a.Chat(context.Background(), "", "hello")
	require.NoError(t, err)

	// An eviction racing a turn surfaces on the append path.
	store.Sweep(time.Now().Add(time.Hour), time.Minute)
	err = store.Append(id, core.UserMessage("late"))
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestSweepCountsEvictions(t *testing.T) {
	m := model.NewMockModel()
	a := New(m, func(o *Options) { o.IdleThreshold = 10 * time.Minute })

	m.Enqueue(core.AssistantMessage("a"), core.AssistantMessage("b"))
	_, _, err := a.Chat(context.Background(), "", "one")
	require.NoError(t, err)
	_, _, err = a.Chat(context.Background(), "", "two")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Sessions())

	assert.Equal(t, 0, a.Sweep(time.Now()))
	assert.Equal(t, 2, a.Sweep(time.Now().Add(11*time.Minute)))
	assert.Equal(t, 0, a.Sessions())
}
