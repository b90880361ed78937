package chatbot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ai-infobot/internal/chat"
	"ai-infobot/internal/config"
	"ai-infobot/internal/history"
	"ai-infobot/internal/intent"
	"ai-infobot/internal/llm"
	"ai-infobot/internal/metrics"
	"ai-infobot/internal/reply"
	"ai-infobot/internal/storage"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, s)
}

type fakeWeather struct{ log *callLog }

func (f fakeWeather) Lookup(ctx context.Context, u string) reply.Result {
	f.log.add("weather:" + u)
	return reply.Success("weather")
}

type fakeNews struct{ log *callLog }

func (f fakeNews) Headlines(ctx context.Context) reply.Result {
	f.log.add("news")
	return reply.Success("news")
}

type fakeSports struct{ log *callLog }

func (f fakeSports) Popular(ctx context.Context) reply.Result {
	f.log.add("sports")
	return reply.Failure(reply.KindTransport, "boom", "⚠️ Error fetching sports: boom")
}

type fakeWiki struct{ log *callLog }

func (f fakeWiki) Lookup(ctx context.Context, u string) reply.Result {
	f.log.add("wiki:" + u)
	return reply.Success("📖 " + u)
}

type fakeClock struct{ log *callLog }

func (f fakeClock) Lookup(u string) reply.Result {
	f.log.add("clock:" + u)
	return reply.Success("clock")
}

type fakeLLM struct {
	content string
	err     error
}

func (f fakeLLM) Generate(ctx context.Context, msgs []llm.Message) (llm.Response, error) {
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.content, Model: "fake"}, nil
}

type memRecorder struct {
	mu     sync.Mutex
	events []storage.Event
}

func (m *memRecorder) AppendInteraction(ev storage.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memRecorder) LoadInteractions() ([]storage.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.Event{}, m.events...), nil
}

func newFakeBot(cl *callLog, client llm.Client, rec storage.Recorder) *Bot {
	return New(Deps{
		Weather:      fakeWeather{cl},
		News:         fakeNews{cl},
		Sports:       fakeSports{cl},
		Encyclopedia: fakeWiki{cl},
		Clock:        fakeClock{cl},
		Conversation: chat.New(client, "", zap.NewNop().Sugar()),
		Recorder:     rec,
		Metrics:      metrics.New(),
	})
}

func session() Session {
	return Session{ID: "s1", Transcript: history.NewTranscript()}
}

func TestHandleRoutesByIntent(t *testing.T) {
	cases := []struct {
		in     string
		intent intent.Intent
		call   string
	}{
		{"weather in Paris", intent.Weather, "weather:weather in Paris"},
		{"what is the weather", intent.Weather, "weather:what is the weather"},
		{"news and sports", intent.News, "news"},
		{"sports please", intent.Sports, "sports"},
		{"date and time", intent.DateTime, "clock:date and time"},
		{"Who is Alan Turing", intent.EncyclopediaLookup, "wiki:Who is Alan Turing"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			cl := &callLog{}
			s := session()
			r := newFakeBot(cl, fakeLLM{content: "unused"}, nil).Handle(context.Background(), s, tc.in)
			assert.Equal(t, tc.intent, r.Intent)
			assert.Equal(t, []string{tc.call}, cl.calls)
			assert.Equal(t, 0, s.Transcript.Len(), "non-conversation turns must not enter the transcript")
		})
	}
}

func TestHandleFailureIsTagged(t *testing.T) {
	r := newFakeBot(&callLog{}, fakeLLM{}, nil).Handle(context.Background(), session(), "sports")
	assert.True(t, r.Failed())
	assert.Equal(t, reply.KindTransport, r.Kind)
	assert.Equal(t, "⚠️ Error fetching sports: boom", r.Text)
}

func TestRespondConversation(t *testing.T) {
	rec := &memRecorder{}
	s := session()
	bot := newFakeBot(&callLog{}, fakeLLM{content: "hi there"}, rec)

	out := bot.Respond(context.Background(), s, "hello")

	assert.Equal(t, "hi there", out)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "hello"},
		{Role: llm.RoleAssistant, Content: "hi there"},
	}, s.Transcript.Turns())

	events, _ := rec.LoadInteractions()
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.Equal(t, "conversation", events[0].Intent)
	assert.Equal(t, "ok", events[0].Outcome)
	assert.Equal(t, "hi there", events[0].AssistantResponse)
}

func TestRespondConversationFailureOrphansUserTurn(t *testing.T) {
	s := session()
	bot := newFakeBot(&callLog{}, fakeLLM{err: errors.New("down")}, nil)

	before := s.Transcript.Len()
	r := bot.Handle(context.Background(), s, "hello")

	assert.Equal(t, reply.KindTransport, r.Kind)
	assert.Equal(t, "⚠️ Error: down", r.Text)
	turns := s.Transcript.Turns()
	require.Len(t, turns, before+1)
	assert.Equal(t, llm.RoleUser, turns[len(turns)-1].Role)
}

func TestSessionsDoNotShareTranscripts(t *testing.T) {
	bot := newFakeBot(&callLog{}, fakeLLM{content: "ok"}, nil)
	a := Session{ID: "a", Transcript: history.NewTranscript()}
	b := Session{ID: "b", Transcript: history.NewTranscript()}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); bot.Respond(context.Background(), a, "from a") }()
		go func() { defer wg.Done(); bot.Respond(context.Background(), b, "from b") }()
	}
	wg.Wait()

	for _, m := range a.Transcript.Turns() {
		assert.NotEqual(t, "from b", m.Content)
	}
	assert.Equal(t, 40, a.Transcript.Len())
	assert.Equal(t, 40, b.Transcript.Len())
}

func TestNewFromConfigEndToEnd(t *testing.T) {
	news := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"title":"one"},{"title":"two"},{"title":"three"},{"title":"four"},{"title":"five"},{"title":"six"}]}`))
	}))
	defer news.Close()

	cfg := &config.Config{
		NewsBaseURL: news.URL,
		NewsCountry: "in",
		DefaultCity: "Hyderabad",
		HTTPTimeout: 5 * time.Second,
	}
	bot := NewFromConfig(cfg, fakeLLM{content: "hi there"}, "", nil, nil, zap.NewNop().Sugar())

	out := bot.Respond(context.Background(), session(), "What's the news today?")
	lines := strings.Split(out, "\n")
	require.Equal(t, "📰 Top News:", lines[0])
	require.LessOrEqual(t, len(lines[1:]), 5)
	for _, l := range lines[1:] {
		assert.True(t, strings.HasPrefix(l, "- "), l)
	}

	s := session()
	assert.Equal(t, "hi there", bot.Respond(context.Background(), s, "hello"))
	assert.Equal(t, 2, s.Transcript.Len())
}

func TestClockWiredToIndia(t *testing.T) {
	bot := NewFromConfig(&config.Config{}, fakeLLM{}, "", nil, nil, zap.NewNop().Sugar())
	out := bot.Respond(context.Background(), session(), "what is the date")
	assert.True(t, strings.HasPrefix(out, "📅 Today's date in India: "), out)
}
