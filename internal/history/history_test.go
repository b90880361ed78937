package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-infobot/internal/llm"
)

func TestSessionsAreIsolated(t *testing.T) {
	h, err := NewManager(8)
	require.NoError(t, err)

	a := h.Session("a")
	b := h.Session("b")
	a.AppendUser("hello")
	a.AppendAssistant("hi")
	b.AppendUser("foo")
	b.AppendAssistant("bar")

	msgsA := h.Session("a").Turns()
	msgsB := h.Session("b").Turns()
	require.Len(t, msgsA, 2)
	require.Len(t, msgsB, 2)
	assert.Equal(t, llm.Message{Role: "user", Content: "hello"}, msgsA[0])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "hi"}, msgsA[1])
	assert.Equal(t, llm.Message{Role: "user", Content: "foo"}, msgsB[0])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "bar"}, msgsB[1])

	// returned slice is a copy
	msgsA[0] = llm.Message{Role: "user", Content: "mutated"}
	assert.Equal(t, "hello", a.Turns()[0].Content)

	h.Reset("a")
	assert.Equal(t, 0, h.Session("a").Len())
	assert.Equal(t, 2, h.Session("b").Len())
}

func TestLeastRecentlyUsedSessionIsEvicted(t *testing.T) {
	h, err := NewManager(2)
	require.NoError(t, err)

	h.Session("a").AppendUser("1")
	h.Session("b").AppendUser("2")
	h.Session("a") // touch a
	h.Session("c").AppendUser("3")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Session("a").Len())
	assert.Equal(t, 0, h.Session("b").Len(), "b should have been evicted and recreated")
}

func TestNewManagerRejectsZeroCapacity(t *testing.T) {
	_, err := NewManager(0)
	require.Error(t, err)
}

func TestConcurrentAppendsKeepEveryTurn(t *testing.T) {
	tr := NewTranscript()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			end := tr.BeginExchange()
			defer end()
			tr.AppendUser("q")
			tr.AppendAssistant("a")
		}()
	}
	wg.Wait()

	turns := tr.Turns()
	require.Len(t, turns, 100)
	for i := 0; i < len(turns); i += 2 {
		assert.Equal(t, llm.RoleUser, turns[i].Role)
		assert.Equal(t, llm.RoleAssistant, turns[i+1].Role)
	}
}
