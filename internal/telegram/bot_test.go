package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ai-infobot/internal/auth"
	"ai-infobot/internal/chatbot"
	"ai-infobot/internal/history"
	"ai-infobot/internal/intent"
	"ai-infobot/internal/pending"
	"ai-infobot/internal/reply"
)

type sent struct {
	chatID int64
	text   string
}

type fakeSender struct{ sent []sent }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sent{chatID: m.ChatID, text: m.Text})
	return tgbotapi.Message{}, nil
}

type fakeResponder struct {
	sessions []chatbot.Session
}

func (f *fakeResponder) Handle(ctx context.Context, s chatbot.Session, u string) chatbot.Reply {
	f.sessions = append(f.sessions, s)
	s.Transcript.AppendUser(u)
	return chatbot.Reply{Intent: intent.Conversation, Result: reply.Success("echo: " + u)}
}

func newTestBot(t *testing.T, allowed []int64, admin int64) (*Bot, *fakeSender, *fakeResponder) {
	t.Helper()
	svc, err := auth.NewWithRepo(nil, allowed)
	require.NoError(t, err)
	sessions, err := history.NewManager(8)
	require.NoError(t, err)
	queue, err := pending.New(nil)
	require.NoError(t, err)
	fs := &fakeSender{}
	fr := &fakeResponder{}
	return &Bot{
		s:           fs,
		authSvc:     svc,
		pending:     queue,
		responder:   fr,
		sessions:    sessions,
		adminUserID: admin,
		log:         zap.NewNop().Sugar(),
	}, fs, fr
}

func textMsg(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{From: &tgbotapi.User{ID: userID, UserName: "u"}, Chat: &tgbotapi.Chat{ID: userID}, Text: text}
}

func commandMsg(userID int64, text string) *tgbotapi.Message {
	m := textMsg(userID, text)
	end := len(text)
	for i, r := range text {
		if r == ' ' {
			end = i
			break
		}
	}
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	return m
}

func TestIncomingMessageUsesPerUserSession(t *testing.T) {
	b, fs, fr := newTestBot(t, []int64{1, 2}, 0)

	b.handleIncomingMessage(context.Background(), textMsg(1, "hello"))
	b.handleIncomingMessage(context.Background(), textMsg(2, "hey"))
	b.handleIncomingMessage(context.Background(), textMsg(1, "again"))

	require.Len(t, fs.sent, 3)
	assert.Equal(t, sent{chatID: 1, text: "echo: hello"}, fs.sent[0])
	assert.Equal(t, "tg:1", fr.sessions[0].ID)
	assert.Equal(t, "tg:2", fr.sessions[1].ID)
	assert.Equal(t, 2, b.sessions.Session("tg:1").Len())
	assert.Equal(t, 1, b.sessions.Session("tg:2").Len())
}

func TestUnauthorizedFlowNotifiesAdmin(t *testing.T) {
	b, fs, fr := newTestBot(t, []int64{1}, 999)

	b.handleIncomingMessage(context.Background(), textMsg(123, "hello"))

	assert.Empty(t, fr.sessions)
	require.Len(t, fs.sent, 2)
	assert.Equal(t, int64(123), fs.sent[0].chatID)
	assert.Equal(t, int64(999), fs.sent[1].chatID)
	assert.Contains(t, fs.sent[1].text, "/allow 123")

	// a repeat attempt is answered but does not ping the admin again
	b.handleIncomingMessage(context.Background(), textMsg(123, "hello?"))
	require.Len(t, fs.sent, 3)
	assert.Equal(t, int64(123), fs.sent[2].chatID)
}

func TestPendingCommandAndApproval(t *testing.T) {
	b, fs, _ := newTestBot(t, []int64{999}, 999)

	b.handleIncomingMessage(context.Background(), textMsg(123, "hello"))
	b.handleIncomingMessage(context.Background(), commandMsg(999, "/pending"))
	assert.Equal(t, "📬 Pending requests:\n- 123 (@u)", fs.sent[len(fs.sent)-1].text)

	b.handleIncomingMessage(context.Background(), commandMsg(999, "/allow 123"))
	assert.True(t, b.authSvc.IsAllowed(123))
	assert.Empty(t, b.pending.List())

	b.handleIncomingMessage(context.Background(), commandMsg(999, "/pending"))
	assert.Equal(t, "📭 No pending requests.", fs.sent[len(fs.sent)-1].text)
}

func TestResetCommand(t *testing.T) {
	b, fs, _ := newTestBot(t, []int64{5}, 0)
	b.handleIncomingMessage(context.Background(), textMsg(5, "hello"))
	require.Equal(t, 1, b.sessions.Session("tg:5").Len())

	b.handleIncomingMessage(context.Background(), commandMsg(5, "/reset"))

	assert.Equal(t, 0, b.sessions.Session("tg:5").Len())
	assert.Equal(t, "🧹 Conversation reset.", fs.sent[len(fs.sent)-1].text)
}

func TestAllowCommandAdminOnly(t *testing.T) {
	b, fs, _ := newTestBot(t, []int64{7, 999}, 999)

	b.handleIncomingMessage(context.Background(), commandMsg(7, "/allow 8"))
	assert.Contains(t, fs.sent[len(fs.sent)-1].text, "Only the admin")
	assert.False(t, b.authSvc.IsAllowed(8))

	b.handleIncomingMessage(context.Background(), commandMsg(999, "/allow 8"))
	assert.True(t, b.authSvc.IsAllowed(8))

	b.handleIncomingMessage(context.Background(), commandMsg(999, "/deny 8"))
	assert.False(t, b.authSvc.IsAllowed(8))
}

func TestSendToAdmin(t *testing.T) {
	b, fs, _ := newTestBot(t, nil, 0)
	require.NoError(t, b.SendToAdmin("report"))
	assert.Empty(t, fs.sent)

	b.adminUserID = 42
	require.NoError(t, b.SendToAdmin("report"))
	assert.Equal(t, []sent{{chatID: 42, text: "report"}}, fs.sent)
}

func TestEmptyAllowlistQueuesStrangers(t *testing.T) {
	b, fs, fr := newTestBot(t, nil, 999)

	b.handleIncomingMessage(context.Background(), textMsg(42, "hello"))

	assert.Empty(t, fr.sessions)
	assert.Equal(t, []int64{42}, pendingIDs(b))
	assert.Equal(t, int64(999), fs.sent[len(fs.sent)-1].chatID)
}

func TestAdminServedWithoutBeingListed(t *testing.T) {
	b, fs, fr := newTestBot(t, nil, 999)

	b.handleIncomingMessage(context.Background(), textMsg(999, "hi"))
	require.Len(t, fr.sessions, 1)

	b.handleIncomingMessage(context.Background(), commandMsg(999, "/allow 7"))
	assert.True(t, b.authSvc.IsAllowed(7))

	b.handleIncomingMessage(context.Background(), textMsg(999, "hi again"))
	require.Len(t, fr.sessions, 2)
	assert.Equal(t, "tg:999", fr.sessions[1].ID)
	assert.Equal(t, "echo: hi again", fs.sent[len(fs.sent)-1].text)
	assert.Empty(t, b.pending.List())
}

func TestDenyRevokesAccess(t *testing.T) {
	b, _, fr := newTestBot(t, []int64{42}, 999)

	b.handleIncomingMessage(context.Background(), textMsg(42, "hello"))
	require.Len(t, fr.sessions, 1)

	b.handleIncomingMessage(context.Background(), commandMsg(999, "/deny 42"))
	b.handleIncomingMessage(context.Background(), textMsg(42, "hello?"))

	assert.Len(t, fr.sessions, 1)
	assert.Equal(t, []int64{42}, pendingIDs(b))
}

func pendingIDs(b *Bot) []int64 {
	var ids []int64
	for _, u := range b.pending.List() {
		ids = append(ids, u.ID)
	}
	return ids
}
