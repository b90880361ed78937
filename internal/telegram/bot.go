package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ai-infobot/internal/auth"
	"ai-infobot/internal/chatbot"
	"ai-infobot/internal/history"
	"ai-infobot/internal/pending"
)

const greeting = "👋 Hi! Ask me about the weather, news, sports, the date or time, " +
	"\"who is ...\" / \"what is ...\", or just chat. Send /reset to start a new conversation."

// sender is the slice of the Bot API used for replies; faked in tests.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type botAPISender struct{ api *tgbotapi.BotAPI }

func (s botAPISender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return s.api.Send(c)
}

// Responder is the part of chatbot.Bot the Telegram front-end needs.
type Responder interface {
	Handle(ctx context.Context, s chatbot.Session, utterance string) chatbot.Reply
}

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	authSvc     *auth.Service
	pending     *pending.Queue
	responder   Responder
	sessions    *history.Manager
	adminUserID int64
	log         *zap.SugaredLogger
}

func New(botToken string, authSvc *auth.Service, queue *pending.Queue, responder Responder, sessions *history.Manager, adminUserID int64, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram api: %w", err)
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		authSvc:     authSvc,
		pending:     queue,
		responder:   responder,
		sessions:    sessions,
		adminUserID: adminUserID,
		log:         log,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Infof("🤖 Telegram bot @%s started", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Infof("🤖 Telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

// SendToAdmin delivers text to the configured admin; a no-op without one.
func (b *Bot) SendToAdmin(text string) error {
	if b.adminUserID == 0 {
		return nil
	}
	_, err := b.s.Send(tgbotapi.NewMessage(b.adminUserID, text))
	return err
}

func sessionKey(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !b.isAdmin(msg.From.ID) && !b.authSvc.IsAllowed(msg.From.ID) {
		b.log.Warnf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		b.requestAccess(msg)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	if strings.TrimSpace(msg.Text) == "" {
		return
	}

	b.log.Infof("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	key := sessionKey(msg.From.ID)
	r := b.responder.Handle(ctx, chatbot.Session{ID: key, Transcript: b.sessions.Session(key)}, msg.Text)
	b.sendMessage(msg.Chat.ID, r.Text)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.sendMessage(msg.Chat.ID, greeting)
	case "reset":
		b.sessions.Reset(sessionKey(msg.From.ID))
		b.sendMessage(msg.Chat.ID, "🧹 Conversation reset.")
	case "allow", "deny":
		b.handleAllowlist(msg)
	case "pending":
		b.listPending(msg)
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserID != 0 && userID == b.adminUserID
}

func (b *Bot) handleAllowlist(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.sendMessage(msg.Chat.ID, "⛔ Only the admin can change the allowlist.")
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Usage: /%s <user id>", msg.Command()))
		return
	}

	user := auth.User{ID: id}
	if b.pending != nil {
		if u, ok, perr := b.pending.Take(id); perr != nil {
			b.log.Warnf("⚠️ failed to drop pending request %d: %v", id, perr)
		} else if ok {
			user = u
		}
	}
	if msg.Command() == "allow" {
		err = b.authSvc.Upsert(user)
	} else {
		err = b.authSvc.Remove(id)
	}
	if err != nil {
		b.log.Errorf("❌ allowlist %s %d failed: %v", msg.Command(), id, err)
		b.sendMessage(msg.Chat.ID, "❌ Failed to update the allowlist.")
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ %s %d", msg.Command(), id))
}

func (b *Bot) listPending(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.sendMessage(msg.Chat.ID, "⛔ Only the admin can see pending requests.")
		return
	}
	if b.pending == nil || len(b.pending.List()) == 0 {
		b.sendMessage(msg.Chat.ID, "📭 No pending requests.")
		return
	}
	var sb strings.Builder
	sb.WriteString("📬 Pending requests:")
	for _, u := range b.pending.List() {
		fmt.Fprintf(&sb, "\n- %d (@%s)", u.ID, u.Username)
	}
	b.sendMessage(msg.Chat.ID, sb.String())
}

// requestAccess queues the user and pings the admin the first time only.
func (b *Bot) requestAccess(msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, "⛔ Access denied. Your request was forwarded to the admin.")
	if b.pending != nil {
		added, err := b.pending.Add(auth.User{ID: msg.From.ID, Username: msg.From.UserName})
		if err != nil {
			b.log.Errorf("❌ failed to queue access request from %d: %v", msg.From.ID, err)
		}
		if !added {
			return
		}
	}
	b.notifyAdminRequest(msg.From.ID, msg.From.UserName)
}

func (b *Bot) notifyAdminRequest(userID int64, username string) {
	if b.adminUserID == 0 {
		return
	}
	text := fmt.Sprintf("🔔 User %d (@%s) wants to use the bot. Send /allow %d to grant access.", userID, username, userID)
	b.sendMessage(b.adminUserID, text)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.s.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Errorf("failed to send message: %v", err)
	}
}
