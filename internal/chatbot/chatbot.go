// Package chatbot is the single entry point: classify the utterance, hand it
// to the matching source or to the chat fallback, return the reply.
package chatbot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ai-infobot/internal/history"
	"ai-infobot/internal/intent"
	"ai-infobot/internal/metrics"
	"ai-infobot/internal/reply"
	"ai-infobot/internal/storage"
)

type (
	WeatherSource interface {
		Lookup(ctx context.Context, utterance string) reply.Result
	}
	NewsSource interface {
		Headlines(ctx context.Context) reply.Result
	}
	SportsSource interface {
		Popular(ctx context.Context) reply.Result
	}
	EncyclopediaSource interface {
		Lookup(ctx context.Context, utterance string) reply.Result
	}
	ClockSource interface {
		Lookup(utterance string) reply.Result
	}
	Conversation interface {
		Reply(ctx context.Context, t *history.Transcript, utterance string) reply.Result
	}
)

// Session identifies the conversation an utterance belongs to. The caller owns
// the transcript; only the conversation path ever writes to it.
type Session struct {
	ID         string
	Transcript *history.Transcript
}

type Reply struct {
	Intent intent.Intent
	reply.Result
}

// Deps wires a Bot. Recorder and Metrics are optional.
type Deps struct {
	Classifier   *intent.Classifier
	Weather      WeatherSource
	News         NewsSource
	Sports       SportsSource
	Encyclopedia EncyclopediaSource
	Clock        ClockSource
	Conversation Conversation

	Recorder storage.Recorder
	Metrics  *metrics.Metrics
	Logger   *zap.SugaredLogger
}

type Bot struct {
	classifier   *intent.Classifier
	weather      WeatherSource
	news         NewsSource
	sports       SportsSource
	encyclopedia EncyclopediaSource
	clock        ClockSource
	conversation Conversation

	recorder storage.Recorder
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
	now      func() time.Time
}

func New(d Deps) *Bot {
	classifier := d.Classifier
	if classifier == nil {
		classifier = intent.NewDefault()
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bot{
		classifier:   classifier,
		weather:      d.Weather,
		news:         d.News,
		sports:       d.Sports,
		encyclopedia: d.Encyclopedia,
		clock:        d.Clock,
		conversation: d.Conversation,
		recorder:     d.Recorder,
		metrics:      d.Metrics,
		log:          log,
		now:          time.Now,
	}
}

// Classify exposes the rule table decision without doing any I/O.
func (b *Bot) Classify(utterance string) intent.Intent {
	return b.classifier.Classify(utterance)
}

// Handle answers one utterance. It performs at most one outbound call.
func (b *Bot) Handle(ctx context.Context, s Session, utterance string) Reply {
	started := b.now()
	in := b.classifier.Classify(utterance)

	var res reply.Result
	switch in {
	case intent.Weather:
		res = b.weather.Lookup(ctx, utterance)
	case intent.News:
		res = b.news.Headlines(ctx)
	case intent.Sports:
		res = b.sports.Popular(ctx)
	case intent.DateTime:
		res = b.clock.Lookup(utterance)
	case intent.EncyclopediaLookup:
		res = b.encyclopedia.Lookup(ctx, utterance)
	default:
		res = b.conversation.Reply(ctx, s.Transcript, utterance)
	}

	took := b.now().Sub(started)
	if res.Failed() {
		b.log.Warnf("⚠️ session=%s intent=%s failed (%s): %s", s.ID, in, res.Kind, res.Detail)
	} else {
		b.log.Infof("✅ session=%s intent=%s answered in %s", s.ID, in, took)
	}
	if b.metrics != nil {
		b.metrics.Observe(string(in), res.Outcome(), took)
	}
	b.record(s.ID, in, utterance, res)

	return Reply{Intent: in, Result: res}
}

// Respond is Handle reduced to the display text.
func (b *Bot) Respond(ctx context.Context, s Session, utterance string) string {
	return b.Handle(ctx, s, utterance).Text
}

func (b *Bot) record(sessionID string, in intent.Intent, utterance string, res reply.Result) {
	if b.recorder == nil {
		return
	}
	err := b.recorder.AppendInteraction(storage.Event{
		Timestamp:         b.now().UTC(),
		SessionID:         sessionID,
		Intent:            string(in),
		Outcome:           res.Outcome(),
		UserMessage:       utterance,
		AssistantResponse: res.Text,
	})
	if err != nil {
		b.log.Errorf("❌ failed to record interaction: %v", err)
	}
}
