package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"GameNewsBot/internal/domain"
	"GameNewsBot/internal/ports"
)

// The message body carries legacy Markdown entities (**bold**, unescaped
// punctuation); strict MarkdownV2 rejects it with "can't parse entities".
const messageParseMode = models.ParseModeMarkdownV1

// Publisher delivers articles to a Telegram channel. Photo delivery degrades
// to text-only: an unreachable or rejected image must not cost the article
// its publication slot.
type Publisher struct {
	bot       *tgbot.Bot
	chatID    string
	maxLength int
	logger    *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher creates the channel publisher.
func NewPublisher(token, chatID string, maxLength int, logger *slog.Logger) (*Publisher, error) {
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("telegram publisher misconfigured: token and chat id are required")
	}

	b, err := tgbot.New(token, tgbot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Publisher{
		bot:       b,
		chatID:    chatID,
		maxLength: maxLength,
		logger:    logger,
	}, nil
}

// Deliver sends the article as a photo with caption when an image is
// attached, retrying as plain text on photo failure. It errors only when
// every attempt failed.
func (p *Publisher) Deliver(ctx context.Context, record domain.ArticleRecord) error {
	message := buildMessage(record, p.maxLength)

	if record.ImageURL != "" {
		if err := p.sendPhoto(ctx, record.ImageURL, message); err == nil {
			return nil
		} else {
			p.logger.Warn("photo delivery failed, falling back to text", "error", err)
		}
	}

	if err := p.sendText(ctx, message); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (p *Publisher) sendPhoto(ctx context.Context, imageURL, caption string) error {
	_, err := p.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
		ChatID:    p.chatID,
		Photo:     &models.InputFileString{Data: imageURL},
		Caption:   caption,
		ParseMode: messageParseMode,
	})
	return err
}

func (p *Publisher) sendText(ctx context.Context, message string) error {
	_, err := p.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    p.chatID,
		Text:      message,
		ParseMode: messageParseMode,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: tgbot.True(),
		},
	})
	return err
}
