package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"

	"GameNewsBot/internal/domain"
)

func TestDeliveryUsesLegacyMarkdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.ParseMode("Markdown"), messageParseMode)
	assert.NotEqual(t, models.ParseModeMarkdown, messageParseMode,
		"MarkdownV2 rejects the unescaped message body")

	// The body really does contain entities only legacy Markdown accepts.
	record := domain.NewArticleRecord(
		"Громкий анонс",
		"https://dtf.ru/games/1",
		"DTF",
		domain.CategoryGames,
		"",
		"",
	)
	message := buildMessage(record, 1024)
	assert.Contains(t, message, "**")
	assert.Contains(t, message, "!")
}
