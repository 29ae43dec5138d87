package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GameNewsBot/internal/domain"
)

func TestBuildMessageLayout(t *testing.T) {
	t.Parallel()

	record := domain.NewArticleRecord(
		"Громкий анонс",
		"https://dtf.ru/games/1",
		"DTF",
		domain.CategoryGames,
		strings.Repeat("Подробное описание события. ", 4),
		"",
	)

	message := buildMessage(record, 1024)

	assert.True(t, strings.HasPrefix(message, "🎮 **Громкий анонс**"))
	assert.Contains(t, message, "🌐 **Источник:** DTF")
	assert.Contains(t, message, "[📝 DTF](https://dtf.ru/games/1)")
}

func TestBuildMessageTruncates(t *testing.T) {
	t.Parallel()

	record := domain.NewArticleRecord(
		strings.Repeat("Очень длинный заголовок ", 20),
		"https://example.org/a",
		"Test",
		domain.CategoryNews,
		"",
		"",
	)

	message := buildMessage(record, 100)

	runes := []rune(message)
	require.LessOrEqual(t, len(runes), 100)
	assert.True(t, strings.HasSuffix(message, "..."))
}

func TestTruncateRunesTinyLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "...", truncateRunes("длинный текст", 2))
	assert.Equal(t, "ab", truncateRunes("ab", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
}

func TestCleanDescriptionStripsMarkup(t *testing.T) {
	t.Parallel()

	dirty := "<p>Первый   абзац</p>\n\n<a href=\"x\">ссылка</a>"
	assert.Equal(t, "Первый абзац ссылка", cleanDescription(dirty))
}

func TestCleanDescriptionCapsLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("а", 500)
	cleaned := cleanDescription(long)

	assert.Len(t, []rune(cleaned), maxDescriptionRunes+3)
	assert.True(t, strings.HasSuffix(cleaned, "..."))
}

func TestShortDescriptionGetsGenerated(t *testing.T) {
	t.Parallel()

	record := domain.NewArticleRecord(
		"Вышел патч 2.0 для игры",
		"https://example.org/a",
		"Test",
		domain.CategoryNews,
		"коротко",
		"",
	)

	message := buildMessage(record, 2048)
	assert.Contains(t, message, "Обновление принесло значительные изменения")
}

func TestGenerateDescriptionKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Студия анонсировала продолжение", "Разработчики поделились новыми деталями"},
		{"Новый трейлер удивил фанатов", "Новый видеоматериал демонстрирует"},
		{"Большая распродажа в магазине", "Отличная возможность приобрести"},
		{"Просто заголовок", "Свежая информация о событиях"},
	}

	for _, tc := range tests {
		assert.Contains(t, generateDescription(tc.title), tc.want, "title=%q", tc.title)
	}
}

func TestFormatLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[🎮 Steam](https://store.steampowered.com/app/1)", formatLink("https://store.steampowered.com/app/1"))
	assert.Equal(t, "[📝 DTF](https://dtf.ru/games/1)", formatLink("https://dtf.ru/games/1"))
	assert.Equal(t, "[🌐 Читать далее](https://stopgame.ru/news/1)", formatLink("https://stopgame.ru/news/1"))
}
