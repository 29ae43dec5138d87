package telegram

import (
	"fmt"
	"regexp"
	"strings"

	"GameNewsBot/internal/domain"
)

const (
	maxDescriptionRunes = 400
	minUsefulDescRunes  = 50
)

var (
	tagExpr        = regexp.MustCompile(`<[^>]+>`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

var categoryEmoji = map[domain.Category]string{
	domain.CategoryGames:   "🎮",
	domain.CategoryNews:    "📰",
	domain.CategoryEsports: "🏆",
	domain.CategoryGeneral: "📢",
}

var categoryIntro = map[domain.Category]string{
	domain.CategoryGames:   "🎯 **Новость из мира видеоигр**",
	domain.CategoryEsports: "🏆 **Новости киберспорта**",
	domain.CategoryNews:    "📢 **Актуальная новость**",
}

// buildMessage renders the channel post: emoji + title, enhanced
// description, and the source link, capped at maxLength runes.
func buildMessage(record domain.ArticleRecord, maxLength int) string {
	emoji, ok := categoryEmoji[record.Category]
	if !ok {
		emoji = categoryEmoji[domain.CategoryGeneral]
	}

	message := fmt.Sprintf("%s **%s**\n\n%s\n\n🔗 %s",
		emoji,
		record.Title,
		enhanceDescription(record),
		formatLink(record.Link),
	)

	return truncateRunes(message, maxLength)
}

func enhanceDescription(record domain.ArticleRecord) string {
	intro, ok := categoryIntro[record.Category]
	if !ok {
		intro = categoryIntro[domain.CategoryNews]
	}

	description := cleanDescription(record.Description)
	if len([]rune(description)) <= minUsefulDescRunes {
		description = generateDescription(record.Title)
	}

	return fmt.Sprintf("%s\n\n📊 %s\n\n💬 *Обсуждение в комментариях приветствуется!*\n\n🌐 **Источник:** %s",
		intro, description, record.Source)
}

// cleanDescription strips HTML tags, collapses whitespace and caps length.
func cleanDescription(text string) string {
	text = tagExpr.ReplaceAllString(text, "")
	text = whitespaceExpr.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > maxDescriptionRunes {
		text = string(runes[:maxDescriptionRunes]) + "..."
	}
	return text
}

// generateDescription fabricates a plausible blurb from title keywords when
// the source gave nothing usable.
func generateDescription(title string) string {
	lower := strings.ToLower(title)

	switch {
	case containsAny(lower, "анонс", "показал", "представил", "анонсировал"):
		return "Разработчики поделились новыми деталями проекта. Сообщество активно обсуждает свежую информацию."
	case containsAny(lower, "обновление", "патч", "версия"):
		return "Обновление принесло значительные изменения в игровой процесс и баланс."
	case containsAny(lower, "трейлер", "видео", "геймплей"):
		return "Новый видеоматериал демонстрирует ключевые особенности и геймплей."
	case containsAny(lower, "скидка", "распродажа", "sale"):
		return "Отличная возможность приобрести игру по выгодной цене."
	default:
		return "Свежая информация о событиях в игровой индустрии."
	}
}

func formatLink(link string) string {
	lower := strings.ToLower(link)
	switch {
	case strings.Contains(lower, "steam"):
		return fmt.Sprintf("[🎮 Steam](%s)", link)
	case strings.Contains(lower, "dtf"):
		return fmt.Sprintf("[📝 DTF](%s)", link)
	default:
		return fmt.Sprintf("[🌐 Читать далее](%s)", link)
	}
}

func containsAny(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	cut := limit - 3
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + "..."
}
