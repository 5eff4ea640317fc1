// Package bot delivers study reminders and daily recommendation digests
// over Telegram. It is a pure notification channel: the study flow itself
// lives in the client, not here.
package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabengine/pkg/models"
)

// Bot sends digests to a configured Telegram chat
type Bot struct {
	api    *tgbotapi.BotAPI
	config Config
}

// New creates a bot from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID environment variable is not set")
	}
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %v", err)
	}

	config := DefaultConfig()
	config.ChatID = chatID
	return &Bot{api: api, config: config}, nil
}

// SendDigest renders the recommendations into one message and sends it.
func (b *Bot) SendDigest(recommendations []models.Recommendation, dueCount int) error {
	msg := tgbotapi.NewMessage(b.config.ChatID, FormatDigest(recommendations, dueCount, b.config.MaxDigestEntries))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send digest: %v", err)
	}
	return nil
}

// FormatDigest builds the digest text. Split out from sending so it can be
// tested without a live API.
func FormatDigest(recommendations []models.Recommendation, dueCount, maxEntries int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📚 *Study plan*: %d cards due\n\n", dueCount))

	if len(recommendations) == 0 {
		sb.WriteString("Nothing urgent today. A short review keeps things fresh.")
		return sb.String()
	}

	if len(recommendations) > maxEntries {
		recommendations = recommendations[:maxEntries]
	}

	for i, rec := range recommendations {
		title := digestTitle(rec)
		sb.WriteString(fmt.Sprintf("%d. *%s* (~%d min)\n   %s\n", i+1, title, rec.EstimatedMinutes, rec.Reason))
	}
	return sb.String()
}

func digestTitle(rec models.Recommendation) string {
	switch rec.Type {
	case models.RecommendStreakProtection:
		return "Protect your streak"
	case models.RecommendWeakSpotDrill:
		return fmt.Sprintf("Drill: %s", rec.Target)
	case models.RecommendCategoryBootCamp:
		return fmt.Sprintf("Boot camp: %s", rec.Target)
	case models.RecommendDueReview:
		return fmt.Sprintf("Review %d due cards", rec.CardCount)
	case models.RecommendNewCards:
		return fmt.Sprintf("Learn %d new cards", rec.CardCount)
	default:
		return string(rec.Type)
	}
}
