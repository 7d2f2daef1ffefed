package notify

import (
	"context"
	"fmt"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages the user's private chat, whose id equals the
// Telegram user id.
type TelegramNotifier struct {
	bot sender
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	return &TelegramNotifier{bot: bot}, nil
}

func unlockText(t model.AchievementType) string {
	rule, err := service.RuleFor(t)
	if err != nil {
		return fmt.Sprintf("Achievement unlocked: %s", t)
	}
	return fmt.Sprintf("Achievement unlocked: %s\n%s", rule.Title, rule.Description)
}

func (n *TelegramNotifier) NotifyUnlocked(_ context.Context, a *model.Achievement) error {
	if _, err := n.bot.Send(tgbotapi.NewMessage(a.UserID, unlockText(a.Type))); err != nil {
		return fmt.Errorf("failed to send unlock message: %w", err)
	}
	return nil
}
