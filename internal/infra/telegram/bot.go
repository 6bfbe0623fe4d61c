package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api *tgbotapi.BotAPI
}

// CommandUpdate is a decoded slash command from the chat platform.
type CommandUpdate struct {
	ChatID    int64
	ChatTitle string
	IsPrivate bool
	UserID    int64
	Username  string
	Command   string
	Args      string
}

type Handlers struct {
	OnCommand func(context.Context, CommandUpdate) error
}

func NewBot(token string) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{api: api}, nil
}

// Username returns the bot account's own username.
func (b *Bot) Username() string {
	if b == nil || b.api == nil {
		return ""
	}
	return b.api.Self.UserName
}

// Listen long-polls for updates and feeds decoded commands to the handler
// until the context is cancelled.
func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			message := update.Message
			if message == nil || message.From == nil {
				continue
			}
			if !message.IsCommand() || handlers.OnCommand == nil {
				continue
			}

			err := handlers.OnCommand(ctx, CommandUpdate{
				ChatID:    message.Chat.ID,
				ChatTitle: message.Chat.Title,
				IsPrivate: message.Chat.IsPrivate(),
				UserID:    message.From.ID,
				Username:  message.From.UserName,
				Command:   message.Command(),
				Args:      message.CommandArguments(),
			})
			if err != nil {
				return err
			}
		}
	}
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.SendMessage(ctx, chatID, text)
	return err
}

// SendMessage sends a text message and returns its id so the caller can edit
// it later (processing notice -> final outcome).
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	if b == nil || b.api == nil {
		return 0, fmt.Errorf("telegram bot is not initialized")
	}
	if chatID == 0 {
		return 0, fmt.Errorf("chat id is required")
	}

	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, fmt.Errorf("send telegram message: %w", err)
	}

	_ = ctx
	return sent.MessageID, nil
}

func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		return fmt.Errorf("edit telegram message: %w", err)
	}

	_ = ctx
	return nil
}

// MemberRoles resolves the user's standing in a chat as a list of role ids
// (chat member statuses: "creator", "administrator", "member", ...).
func (b *Bot) MemberRoles(ctx context.Context, chatID, userID int64) ([]string, error) {
	if b == nil || b.api == nil {
		return nil, fmt.Errorf("telegram bot is not initialized")
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get chat member: %w", err)
	}

	status := strings.TrimSpace(member.Status)
	if status == "" {
		return nil, nil
	}

	_ = ctx
	return []string{status}, nil
}
