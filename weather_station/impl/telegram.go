package impl

import (
	"fmt"
	"strings"

	"github.com/evkuzin/weatherdash/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var buttons = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton("current"),
	),
)

type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func (ws *weatherStationImpl) telegramInit(config *config.Config) error {
	bot, err := tgbotapi.NewBotAPI(config.Telegram.Key)
	if err != nil {
		return fmt.Errorf("cannot start telegram bot: %w", err)
	}
	bot.Debug = config.Telegram.Debug
	ws.logger.Infof("Telegram authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	ws.updates = bot.GetUpdatesChan(u)
	ws.tg = bot
	return nil
}

// answer replies to any message with the lines shown on the display.
func (ws *weatherStationImpl) answer(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Chat == nil {
		return
	}
	from := "unknown"
	if update.Message.From != nil {
		from = update.Message.From.UserName
	}
	ws.logger.Infof("[%s] %s", from, update.Message.Text)

	lines := DisplayLines(ws.Storage.Get())
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, strings.Join(lines[:], "\n"))
	msg.ReplyToMessageID = update.Message.MessageID
	msg.ReplyMarkup = buttons

	if _, err := ws.tg.Send(msg); err != nil {
		ws.logger.Warnf("error: %s", err)
	}
}
