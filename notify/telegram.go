package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"flight-monitor/utils"
)

var telegramClient = &http.Client{Timeout: 10 * time.Second}

type telegramPayload struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (n *Notifier) sendTelegram(text string) {
	token := n.cfg.Telegram.BotToken
	chatID := n.cfg.Telegram.ChatID
	if token == "" || chatID == "" {
		return
	}

	body, err := json.Marshal(telegramPayload{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		utils.Error("Telegram payload error: %v", err)
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", token)
	resp, err := telegramClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		utils.Error("Telegram error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Error("Telegram error: status %d", resp.StatusCode)
		return
	}
	utils.Success("Telegram notification sent")
}
