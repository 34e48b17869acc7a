package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-finder/internal/core/dialogue"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

// Update Telegram webhook 推送的更新
type Update struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message,omitempty"`
}

// TelegramMessage Telegram 訊息（只取用到的欄位）
type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *TelegramUser `json:"from,omitempty"`
	Chat      TelegramChat  `json:"chat"`
	Text      string        `json:"text"`
}

// TelegramUser 訊息發送者
type TelegramUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// TelegramChat 對話
type TelegramChat struct {
	ID int64 `json:"id"`
}

// Incoming 取出對話輸入與回覆用的 chat id；非文字訊息回傳 false
func (u Update) Incoming() (dialogue.Message, int64, bool) {
	if u.Message == nil || u.Message.From == nil {
		return dialogue.Message{}, 0, false
	}
	return dialogue.Message{
		UserID: strconv.FormatInt(u.Message.From.ID, 10),
		Text:   u.Message.Text,
	}, u.Message.Chat.ID, true
}

type keyboardButton struct {
	Text string `json:"text"`
}

type replyKeyboardMarkup struct {
	Keyboard        [][]keyboardButton `json:"keyboard"`
	OneTimeKeyboard bool               `json:"one_time_keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard"`
}

type replyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64       `json:"chat_id"`
	Text        string      `json:"text"`
	ParseMode   string      `json:"parse_mode,omitempty"`
	ReplyMarkup interface{} `json:"reply_markup,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramService Telegram Bot API 客戶端
type TelegramService struct {
	client *resty.Client
}

// NewTelegramService 創建 Telegram 服務
func NewTelegramService(cfg *config.TelegramConfig) *TelegramService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/bot"+cfg.Token).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	common.LogInfo("Telegram client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.String("bot", config.MaskSecret(cfg.Token)),
	)

	return &TelegramService{client: client}
}

// SendReply 將一次回合的輸出送到指定對話
func (s *TelegramService) SendReply(ctx context.Context, chatID int64, reply dialogue.Reply) error {
	req := sendMessageRequest{
		ChatID:      chatID,
		Text:        reply.Text,
		ReplyMarkup: markupOf(reply),
	}
	if reply.HTML {
		req.ParseMode = "HTML"
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/sendMessage")
	if err != nil {
		return common.ErrTransportUnavailable.Wrap(fmt.Errorf("failed to send message to Telegram: %w", err))
	}

	var result apiResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return common.ErrTransportUnavailable.Wrap(fmt.Errorf("failed to parse Telegram response (status %d): %w", resp.StatusCode(), err))
	}
	if resp.StatusCode() != http.StatusOK || !result.OK {
		common.LogError("Telegram API returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("description", result.Description),
			zap.Int64("chat_id", chatID),
		)
		return common.ErrTransportUnavailable.Wrap(fmt.Errorf("telegram returned status %d: %s", resp.StatusCode(), result.Description))
	}
	return nil
}

// markupOf 有選項時送出單次鍵盤，要求移除時送出 remove_keyboard
func markupOf(reply dialogue.Reply) interface{} {
	if len(reply.Keyboard) > 0 {
		rows := make([][]keyboardButton, 0, len(reply.Keyboard))
		for _, row := range reply.Keyboard {
			buttons := make([]keyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, keyboardButton{Text: label})
			}
			rows = append(rows, buttons)
		}
		return replyKeyboardMarkup{Keyboard: rows, OneTimeKeyboard: true, ResizeKeyboard: true}
	}
	if reply.RemoveKeyboard {
		return replyKeyboardRemove{RemoveKeyboard: true}
	}
	return nil
}
