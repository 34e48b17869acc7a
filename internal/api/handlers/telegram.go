package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-finder/internal/core/dialogue"
	"recipe-finder/internal/core/service"
	"recipe-finder/internal/pkg/common"
)

// Sender 將回覆送回聊天平台
type Sender interface {
	SendReply(ctx context.Context, chatID int64, reply dialogue.Reply) error
}

// TelegramHandler Telegram webhook 處理器
type TelegramHandler struct {
	engine Dialogue
	sender Sender
}

// NewTelegramHandler 創建 webhook 處理器
func NewTelegramHandler(engine Dialogue, sender Sender) *TelegramHandler {
	return &TelegramHandler{engine: engine, sender: sender}
}

// HandleWebhook 處理 Telegram 推送的更新
//
// 已讀取的更新一律回應 200，避免 Telegram 重送造成同一回合執行兩次；
// 失敗只記錄在日誌。
func (h *TelegramHandler) HandleWebhook(c *gin.Context) {
	var update service.Update
	if err := common.DecodeJSON(c.Request.Body, &update); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid update",
		})
		return
	}

	msg, chatID, ok := update.Incoming()
	if !ok {
		common.LogDebug("Ignoring non-message update", zap.Int64("update_id", update.UpdateID))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	c.Set("user_id", msg.UserID)

	reply, err := h.engine.Handle(c.Request.Context(), msg)
	if err != nil {
		_ = c.Error(err)
		common.LogError("Dialogue turn failed",
			zap.Int64("update_id", update.UpdateID),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
		reply = dialogue.FailureReply()
	}

	if err := h.sender.SendReply(c.Request.Context(), chatID, reply); err != nil {
		_ = c.Error(err)
		common.LogError("Failed to deliver reply",
			zap.Int64("update_id", update.UpdateID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
