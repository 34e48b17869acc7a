package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-finder/internal/core/dialogue"
	"recipe-finder/internal/pkg/common"
)

// Dialogue 對話引擎
type Dialogue interface {
	Handle(ctx context.Context, msg dialogue.Message) (dialogue.Reply, error)
}

// ChatResponse 對話 API 響應
type ChatResponse struct {
	Reply dialogue.Reply        `json:"reply"`
	Error *common.ErrorResponse `json:"error,omitempty"`
}

// ChatHandler 以 JSON 直接與對話引擎互動
type ChatHandler struct {
	engine Dialogue
	debug  bool
}

// NewChatHandler 創建對話處理器
func NewChatHandler(engine Dialogue, debug bool) *ChatHandler {
	return &ChatHandler{engine: engine, debug: debug}
}

// HandleMessage 處理一則使用者訊息
func (h *ChatHandler) HandleMessage(c *gin.Context) {
	var msg dialogue.Message
	if err := common.DecodeJSON(c.Request.Body, &msg); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.ErrInvalidRequest.Wrap(err), h.debug))
		return
	}
	if msg.UserID == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "user_id is required",
		})
		return
	}
	c.Set("user_id", msg.UserID)

	reply, err := h.engine.Handle(c.Request.Context(), msg)
	if err != nil {
		_ = c.Error(err)
		common.LogError("Dialogue turn failed",
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
		resp := common.NewErrorResponse(err, h.debug)
		c.JSON(common.StatusOf(err), ChatResponse{
			Reply: dialogue.FailureReply(),
			Error: &resp,
		})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
