package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emberapp/ember/internal/db"
)

type messageResponse struct {
	ID        uint64    `json:"id"`
	SenderID  uint64    `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponses(messages []db.Message) []messageResponse {
	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

func (h *handlers) matchIDParam(c *gin.Context) (uint64, bool) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid match id")
		return 0, false
	}
	return matchID, true
}

func (h *handlers) limitQuery(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "invalid limit")
		return 0, false
	}
	return n, true
}

// openChat is the chat view: the counterpart's messages become read the
// moment the viewer opens the thread.
func (h *handlers) openChat(c *gin.Context) {
	matchID, ok := h.matchIDParam(c)
	if !ok {
		return
	}
	limit, ok := h.limitQuery(c)
	if !ok {
		return
	}

	messages, marked, err := h.chats.Open(c.Request.Context(), currentUserID(c), matchID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":    toMessageResponses(messages),
		"marked_read": marked,
	})
}

func (h *handlers) listMessages(c *gin.Context) {
	matchID, ok := h.matchIDParam(c)
	if !ok {
		return
	}
	limit, ok := h.limitQuery(c)
	if !ok {
		return
	}

	messages, err := h.chats.List(c.Request.Context(), currentUserID(c), matchID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": toMessageResponses(messages)})
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *handlers) sendMessage(c *gin.Context) {
	matchID, ok := h.matchIDParam(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "message cannot be empty")
		return
	}

	msg, err := h.chats.Send(c.Request.Context(), currentUserID(c), matchID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": messageResponse{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}})
}

func (h *handlers) markRead(c *gin.Context) {
	matchID, ok := h.matchIDParam(c)
	if !ok {
		return
	}

	count, err := h.chats.MarkRead(c.Request.Context(), currentUserID(c), matchID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_count": count})
}

func (h *handlers) chatInfo(c *gin.Context) {
	matchID, ok := h.matchIDParam(c)
	if !ok {
		return
	}

	info, err := h.chats.GetInfo(c.Request.Context(), currentUserID(c), matchID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
