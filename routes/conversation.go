package routes

import (
	"net/http"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/storage"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetMyConversations lists threads where the caller is guest or host.
func GetMyConversations(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var conversations []models.Conversation
	if err := storage.DB.
		Where("guest_id = ? OR host_id = ?", userID, userID).
		Preload("Guest").
		Preload("Host").
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch conversations"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    conversations,
	})
}

// ListMessages: GET /api/messages?conversationID=...&cursor=...&limit=...
func ListMessages(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	convID, err := ctx.URLParamInt("conversationID")
	if err != nil || convID <= 0 {
		ctx.StopWithStatus(http.StatusBadRequest)
		return
	}

	// Caller must be a participant
	var conversation models.Conversation
	if err := storage.DB.First(&conversation, convID).Error; err != nil {
		ctx.StopWithStatus(http.StatusNotFound)
		return
	}
	if conversation.GuestID != userID && conversation.HostID != userID {
		ctx.StopWithStatus(http.StatusForbidden)
		return
	}

	limit, _ := ctx.URLParamInt("limit")
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	cursor, _ := ctx.URLParamInt("cursor")

	q := storage.DB.Where("conversation_id = ?", convID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var msgs []models.Message
	if err := q.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		ctx.StopWithStatus(http.StatusInternalServerError)
		return
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	nextCursor := 0
	if len(msgs) > 0 {
		nextCursor = int(msgs[0].ID)
	}
	ctx.JSON(iris.Map{"messages": msgs, "nextCursor": nextCursor})
}

type CreateMessageInput struct {
	ConversationID uint   `json:"conversationID" validate:"required"`
	Text           string `json:"text" validate:"required,lt=5000"`
}

func CreateMessage(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var req CreateMessageInput
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var conversation models.Conversation
	if err := storage.DB.First(&conversation, req.ConversationID).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Conversation not found"})
		return
	}

	if conversation.GuestID != userID && conversation.HostID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	receiverID := conversation.GuestID
	if userID == conversation.GuestID {
		receiverID = conversation.HostID
	}

	message := models.Message{
		ConversationID: req.ConversationID,
		SenderID:       userID,
		ReceiverID:     receiverID,
		Text:           req.Text,
		Type:           "text",
		State:          "sent",
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to send message"})
		return
	}

	ctx.JSON(message)
}
