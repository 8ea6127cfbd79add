package routes

import (
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/storage"

	"github.com/kataras/iris/v12"
)

func GetMyNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch notifications"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    notifications,
	})
}

func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	notificationID := ctx.Params().GetUintDefault("id", 0)
	if notificationID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid notification ID"})
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Notification not found"})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
