package routes

import (
	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/storage"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"github.com/kataras/iris/v12"
)

// AdminListBookings is the operator's cross-host booking feed, paginated.
// Optional status filter narrows to one lifecycle state.
func AdminListBookings(ctx iris.Context) {
	page, _ := ctx.URLParamInt("page")
	if page < 1 {
		page = 1
	}
	perPage, _ := ctx.URLParamInt("perPage")
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Booking{})
	if status := ctx.URLParam("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "query_failed", "Failed to count bookings")
		return
	}

	var bookings []models.Booking
	if err := q.Preload("Property").Preload("Guest").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookings).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "query_failed", "Failed to fetch bookings")
		return
	}

	utils.JSONPage(ctx, bookings, page, perPage, total)
}
