package storage

import (
	"github.com/test-kooza/rental-management-system-sub000/models"

	"gorm.io/gorm"
)

// TransitionBookingStatus performs an atomic compare-and-set on a booking's
// status: "set status = to where id = ? and status = from". Extra columns
// (e.g. the payment transaction id) are written in the same statement.
// It returns false when the booking was not in the expected status, which is
// how concurrent confirmation attempts lose the race without double-applying
// side effects.
func TransitionBookingStatus(db *gorm.DB, bookingID uint, from, to models.BookingStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for column, value := range extra {
		updates[column] = value
	}

	result := db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// BlockingBookingsForProperty loads every booking for a property whose status
// still counts against availability.
func BlockingBookingsForProperty(db *gorm.DB, propertyID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Where("property_id = ? AND status IN ?", propertyID, models.BlockingStatuses()).
		Find(&bookings).Error
	return bookings, err
}
