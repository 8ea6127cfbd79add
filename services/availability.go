package services

import (
	"errors"
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/storage"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"gorm.io/gorm"
)

const stayDateLayout = "2006-01-02"

const (
	ReasonNotListed         = "not listed"
	ReasonDatesNotAvailable = "dates not available"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrPropertyNotFound  = errors.New("property not found")
)

type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// AvailabilityService answers whether a property can be booked for a candidate
// [checkIn, checkOut) range. It is read-only and is called both advisorily
// from the property detail route and authoritatively inside checkout.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// ParseStayDates parses a check-in/check-out pair. Malformed input and an
// implied checkOut <= checkIn are both reported as ErrInvalidDateFormat,
// distinct from "dates unavailable".
func ParseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	start, err := time.Parse(stayDateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}

	end, err := time.Parse(stayDateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}

	return start, end, nil
}

func (s *AvailabilityService) Check(propertyID uint, checkIn, checkOut string) (*AvailabilityResult, error) {
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	// A manually-delisted property blocks all bookings regardless of dates
	if property.IsAvailable != nil && !*property.IsAvailable {
		return &AvailabilityResult{Available: false, Reason: ReasonNotListed}, nil
	}

	start, end, err := ParseStayDates(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	bookings, err := storage.BlockingBookingsForProperty(s.db, propertyID)
	if err != nil {
		return nil, err
	}

	for _, booking := range bookings {
		if utils.Overlaps(start, end, booking.CheckIn, booking.CheckOut) {
			return &AvailabilityResult{Available: false, Reason: ReasonDatesNotAvailable}, nil
		}
	}

	return &AvailabilityResult{Available: true}, nil
}
