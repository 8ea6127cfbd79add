package routes

import (
	"errors"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/services"
	"github.com/test-kooza/rental-management-system-sub000/storage"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"github.com/kataras/iris/v12"
)

type CreatePropertyInput struct {
	Title        string  `json:"title" validate:"required,max=256"`
	Description  string  `json:"description" validate:"max=5000"`
	PropertyType string  `json:"propertyType" validate:"required,oneof=entire_place private_room shared_room"`
	AddressLine1 string  `json:"addressLine1" validate:"required"`
	AddressLine2 string  `json:"addressLine2"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	Zip          string  `json:"zip" validate:"required"`
	Country      string  `json:"country" validate:"required"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	Capacity     int     `json:"capacity" validate:"required,min=1"`
	Bedrooms     int     `json:"bedrooms" validate:"min=0"`
	Beds         int     `json:"beds" validate:"min=0"`
	Bathrooms    float32 `json:"bathrooms" validate:"min=0"`
	NightlyPrice float64 `json:"nightlyPrice" validate:"required,min=0"`
	CleaningFee  float64 `json:"cleaningFee" validate:"min=0"`
	ServiceFee   float64 `json:"serviceFee" validate:"min=0"`
	Currency     string  `json:"currency" validate:"required,len=3"`
	Amenities    string  `json:"amenities"`
	Images       string  `json:"images"`
}

func CreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property := models.Property{
		HostID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		PropertyType: input.PropertyType,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Country:      input.Country,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Capacity:     input.Capacity,
		Bedrooms:     input.Bedrooms,
		Beds:         input.Beds,
		Bathrooms:    input.Bathrooms,
		NightlyPrice: input.NightlyPrice,
		CleaningFee:  input.CleaningFee,
		ServiceFee:   input.ServiceFee,
		Currency:     input.Currency,
		Amenities:    input.Amenities,
		Images:       input.Images,
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to create property"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    property,
	})
}

func GetProperty(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)
	if propertyID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid property ID"})
		return
	}

	var property models.Property
	if err := storage.DB.Preload("Host").First(&property, propertyID).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Property not found"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    property,
	})
}

// CheckPropertyAvailability is the advisory availability check from the
// listing detail page. The same checker runs again, authoritatively, when a
// checkout session is created.
func CheckPropertyAvailability(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)
	if propertyID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid property ID"})
		return
	}

	checkIn := ctx.URLParam("checkIn")
	checkOut := ctx.URLParam("checkOut")
	if checkIn == "" || checkOut == "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "checkIn and checkOut are required"})
		return
	}

	availability := services.NewAvailabilityService(storage.DB)
	result, err := availability.Check(propertyID, checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDateFormat):
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{"message": "Invalid date format"})
		case errors.Is(err, services.ErrPropertyNotFound):
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{"message": "Property not found"})
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    result,
	})
}

func GetMyProperties(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var properties []models.Property
	if err := storage.DB.Where("host_id = ?", userID).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch properties"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    properties,
	})
}

type SetListedInput struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// SetPropertyListed toggles the host's master availability switch.
func SetPropertyListed(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	propertyID := ctx.Params().GetUintDefault("id", 0)
	if propertyID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid property ID"})
		return
	}

	var input SetListedInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Verify property ownership
	var property models.Property
	if err := storage.DB.Where("id = ? AND host_id = ?", propertyID, userID).First(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "Property not found or access denied"})
		return
	}

	property.IsAvailable = input.IsAvailable
	if err := storage.DB.Save(&property).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to update property"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    property,
	})
}
