package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	HostID       uint    `json:"hostID" gorm:"index"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	PropertyType string  `json:"propertyType"` // entire_place, private_room, shared_room
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 string  `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Zip          string  `json:"zip"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	Capacity     int     `json:"capacity"`
	Bedrooms     int     `json:"bedrooms"`
	Beds         int     `json:"beds"`
	Bathrooms    float32 `json:"bathrooms"`
	NightlyPrice float64 `json:"nightlyPrice"`
	CleaningFee  float64 `json:"cleaningFee"`
	ServiceFee   float64 `json:"serviceFee"`
	Currency     string  `json:"currency"`
	Amenities    string  `json:"amenities"` // JSON string
	Images       string  `json:"images"`    // JSON array of URLs

	// IsAvailable is the host's master switch. A delisted property rejects
	// every booking attempt regardless of dates.
	IsAvailable *bool `json:"isAvailable" gorm:"default:true"`

	Bookings []Booking `json:"bookings,omitempty"`
	Host     User      `json:"host" gorm:"foreignKey:HostID;references:ID"`
}

// Custom JSON marshaling to convert Images and Amenities strings to arrays
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images    []string `json:"images"`
		Amenities []string `json:"amenities"`
		Host      *User    `json:"host,omitempty"`
		*Alias
	}{
		Images:    []string{},
		Amenities: []string{},
		Host:      nil,
		Alias:     (*Alias)(p),
	}

	if p.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(p.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if p.Amenities != "" {
		var amenities []string
		if err := json.Unmarshal([]byte(p.Amenities), &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	// Only include host if loaded, and strip its Properties to avoid a cycle
	if p.Host.ID > 0 {
		hostCopy := p.Host
		hostCopy.Properties = nil
		aux.Host = &hostCopy
	}

	return json.Marshal(aux)
}
