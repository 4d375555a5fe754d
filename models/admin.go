package models

import "time"

// Admin is a service-provider account. Email is the identity key and never
// changes after the account is created.
type Admin struct {
	ID            string        `bson:"id" json:"_id"`
	Email         string        `bson:"email" json:"email"`
	Name          string        `bson:"name" json:"name"`
	Phone         string        `bson:"phone,omitempty" json:"phone,omitempty"`
	AadhaarNumber string        `bson:"aadhaarNumber,omitempty" json:"adhaarNumber,omitempty"`
	Age           int           `bson:"age,omitempty" json:"age,omitempty"`
	Gender        string        `bson:"gender,omitempty" json:"gender,omitempty"`
	Photo         string        `bson:"photo,omitempty" json:"photo,omitempty"`
	Services      []ServiceType `bson:"services" json:"service"`
	Location      Address       `bson:"location" json:"location"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Address is a geocoded point picked on the map.
type Address struct {
	Address   string  `bson:"address" json:"address"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// ServiceType is one of the trades an admin can offer.
type ServiceType string

const (
	ServiceElectrician       ServiceType = "Electrician"
	ServicePlumber           ServiceType = "Plumber"
	ServiceWaterRepair       ServiceType = "Water Repair"
	ServiceACRepair          ServiceType = "AC Repair"
	ServiceBeautyParlorMen   ServiceType = "Beauty Parlor (Men)"
	ServiceBeautyParlorWomen ServiceType = "Beauty Parlor (Women)"
	ServiceHouseCleaning     ServiceType = "House Cleaning"
	ServicePainting          ServiceType = "Painting"
)

var knownServiceTypes = map[ServiceType]bool{
	ServiceElectrician:       true,
	ServicePlumber:           true,
	ServiceWaterRepair:       true,
	ServiceACRepair:          true,
	ServiceBeautyParlorMen:   true,
	ServiceBeautyParlorWomen: true,
	ServiceHouseCleaning:     true,
	ServicePainting:          true,
}

// IsKnownServiceType reports whether s is an offered service.
func IsKnownServiceType(s ServiceType) bool {
	return knownServiceTypes[s]
}

// ProfileUpdate carries the editable admin fields.
type ProfileUpdate struct {
	Name          string        `json:"name" validate:"required,max=120"`
	Phone         string        `json:"phone" validate:"omitempty,len=10,numeric"`
	AadhaarNumber string        `json:"adhaarNumber" validate:"omitempty,len=12,numeric"`
	Age           int           `json:"age" validate:"omitempty,gt=0,lt=150"`
	Gender        string        `json:"gender" validate:"omitempty,max=32"`
	Services      []ServiceType `json:"service" validate:"required,min=1,dive,servicetype"`
	Location      *Address      `json:"location"`
}
