package models

import "time"

// Listing statuses. Only StatusAvailable listings are returned from search.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusInactive  = "inactive"
)

type Property struct {
	ID             string    `json:"id" bson:"_id"`
	Title          string    `json:"title" bson:"title"`
	Description    string    `json:"description" bson:"description"`
	City           string    `json:"city" bson:"city"`
	Compound       string    `json:"compound,omitempty" bson:"compound,omitempty"`
	PropertyType   string    `json:"property_type" bson:"property_type"`
	Bedrooms       int       `json:"bedrooms" bson:"bedrooms"`
	Bathrooms      int       `json:"bathrooms" bson:"bathrooms"`
	AreaSqm        float64   `json:"area_sqm" bson:"area_sqm"`
	Price          float64   `json:"price" bson:"price"`
	Currency       string    `json:"currency" bson:"currency"`
	Status         string    `json:"status" bson:"status"`
	IsFeatured     bool      `json:"is_featured" bson:"is_featured"`
	VirtualTourURL *string   `json:"virtual_tour_url" bson:"virtual_tour_url"`
	BrokerID       string    `json:"broker_id,omitempty" bson:"broker_id,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty" bson:"longitude,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// HasVirtualTour reports whether the listing carries a usable tour reference.
func (p Property) HasVirtualTour() bool {
	return p.VirtualTourURL != nil && *p.VirtualTourURL != ""
}

type Photo struct {
	ID         string `json:"id" bson:"_id"`
	PropertyID string `json:"property_id" bson:"property_id"`
	URL        string `json:"url" bson:"url"`
	Caption    string `json:"caption,omitempty" bson:"caption,omitempty"`
	Position   int    `json:"position" bson:"position"`
	IsCover    bool   `json:"is_cover" bson:"is_cover"`
}

// AppraisalSummary is the latest completed appraisal of a property.
type AppraisalSummary struct {
	PropertyID     string    `json:"property_id" bson:"property_id"`
	AppraisedValue float64   `json:"appraised_value" bson:"appraised_value"`
	Currency       string    `json:"currency" bson:"currency"`
	AppraiserID    string    `json:"appraiser_id" bson:"appraiser_id"`
	AppraisedAt    time.Time `json:"appraised_at" bson:"appraised_at"`
	Status         string    `json:"status" bson:"status"`
}

// PropertyListing is the read projection returned to clients: the stored property
// plus its ordered photos and, for detail reads, the appraisal summary.
type PropertyListing struct {
	Property
	Photos    []Photo           `json:"photos,omitempty"`
	Appraisal *AppraisalSummary `json:"appraisal,omitempty"`
}

type PropertyStatistics struct {
	TotalAvailable int64            `json:"total_available"`
	ByCity         map[string]int64 `json:"by_city"`
	ByType         map[string]int64 `json:"by_type"`
	MinPrice       float64          `json:"min_price"`
	AvgPrice       float64          `json:"avg_price"`
	MaxPrice       float64          `json:"max_price"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// PropertyInput is the body accepted by create and update.
type PropertyInput struct {
	Title          string   `json:"title" validate:"required,min=3,max=200"`
	Description    string   `json:"description" validate:"max=5000"`
	City           string   `json:"city" validate:"required"`
	Compound       string   `json:"compound"`
	PropertyType   string   `json:"property_type" validate:"required,oneof=apartment villa townhouse duplex penthouse studio chalet office"`
	Bedrooms       int      `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms      int      `json:"bathrooms" validate:"gte=0,lte=50"`
	AreaSqm        float64  `json:"area_sqm" validate:"gte=0"`
	Price          float64  `json:"price" validate:"gte=0"`
	Currency       string   `json:"currency" validate:"omitempty,len=3"`
	Status         string   `json:"status" validate:"omitempty,oneof=available reserved sold inactive"`
	IsFeatured     bool     `json:"is_featured"`
	VirtualTourURL *string  `json:"virtual_tour_url" validate:"omitempty,url"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// Apply copies the input onto p, filling defaults for status and currency.
func (in PropertyInput) Apply(p *Property) {
	p.Title = in.Title
	p.Description = in.Description
	p.City = in.City
	p.Compound = in.Compound
	p.PropertyType = in.PropertyType
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.AreaSqm = in.AreaSqm
	p.Price = in.Price
	p.Currency = in.Currency
	if p.Currency == "" {
		p.Currency = "EGP"
	}
	p.Status = in.Status
	if p.Status == "" {
		p.Status = StatusAvailable
	}
	p.IsFeatured = in.IsFeatured
	p.VirtualTourURL = in.VirtualTourURL
	p.Latitude = in.Latitude
	p.Longitude = in.Longitude
}
