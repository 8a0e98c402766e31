// File: models/car.go
package models

// Car is a catalog entry. Speed and Price are display strings ("315 km/h", "$145,000").
// Tag is null when the car carries no badge.
type Car struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Speed       string  `json:"speed"`
	Price       string  `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Tag         *string `json:"tag"`
}

// NewCar is the validated body of POST /api/cars.
type NewCar struct {
	Name        string  `json:"name" binding:"required"`
	Year        int     `json:"year" binding:"required"`
	Speed       string  `json:"speed" binding:"required"`
	Price       string  `json:"price" binding:"required"`
	Description string  `json:"description" binding:"required"`
	ImageURL    string  `json:"imageUrl" binding:"required"`
	Tag         *string `json:"tag"`
}

// Build returns the record a store persists for n under id. An omitted tag stays nil (null).
func (n NewCar) Build(id int64) Car {
	return Car{
		ID:          id,
		Name:        n.Name,
		Year:        n.Year,
		Speed:       n.Speed,
		Price:       n.Price,
		Description: n.Description,
		ImageURL:    n.ImageURL,
		Tag:         n.Tag,
	}
}

// CarPatch is a partial update. Nil fields are left untouched; Tag distinguishes
// "absent" from an explicit null that clears the badge.
type CarPatch struct {
	Name        *string        `json:"name"`
	Year        *int           `json:"year"`
	Speed       *string        `json:"speed"`
	Price       *string        `json:"price"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"imageUrl"`
	Tag         OptionalString `json:"tag"`
}

// Empty reports whether the patch changes nothing.
func (p CarPatch) Empty() bool {
	return p.Name == nil && p.Year == nil && p.Speed == nil && p.Price == nil &&
		p.Description == nil && p.ImageURL == nil && !p.Tag.Set
}

// Apply merges the provided fields over c.
func (p CarPatch) Apply(c Car) Car {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Year != nil {
		c.Year = *p.Year
	}
	if p.Speed != nil {
		c.Speed = *p.Speed
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.Tag.Set {
		c.Tag = p.Tag.Value
	}
	return c
}
