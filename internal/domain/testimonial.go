package domain

import "time"

type Testimonial struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string    `json:"orderId" gorm:"size:36;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	Visible   bool      `json:"visible" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
