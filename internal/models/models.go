package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Child struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name string

	Payments []Payment
	Fees     []Fee
}

type Payment struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ChildID string `gorm:"not null"`
	Amount  float64
}

// Fee is what a child owes for a registration. The newest one per child wins.
type Fee struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ChildID          string `gorm:"not null"`
	TotalAmount      float64
	RegistrationType string // e.g. new | returning
}

func (c *Child) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (f *Fee) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave normalizes caller-supplied CreatedAt values to UTC.
func (f *Fee) BeforeSave(tx *gorm.DB) error {
	f.CreatedAt = f.CreatedAt.UTC()
	return nil
}
