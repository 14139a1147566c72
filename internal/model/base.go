package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID gives a new row its primary key before insert. Keys are generated
// in Go so the same models work on postgres and sqlite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (d *Diamond) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

func (c *CompanyDetails) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Client{},
		&CompanyDetails{},
		&Invoice{},
		&Diamond{},
		&AuditLog{},
	}
}
