package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a list of strings as a JSON column so the same model
// works on both sqlite and postgres.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Product is a catalog item. ProductID is the public, human-assigned
// identifier used in URLs and order line items; ID stays internal.
type Product struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ProductID     string     `gorm:"uniqueIndex;size:40;not null" json:"productId"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	AltNames      StringList `gorm:"type:text" json:"altNames"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Images        StringList `gorm:"type:text" json:"images"`
	LabelledPrice float64    `json:"labelledPrice"` // pre-discount reference price
	Price         float64    `gorm:"not null" json:"price"`
	Stock         int        `gorm:"not null" json:"stock"`
	Category      string     `gorm:"size:100;index" json:"category"`
	IsAvailable   bool       `gorm:"not null;default:true" json:"isAvailable"`
}
