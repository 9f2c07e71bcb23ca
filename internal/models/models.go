package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Nutrient struct {
	Name   string `json:"name"   yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
	DV     string `json:"dv"     yaml:"dv"`
}

type SupplementFacts struct {
	ServingSize          string     `json:"servingSize"          yaml:"servingSize"`
	ServingsPerContainer string     `json:"servingsPerContainer" yaml:"servingsPerContainer"`
	Nutrients            []Nutrient `json:"nutrients"            yaml:"nutrients"`
}

type Product struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"       json:"id"`
	Name            string           `gorm:"not null;index"             json:"name"`
	Description     string           `gorm:"not null"                   json:"description"`
	Category        string           `gorm:"not null;index"             json:"category"`
	Image           string           `                                  json:"image"`
	Tagline         string           `                                  json:"tagline,omitempty"`
	Benefits        []string         `gorm:"type:text;serializer:json"  json:"benefits,omitempty"`
	Usage           string           `                                  json:"usage,omitempty"`
	Ingredients     string           `                                  json:"ingredients,omitempty"`
	Highlight       string           `                                  json:"highlight,omitempty"`
	Goal            string           `                                  json:"goal,omitempty"`
	Servings        string           `                                  json:"servings,omitempty"`
	SupplementFacts *SupplementFacts `gorm:"type:text;serializer:json"  json:"supplementFacts,omitempty"`
	CreatedAt       time.Time        `                                  json:"createdAt"`
	UpdatedAt       time.Time        `                                  json:"updatedAt"`
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"not null"              json:"name"`
	Slug      string    `gorm:"not null;uniqueIndex"  json:"slug"`
	Image     string    `                             json:"image"`
	CreatedAt time.Time `                             json:"createdAt"`
}

// SerialNumber.CodeKey is the lowercased code; its unique index makes the
// registry case-insensitively unique.
type SerialNumber struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"        json:"id"`
	Code       string     `gorm:"not null"                    json:"code"`
	CodeKey    string     `gorm:"not null;uniqueIndex"        json:"-"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index"    json:"productId"`
	Product    *Product   `gorm:"foreignKey:ProductID"        json:"product,omitempty"`
	IsVerified bool       `gorm:"not null;default:false"      json:"isVerified"`
	VerifiedAt *time.Time `                                   json:"verifiedAt,omitempty"`
	VerifiedBy *uuid.UUID `gorm:"type:uuid"                   json:"verifiedBy,omitempty"`
	CreatedAt  time.Time  `                                   json:"createdAt"`
}

type VerificationRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	SerialCode string    `gorm:"not null;index"            json:"serialCode"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"  json:"productId"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"  json:"userId"`
	VerifiedAt time.Time `gorm:"not null;index"            json:"verifiedAt"`
}

func (VerificationRecord) TableName() string { return "verifications" }

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Email        string    `gorm:"not null;uniqueIndex"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Name         string    `                             json:"name"`
	Role         string    `gorm:"not null"              json:"role"`
	CreatedAt    time.Time `                             json:"createdAt"`
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Product) BeforeCreate(*gorm.DB) error            { ensureID(&p.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error           { ensureID(&c.ID); return nil }
func (s *SerialNumber) BeforeCreate(*gorm.DB) error       { ensureID(&s.ID); return nil }
func (v *VerificationRecord) BeforeCreate(*gorm.DB) error { ensureID(&v.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error               { ensureID(&u.ID); return nil }

func All() []any {
	return []any{
		&Product{},
		&Category{},
		&SerialNumber{},
		&VerificationRecord{},
		&User{},
	}
}
