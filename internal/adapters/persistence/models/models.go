package models

import (
	"time"

	"peo-doctrack/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User statuses
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
	UserStatusPending  = "PENDING"
)

// User represents users table
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	Role       string         `gorm:"size:30;default:'DIVISION_CLERK'" json:"role"`
	Status     string         `gorm:"size:20;default:'PENDING'" json:"status"`
	DivisionID *uint          `gorm:"index" json:"division_id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Division *Division `gorm:"foreignKey:DivisionID" json:"division,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserResponse DTO
type UserResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	DivisionID   *uint     `json:"division_id,omitempty"`
	DivisionName string    `json:"division_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Status:     u.Status,
		DivisionID: u.DivisionID,
		CreatedAt:  u.CreatedAt,
	}
	if u.Division != nil {
		resp.DivisionName = u.Division.Name
	}
	return resp
}

// Session represents sessions table. A row backs one signed token; deleting
// the row revokes the slow path only, the token stays valid until expiry.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================
// Master Tables
// ============================================================

// Division is the office unit a document belongs to. The released-to
// destination is derived from it at release time.
type Division struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	District  string         `gorm:"size:100;not null" json:"district"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Division) TableName() string {
	return "divisions"
}

// Destination renders the human-readable released-to value.
func (d *Division) Destination() string {
	return d.District + " District, " + d.Name + " Division"
}

// ============================================================
// Document Tables
// ============================================================

// Document represents documents table
type Document struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Kind        string         `gorm:"size:10;not null;index" json:"kind"`
	Status      string         `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Amount      float64        `gorm:"type:decimal(15,2);default:0" json:"amount"`
	DivisionID  uint           `gorm:"not null;index" json:"division_id"`
	CreatedBy   uint           `gorm:"not null;index" json:"created_by"`
	FilePath    string         `gorm:"size:255" json:"file_path,omitempty"`
	FileName    string         `gorm:"size:255" json:"file_name,omitempty"`
	FileSize    int64          `json:"file_size,omitempty"`
	ReleasedAt  *time.Time     `json:"released_at,omitempty"`
	ReleasedTo  *string        `gorm:"size:255" json:"released_to,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Division *Division `gorm:"foreignKey:DivisionID" json:"division,omitempty"`
	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentResponse DTO
type DocumentResponse struct {
	ID           uint       `json:"id"`
	Code         string     `json:"code"`
	Kind         string     `json:"kind"`
	Status       string     `json:"status"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Amount       float64    `json:"amount"`
	DivisionID   uint       `json:"division_id"`
	DivisionName string     `json:"division_name,omitempty"`
	CreatedBy    uint       `json:"created_by"`
	CreatorName  string     `json:"creator_name,omitempty"`
	FileName     string     `json:"file_name,omitempty"`
	FileSize     int64      `json:"file_size,omitempty"`
	ReleasedAt   *time.Time `json:"released_at,omitempty"`
	ReleasedTo   *string    `json:"released_to,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (d *Document) ToResponse() *DocumentResponse {
	resp := &DocumentResponse{
		ID:          d.ID,
		Code:        d.Code,
		Kind:        d.Kind,
		Status:      d.Status,
		Title:       d.Title,
		Description: d.Description,
		Amount:      d.Amount,
		DivisionID:  d.DivisionID,
		CreatedBy:   d.CreatedBy,
		FileName:    d.FileName,
		FileSize:    d.FileSize,
		ReleasedAt:  d.ReleasedAt,
		ReleasedTo:  d.ReleasedTo,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	if d.Division != nil {
		resp.DivisionName = d.Division.Name
	}
	if d.Creator != nil {
		resp.CreatorName = d.Creator.Username
	}

	return resp
}

// SequenceCounter holds the last issued suffix per (kind, year) bucket.
// Rows only ever increment, so deleted documents never free their code.
type SequenceCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:10;not null;uniqueIndex:idx_seq_bucket" json:"kind"`
	Year      int       `gorm:"not null;uniqueIndex:idx_seq_bucket" json:"year"`
	LastValue int       `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// NextCode previews the code the counter would issue next.
func (c *SequenceCounter) NextCode() string {
	return domain.FormatCode(domain.Kind(c.Kind), c.Year, c.LastValue+1)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Division{},
		&Document{},
		&SequenceCounter{},
	)
}
