// Package domain defines the persistence models for users, chats, messages,
// conversions, and uploaded files. These types are mapped with GORM and form
// the core data layer of the Gesture Path backend.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User represents a registered account. The password hash is write-only and
// never leaves the credential layer.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier, stored lowercased.
//   - Name: display name shown in the UI.
//   - PasswordHash: bcrypt digest; excluded from all JSON output.
//   - Avatar: optional avatar reference (URL or upload id).
type User struct {
	ID           string    `json:"id"     gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"  gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Name         string    `json:"name"   gorm:"type:varchar(255);not null"`
	PasswordHash string    `json:"-"      gorm:"type:varchar(255);not null"`
	Avatar       *string   `json:"avatar" gorm:"type:varchar(512)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Chat represents a mode-paired conversation owned by a user. The input and
// output modes are declared at creation time and fixed for the chat's life.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the chat owner; indexed for efficient retrieval.
//   - Title: human-readable chat title.
//   - InputMode / OutputMode: declared modality pair ("text", "audio", "visual").
//   - CreatedAt / UpdatedAt: UpdatedAt is bumped on every message append.
//   - Messages: ordered message log, loaded for list/get responses.
type Chat struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"userId"     gorm:"type:varchar(64);not null;index:idx_user_chats"`
	Title      string    `json:"title"      gorm:"type:varchar(255);not null"`
	InputMode  string    `json:"inputMode"  gorm:"type:varchar(16);not null"`
	OutputMode string    `json:"outputMode" gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Messages []Message `json:"messages" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// MessageMeta carries optional conversion provenance attached to a message.
// It is stored as a JSON text column.
type MessageMeta struct {
	OriginalMode   string `json:"originalMode,omitempty"`
	TargetMode     string `json:"targetMode,omitempty"`
	ProcessingTime int64  `json:"processingTime,omitempty"` // milliseconds
}

// Value implements driver.Valuer, serializing the metadata to JSON.
func (m MessageMeta) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner, deserializing the stored JSON text.
func (m *MessageMeta) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	default:
		return errors.New("message metadata: unsupported column type")
	}
}

// Message represents a single immutable entry within a chat's append-only log.
// Binary content (audio/visual) is referenced by URI in Content, not stored
// inline.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ChatID: foreign key to the owning chat (indexed).
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Content: text content or a content reference/URI.
//   - Type: content modality, defaults to "text".
//   - Metadata: optional conversion provenance.
//   - CreatedAt: server-assigned append time; drives insertion ordering.
//
// Messages are cascade-deleted when their chat is removed.
type Message struct {
	ID        string       `json:"id"                 gorm:"type:char(36);primaryKey"`
	ChatID    string       `json:"chatId"             gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string       `json:"role"               gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string       `json:"content"            gorm:"type:text;not null"`
	Type      string       `json:"type"               gorm:"type:varchar(16);not null;default:'text'"`
	Metadata  *MessageMeta `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"timestamp"          gorm:"index:idx_chat_msgs,priority:2"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Conversion records one completed conversion request. It is the read-model
// behind the history endpoint; the converter itself never writes it.
type Conversion struct {
	ID             string    `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"-"              gorm:"type:varchar(64);not null;index:idx_user_conversions,priority:1"`
	InputMode      string    `json:"inputMode"      gorm:"type:varchar(16);not null"`
	OutputMode     string    `json:"outputMode"     gorm:"type:varchar(16);not null"`
	InputContent   string    `json:"inputContent"   gorm:"type:text;not null"`
	OutputContent  string    `json:"outputContent"  gorm:"type:text;not null"`
	ProcessingTime int64     `json:"processingTime" gorm:"not null"` // milliseconds
	CreatedAt      time.Time `json:"timestamp"      gorm:"index:idx_user_conversions,priority:2"`
}

// TableName returns the database table name for Conversion.
func (Conversion) TableName() string { return "conversions" }

// FileUpload stores metadata for a file accepted by the upload endpoint.
// The bytes live on disk under the configured upload directory.
type FileUpload struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID       string    `json:"-"            gorm:"type:varchar(64);not null;index"`
	Filename     string    `json:"filename"     gorm:"type:varchar(512);not null"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(512);not null"`
	MimeType     string    `json:"mimetype"     gorm:"type:varchar(128);not null"`
	Size         int64     `json:"size"         gorm:"not null"`
	Mode         string    `json:"mode"         gorm:"type:varchar(16);not null"`
	Path         string    `json:"-"            gorm:"type:varchar(1024);not null"`
	CreatedAt    time.Time `json:"uploadedAt"`
}

// TableName returns the database table name for FileUpload.
func (FileUpload) TableName() string { return "file_uploads" }
