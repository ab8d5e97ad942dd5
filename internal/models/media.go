package models

import "time"

// MediaAsset stores metadata about uploaded garment and post imagery.
type MediaAsset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   string    `gorm:"size:64;index" json:"owner_id"`
	OwnerKind string    `gorm:"size:16" json:"owner_kind"`
	FileName  string    `gorm:"size:255" json:"file_name"`
	URL       string    `gorm:"size:512" json:"url"`
	MimeType  string    `gorm:"size:64" json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `gorm:"size:64" json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}
