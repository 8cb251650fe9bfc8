package domain

import (
	"regexp"
	"time"
)

// DownloadStatus is the outcome a client reports for a shard download.
type DownloadStatus string

const (
	DownloadCompleted DownloadStatus = "completed"
	DownloadFailed    DownloadStatus = "failed"
)

// Valid reports whether s is a known status.
func (s DownloadStatus) Valid() bool {
	return s == DownloadCompleted || s == DownloadFailed
}

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// ValidSHA256 reports whether s is a lowercase hex SHA-256 digest.
func ValidSHA256(s string) bool {
	return sha256Pattern.MatchString(s)
}

// ShardDownload records that a user fetched (or failed to fetch) one shard.
type ShardDownload struct {
	ID         string         `json:"id" bson:"_id"`
	UserEmail  string         `json:"-" bson:"user_email"`
	ModelID    string         `json:"model_id" bson:"model_id"`
	ShardURL   string         `json:"shard_url" bson:"shard_url"`
	SHA256     string         `json:"sha256" bson:"sha256"`
	Size       int64          `json:"size,omitempty" bson:"size,omitempty"`
	Status     DownloadStatus `json:"status" bson:"status"`
	RecordedAt time.Time      `json:"recorded_at" bson:"recorded_at"`
}
