package models

import "time"

// StoryActiveWindow is how long a story stays visible after posting.
const StoryActiveWindow = 24 * time.Hour

type StoryFileType string

const (
	StoryImage StoryFileType = "image"
	StoryVideo StoryFileType = "video"
)

func (t StoryFileType) Valid() bool {
	return t == StoryImage || t == StoryVideo
}

// Story is an ephemeral media post by a superstar. Expiry is a query
// predicate on PostedAt, not a background job.
type Story struct {
	Model
	SuperstarID  uint          `json:"superstar_id" gorm:"not null;index"`
	Superstar    *SuperStar    `json:"superstar,omitempty" gorm:"foreignKey:SuperstarID"`
	FileType     StoryFileType `json:"file_type" gorm:"type:varchar(16);not null"`
	URLPath      string        `json:"url_path" gorm:"not null"`
	ThumbnailURL string        `json:"thumbnail_url"`
	PostedAt     time.Time     `json:"posted_at" gorm:"index"`
}

func (s *Story) IsActive(now time.Time) bool {
	return now.Sub(s.PostedAt) < StoryActiveWindow
}
