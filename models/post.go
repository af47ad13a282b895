package models

// Post is a permanent media post on a superstar's page.
type Post struct {
	Model
	SuperstarID uint       `json:"superstar_id" gorm:"not null;index"`
	Superstar   *SuperStar `json:"superstar,omitempty" gorm:"foreignKey:SuperstarID"`
	Title       string     `json:"title" conform:"trim"`
	Description string     `json:"description" conform:"trim"`
	FileType    string     `json:"file_type"`
	URLPath     string     `json:"url_path"`
}

type CreatePostRequest struct {
	Title       string `form:"title" binding:"required" conform:"trim"`
	Description string `form:"description" conform:"trim"`
	FileType    string `form:"file_type" binding:"omitempty,oneof=image video"`
}

type UpdatePostRequest struct {
	Title       *string `json:"title" conform:"trim"`
	Description *string `json:"description" conform:"trim"`
}
