package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:50" json:"first_name,omitempty"`
	LastName  string `gorm:"size:50" json:"last_name,omitempty"`
	Bio       string `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL string `gorm:"size:200" json:"avatar_url,omitempty"`

	// No gorm defaults on these: a default would make gorm omit explicit
	// false values on insert. Callers set them.
	Active         bool `gorm:"not null" json:"active"`
	IsAdmin        bool `gorm:"not null" json:"is_admin"`
	EmailConfirmed bool `gorm:"not null" json:"email_confirmed"`

	LastSeen *time.Time `json:"last_seen,omitempty"`

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
}

// FullName returns "First Last" when both parts are set, otherwise the
// username.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:60;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"size:7;default:'#007bff'" json:"color"`
	Icon        string `gorm:"size:50;default:'bi-folder'" json:"icon"`

	Posts []Post `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}

type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"uniqueIndex;size:30;not null" json:"name"`
	Description string `gorm:"size:200" json:"description,omitempty"`
	Color       string `gorm:"size:7;default:'#6c757d'" json:"color"`

	Posts []Post `gorm:"many2many:post_tags;" json:"posts,omitempty"`
}

type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string `gorm:"size:200;not null;index" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Excerpt string `gorm:"size:500" json:"excerpt"`

	Slug            string `gorm:"uniqueIndex;size:250;not null" json:"slug"`
	MetaDescription string `gorm:"size:160" json:"meta_description,omitempty"`
	FeaturedImage   string `gorm:"size:200" json:"featured_image,omitempty"`

	Published     bool `gorm:"not null" json:"published"`
	Featured      bool `gorm:"not null" json:"featured"`
	AllowComments bool `gorm:"not null" json:"allow_comments"`

	ReadTime  string `gorm:"size:20" json:"read_time"`
	ViewCount int    `gorm:"not null;default:0" json:"view_count"`

	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`

	AuthorID   uint     `gorm:"not null" json:"author_id"`
	Author     User     `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID uint     `gorm:"not null" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`

	Tags     []Tag     `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Content string `gorm:"type:text;not null" json:"content"`

	Approved bool `gorm:"not null" json:"approved"`
	Flagged  bool `gorm:"not null" json:"flagged"`

	PostID uint `gorm:"not null;index" json:"post_id"`
	Post   Post `gorm:"foreignKey:PostID" json:"post,omitempty"`

	AuthorID uint `gorm:"not null" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`

	ParentID *uint      `json:"parent_id,omitempty"`
	Parent   *Comment   `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Replies  []*Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username" binding:"omitempty,username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,max=50"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=200"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor_or_empty"`
	Icon        string `json:"icon" binding:"omitempty,max=50"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor_or_empty"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
}

type CreatePostRequest struct {
	Title           string   `json:"title" binding:"required,max=200"`
	Content         string   `json:"content" binding:"required"`
	Excerpt         string   `json:"excerpt" binding:"omitempty,max=500"`
	MetaDescription string   `json:"meta_description" binding:"omitempty,max=160"`
	FeaturedImage   string   `json:"featured_image" binding:"omitempty,max=200"`
	Published       *bool    `json:"published"`
	Featured        bool     `json:"featured"`
	AllowComments   *bool    `json:"allow_comments"`
	CategoryID      uint     `json:"category_id" binding:"required"`
	TagNames        []string `json:"tags"`
}

// UpdatePostRequest deliberately has no slug, excerpt regeneration or read
// time fields: derived values are fixed at creation and edits never
// recompute them.
type UpdatePostRequest struct {
	Title           *string  `json:"title" binding:"omitempty,max=200"`
	Content         *string  `json:"content"`
	Excerpt         *string  `json:"excerpt" binding:"omitempty,max=500"`
	MetaDescription *string  `json:"meta_description" binding:"omitempty,max=160"`
	FeaturedImage   *string  `json:"featured_image" binding:"omitempty,max=200"`
	Published       *bool    `json:"published"`
	Featured        *bool    `json:"featured"`
	AllowComments   *bool    `json:"allow_comments"`
	CategoryID      *uint    `json:"category_id"`
	TagNames        []string `json:"tags"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostList is the paginated envelope returned by listing endpoints. Pages
// are 1-indexed; out-of-range pages yield an empty Items with the true
// totals.
type PostList struct {
	Items     []Post `json:"items"`
	Total     int64  `json:"total"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	PageCount int    `json:"page_count"`
}
