package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash pgtype.Text `json:"-"`
	Role         string      `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type BlogPost struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	ImageUrl    string    `json:"imageUrl"`
	TechStack   []string  `json:"techStack"`
	LiveUrl     string    `json:"liveUrl"`
	RepoUrl     string    `json:"repoUrl"`
	Featured    bool      `json:"featured"`
	SortOrder   int32     `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Service struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Features    []string  `json:"features"`
	SortOrder   int32     `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MediaItem struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Kind         string     `json:"kind"`
	Url          string     `json:"url"`
	ThumbnailUrl string     `json:"thumbnailUrl"`
	Description  string     `json:"description"`
	PublishedAt  *time.Time `json:"publishedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
	Highlights  []string   `json:"highlights"`
	SortOrder   int32      `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type SEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type Setting struct {
	SiteName     string            `json:"siteName"`
	Tagline      string            `json:"tagline"`
	Bio          string            `json:"bio"`
	ContactEmail string            `json:"contactEmail"`
	AvatarUrl    string            `json:"avatarUrl"`
	ResumeUrl    string            `json:"resumeUrl"`
	Social       map[string]string `json:"social"`
	Seo          SEO               `json:"seo"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type Subscriber struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Active       bool      `json:"active"`
}

type ContactMessage struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     pgtype.Text `json:"phone"`
	Subject   string      `json:"subject"`
	Message   string      `json:"message"`
	Read      bool        `json:"read"`
	CreatedAt time.Time   `json:"createdAt"`
}
