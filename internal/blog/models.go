package blog

import (
	"time"

	"github.com/inkwell/blog/backend/go-services/internal/models"
)

// Post is the persisted blog post. Likes is a set of user ids; the storage
// layer only mutates it through atomic add/remove operations.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Image     string    `json:"image" bson:"image"`
	AuthorID  string    `json:"-" bson:"author"`
	Likes     []string  `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LikedBy reports whether userID is in the like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Content   string    `json:"content" bson:"content"`
	AuthorID  string    `json:"-" bson:"author"`
	PostID    string    `json:"post" bson:"post"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PostView is a post with its author expanded, as returned to clients.
type PostView struct {
	Post
	Author models.Author `json:"author"`
}

// CommentView is a comment with its author expanded.
type CommentView struct {
	Comment
	Author models.Author `json:"author"`
}

// PostPage is one page of a filtered listing.
type PostPage struct {
	Posts       []PostView `json:"posts"`
	TotalPosts  int64      `json:"totalPosts"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int64      `json:"totalPages"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// PostQuery is the storage-level filter for posts.
type PostQuery struct {
	// Search is a literal, case-insensitive substring matched against title or content.
	Search   string
	AuthorID string
}
