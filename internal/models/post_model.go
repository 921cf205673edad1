package models

import "time"

// PostStatus identifies which queue a post lives in. The status is implicit in
// the collection holding the document (pendingPosts vs approvedPosts); it is
// also stored on the record so clients never have to infer it.
type PostStatus string

const (
	StatusPending  PostStatus = "pending"
	StatusApproved PostStatus = "approved"
)

// PostCategory is the fixed set of bulletin categories.
type PostCategory string

const (
	CategoryAcademic PostCategory = "academic"
	CategoryEvents   PostCategory = "events"
	CategoryGeneral  PostCategory = "general"
	CategorySports   PostCategory = "sports"
	CategoryClubs    PostCategory = "clubs"
)

// Valid reports whether the category is one of the known values.
func (c PostCategory) Valid() bool {
	switch c {
	case CategoryAcademic, CategoryEvents, CategoryGeneral, CategorySports, CategoryClubs:
		return true
	}
	return false
}

// PostPriority is the display priority of a bulletin.
type PostPriority string

const (
	PriorityNormal PostPriority = "normal"
	PriorityUrgent PostPriority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p PostPriority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// Post represents a submitted bulletin. A post exists in exactly one of the
// pending or approved collections at any time; approval moves the document
// between collections rather than mutating a field in place.
type Post struct {
	ID        string       `json:"id" firestore:"-"` // Document ID, auto-generated by Firestore
	Title     string       `json:"title" firestore:"title"`
	Author    string       `json:"author" firestore:"author"`
	Content   string       `json:"content" firestore:"content"`
	Category  PostCategory `json:"category" firestore:"category"`
	Priority  PostPriority `json:"priority" firestore:"priority"`
	Image     string       `json:"image,omitempty" firestore:"image,omitempty"` // Public URL from the upload service; empty if no attachment
	Status    PostStatus   `json:"status" firestore:"status"`
	CreatedAt time.Time    `json:"createdAt" firestore:"createdAt"` // Set once at submission, immutable; descending display order
}
