package model

import "time"

// Campsite is the aggregate root for a campground listing. Comments are
// embedded in the campsite document rather than stored in their own
// collection — a comment only ever exists in the context of its campsite,
// and every read of a campsite wants its comments too.
type Campsite struct {
	ID          string    `json:"id"          bson:"_id,omitempty"`
	Name        string    `json:"name"        bson:"name"`
	Image       string    `json:"image"       bson:"image"`
	Description string    `json:"description" bson:"description"`
	Comments    []Comment `json:"comments"    bson:"comments"`
	CreatedAt   time.Time `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   bson:"updated_at"`
}

// Comment is a user remark embedded in a Campsite document.
//
// AuthorName is a snapshot of the author's username at posting time, so
// rendering a campsite never needs a second lookup per comment.
type Comment struct {
	ID         string    `json:"id"         bson:"id"`
	AuthorID   string    `json:"authorId"   bson:"author_id"`
	AuthorName string    `json:"authorName" bson:"author_name"`
	Text       string    `json:"text"       bson:"text"`
	CreatedAt  time.Time `json:"createdAt"  bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  bson:"updated_at"`
}

// FindComment returns the comment with the given id, or nil.
func (c *Campsite) FindComment(commentID string) *Comment {
	for i := range c.Comments {
		if c.Comments[i].ID == commentID {
			return &c.Comments[i]
		}
	}
	return nil
}
