package schema

// ContentCommentTable represents the 'content.comment' table
type ContentCommentTable struct {
	Table      string
	ID         string
	BlogID     string
	ParentID   string
	AuthorName string
	Body       string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

// ContentComment is the schema definition for content.comment
var ContentComment = ContentCommentTable{
	Table:      "content.comment",
	ID:         "id",
	BlogID:     "blogid",
	ParentID:   "parentid",
	AuthorName: "authorname",
	Body:       "body",
	Status:     "status",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t ContentCommentTable) Columns() []string {
	return []string{
		t.ID, t.BlogID, t.ParentID, t.AuthorName, t.Body, t.Status, t.CreatedAt,
	}
}
