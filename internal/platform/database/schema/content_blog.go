package schema

// ContentBlogTable represents the 'content.blog' table
type ContentBlogTable struct {
	Table     string
	ID        string
	Title     string
	Slug      string
	Summary   string
	Body      string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// ContentBlog is the schema definition for content.blog
var ContentBlog = ContentBlogTable{
	Table:     "content.blog",
	ID:        "id",
	Title:     "title",
	Slug:      "slug",
	Summary:   "summary",
	Body:      "body",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t ContentBlogTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Summary, t.Body, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
