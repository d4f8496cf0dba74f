package schema

// ContentSubscriberTable represents the 'content.subscriber' table
type ContentSubscriberTable struct {
	Table     string
	ID        string
	Email     string
	CreatedAt string
}

// ContentSubscriber is the schema definition for content.subscriber
var ContentSubscriber = ContentSubscriberTable{
	Table:     "content.subscriber",
	ID:        "id",
	Email:     "email",
	CreatedAt: "createdat",
}

func (t ContentSubscriberTable) Columns() []string {
	return []string{t.ID, t.Email, t.CreatedAt}
}
