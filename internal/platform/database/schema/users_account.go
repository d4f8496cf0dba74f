package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     string
	LastLoginAt  string
	CreatedAt    string
	UpdatedAt    string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "passwordhash",
	Role:         "role",
	IsActive:     "isactive",
	LastLoginAt:  "lastloginat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t UsersAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.Role, t.IsActive, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
