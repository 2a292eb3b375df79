package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	DisplayName string
	Handle      string
	AvatarURL   string
	Role        string
	Status      string
	LastLoginAt string
	CreatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	DisplayName: "displayname",
	Handle:      "handle",
	AvatarURL:   "avatarurl",
	Role:        "role",
	Status:      "status",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.DisplayName, t.Handle,
		t.AvatarURL, t.Role, t.Status, t.LastLoginAt, t.CreatedAt,
	}
}
