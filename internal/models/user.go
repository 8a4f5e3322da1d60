package models

// UserModel represents a registered account.
type UserModel struct {
	Base     `bson:",inline"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email"    bson:"email"`
	Password string `json:"-"        bson:"password"`
}

func (UserModel) Collection() string { return "users" }
