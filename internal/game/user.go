package game

import "time"

// User :
// A registered player. The password is only ever stored
// as a bcrypt hash.
//
// The `FamilyName` and the `Color` are the public face
// of the player: foreign villages and troops are labeled
// and tinted with them on the map.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	FamilyName   string    `bson:"family_name" json:"family_name"`
	Color        string    `bson:"color" json:"color"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
