package model

// User is a registered ShareIt member. Users own items, book items and
// post item requests.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Equal reports whether u and other are the same persisted user.
// Users that have not been stored yet (zero id) are never equal.
func (u User) Equal(other User) bool {
	return u.ID != 0 && u.ID == other.ID
}
