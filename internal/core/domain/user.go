package domain

// User is an authenticated console user. Values are copied, never shared.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// FullName is what the sidebar user card shows.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
