package domain

// Identity is the current user as supplied by the session token. Screens
// that show "my records" receive it explicitly.
type Identity struct {
	UserID      string
	Username    string
	DisplayName string
}

// IsZero reports whether no user is signed in.
func (i Identity) IsZero() bool { return i.UserID == "" && i.Username == "" }

// Label is the name shown in the console header.
func (i Identity) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Username
}
