package domain

// Identity is the caller identity carried by a verified token or by the
// trusted headers the gateway injects.
type Identity struct {
	Subject string
	Role    Role
}

// ProfileView merges the account with the role-specific remote record.
// Details is nil when the remote record could not be fetched.
type ProfileView struct {
	Username string
	Email    string
	Role     Role
	Details  map[string]any
}
