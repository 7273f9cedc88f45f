package models

// Identity is a registered user. Projects and duties reference identities but
// never own them.
type Identity struct {
	Username       string
	EmailAddress   string
	CredentialHash string
	Active         bool
}

// NewIdentity creates an active identity.
func NewIdentity(username, email, credentialHash string) *Identity {
	return &Identity{
		Username:       username,
		EmailAddress:   email,
		CredentialHash: credentialHash,
		Active:         true,
	}
}

// SameAs reports whether both identities share a username.
func (i *Identity) SameAs(other *Identity) bool {
	if i == nil || other == nil {
		return false
	}
	return i.Username == other.Username
}
