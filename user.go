package brainrot

// UserProfile is a read-only projection of a server-side user record. It is
// replaced wholesale on every successful verify/login/register/fetch and is
// never partially mutated by the client.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	Credit   int    `json:"credit"`
}

// UserUpdate encapsulates the mutable fields of a user record. Zero-valued
// fields are omitted from the request and left unchanged server-side.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}
