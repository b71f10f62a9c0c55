package models

// Account is an entry of the club's identity store.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	Suspended    bool   `json:"suspended"`
}

// Actor is the verified identity of the caller of a core operation.
type Actor struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}
