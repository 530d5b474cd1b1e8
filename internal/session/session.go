package session

// User is the identity record bound to the current session.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Tokens is the grant issued by the auth backend at login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64 // seconds until the access token expires
}

// Snapshot is the persisted form of a session. It mirrors the in-memory
// state exactly, minus the transient refresh bookkeeping.
type Snapshot struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"` // epoch milliseconds
}

// RefreshGrant is the result of a refresh-token exchange. The backend does
// not rotate refresh tokens, so only the access half comes back.
type RefreshGrant struct {
	AccessToken string
	ExpiresIn   int64
}
