package model

// AccessToken is the claims object embedded in bearer tokens.
type AccessToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// VerifyEmailToken is the claims object of the one-shot email verification
// token.
type VerifyEmailToken struct {
	UserID string `json:"user_id"`
}
