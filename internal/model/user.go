package model

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
	Language    string `json:"language"`
	Role        string `json:"role,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type GoogleLoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" form:"token"`
}

type VerifyEmailResponse struct{}

type ResendVerificationRequest struct{}

type ResendVerificationResponse struct{}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Language    *string `json:"language"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"user_id" form:"user_id" uri:"user_id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}
