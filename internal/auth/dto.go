package auth

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=72"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type PasswordHashRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type PasswordHashResponse struct {
	Hash string `json:"hash"`
}
