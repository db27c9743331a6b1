package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}

// ValidationErrorBody is returned with 400 responses from the login endpoint.
type ValidationErrorBody struct {
	Violations []string `json:"violations"`
}
