package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,excludesall= /"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// loginRequest only checks presence.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- Posts ---

type postRequest struct {
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content" validate:"required"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
