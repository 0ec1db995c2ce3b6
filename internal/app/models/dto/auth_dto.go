package dto

import "mime/multipart"

// SignupRequest is the multipart form a student submits to apply
type SignupRequest struct {
	FirstName        string                `form:"firstName" binding:"required,notblank,max=100" example:"Amina"`
	LastName         string                `form:"lastName" binding:"required,notblank,max=100" example:"Benali"`
	Email            string                `form:"email" binding:"required,email,max=255" example:"amina@univ.dz"`
	Password         string                `form:"password" binding:"required,password" example:"secret123"`
	StudentNumber    string                `form:"studentNumber" binding:"required,studentnumber" example:"20231234"`
	Phone            string                `form:"phone" binding:"omitempty,phone" example:"+213555123456"`
	University       string                `form:"university" binding:"omitempty,max=200" example:"USTHB"`
	Major            string                `form:"major" binding:"omitempty,max=200" example:"Computer Science"`
	AcademicYear     string                `form:"academicYear" binding:"omitempty,max=20" example:"M1"`
	CV               *multipart.FileHeader `form:"cv" binding:"required" swaggerignore:"true"`
	MotivationLetter *multipart.FileHeader `form:"motivationLetter" binding:"required" swaggerignore:"true"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"amina@univ.dz"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int    `json:"expiresIn" example:"3600"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn,omitempty" example:"604800"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// SignupResponse returns the new account and its pending application
type SignupResponse struct {
	User        UserResponse        `json:"user"`
	Application ApplicationResponse `json:"application"`
}
