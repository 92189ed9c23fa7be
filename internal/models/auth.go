package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest carries the credentials posted to /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token together with the user snapshot.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	User      *User  `json:"user"`
}

// JWTClaims are the custom claims embedded in access tokens.
type JWTClaims struct {
	UserID string   `json:"uid"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// DashboardStats is the aggregate snapshot served (and cached) for the admin
// dashboard.
type DashboardStats struct {
	TotalStudents   int                      `json:"totalStudents"`
	TotalSubjects   int                      `json:"totalSubjects"`
	MarkedToday     int                      `json:"markedToday"`
	PresentToday    int                      `json:"presentToday"`
	AbsentToday     int                      `json:"absentToday"`
	LateToday       int                      `json:"lateToday"`
	ByDepartment    map[string]int           `json:"byDepartment"`
	StatusBreakdown map[AttendanceStatus]int `json:"statusBreakdown"`
	GeneratedAt     string                   `json:"generatedAt"`
}
