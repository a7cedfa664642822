package auth

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

const defaultPhotoURL = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=880&q=80"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("please enter a valid email")
	ErrWeakPassword       = errors.New("password must be at least 5 characters long")
	ErrInvalidRole        = errors.New("role must be student or educator")
	ErrOtpInvalid         = errors.New("invalid OTP")
	ErrOtpExpired         = errors.New("OTP has expired")
	ErrOtpNotVerified     = errors.New("OTP verification required")
)

type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name            string               `bson:"name" json:"name"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	Email           string               `bson:"email" json:"email"`
	Password        string               `bson:"password" json:"-"`
	Role            string               `bson:"role" json:"role"`
	PhotoURL        string               `bson:"photoUrl" json:"photoUrl"`
	EnrolledCourses []primitive.ObjectID `bson:"enrolledCourses" json:"enrolledCourses"`
	ResetOtp        string               `bson:"resetOtp,omitempty" json:"-"`
	OtpExpiry       time.Time            `bson:"otpExpiry,omitempty" json:"-"`
	IsOtpVerified   bool                 `bson:"isOtpVerified" json:"-"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleAuthRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl"`
	Role     string `json:"role"`
}

type SendOtpRequest struct {
	Email string `json:"email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
