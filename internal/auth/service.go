package auth

import (
	"context"
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const otpValidity = 5 * time.Minute

// UserStore is the persistence surface the service needs. Lookups return
// (nil, nil) when no document matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// Mailer delivers the password-reset OTP.
type Mailer interface {
	SendPasswordResetMail(to, otp string) error
}

type UserService struct {
	repo   UserStore
	mailer Mailer
	logger *zap.Logger
}

func NewUserService(repo *UserRepository, mailer Mailer, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, mailer: mailer, logger: logger}
}

func newUserService(repo UserStore, mailer Mailer, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, mailer: mailer, logger: logger}
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*User, string, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(req.Password) < 5 {
		return nil, "", ErrWeakPassword
	}
	role := req.Role
	if role == "" {
		role = RoleStudent
	}
	if role != RoleStudent && role != RoleEducator {
		return nil, "", ErrInvalidRole
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	user := &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
		PhotoURL: defaultPhotoURL,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role, 7*24*time.Hour)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("User signed up", zap.String("email", user.Email), zap.String("role", user.Role))
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, cred Credential) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, cred.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}
	if !CheckPasswordHash(cred.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := GenerateJWT(user.ID.Hex(), user.Role, 7*24*time.Hour)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GoogleAuth trades a client-obtained Google identity for a local session,
// provisioning the account on first sign-in.
func (s *UserService) GoogleAuth(ctx context.Context, req GoogleAuthRequest) (*User, string, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		role := req.Role
		if role != RoleEducator {
			role = RoleStudent
		}
		// no usable password for OAuth accounts; store a hash of a
		// random 128-bit token so password login cannot match
		hashed, err := HashPassword(GenerateToken())
		if err != nil {
			return nil, "", err
		}
		user = &User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hashed,
			Role:     role,
			PhotoURL: req.PhotoURL,
		}
		if user.PhotoURL == "" {
			user.PhotoURL = defaultPhotoURL
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, "", err
		}
		s.logger.Info("Provisioned user from Google sign-in", zap.String("email", user.Email))
	}
	token, err := GenerateJWT(user.ID.Hex(), user.Role, 7*24*time.Hour)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SendOtp issues a fresh 4-digit reset code valid for five minutes and
// forces isOtpVerified back to false.
func (s *UserService) SendOtp(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	otp := GenerateOTP()
	user.ResetOtp = otp
	user.OtpExpiry = time.Now().Add(otpValidity)
	user.IsOtpVerified = false
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetMail(user.Email, otp); err != nil {
		s.logger.Error("Failed to send OTP mail", zap.String("email", email), zap.Error(err))
		return err
	}
	return nil
}

// VerifyOtp moves the reset flow to the verified state. A wrong code is
// rejected as invalid regardless of timing; a matching code past its expiry
// is rejected as expired.
func (s *UserService) VerifyOtp(ctx context.Context, email, otp string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.ResetOtp == "" || user.ResetOtp != otp {
		return ErrOtpInvalid
	}
	if time.Now().After(user.OtpExpiry) {
		return ErrOtpExpired
	}

	user.ResetOtp = ""
	user.IsOtpVerified = true
	return s.repo.Update(ctx, user)
}

// ResetPassword closes the cycle: it requires a verified OTP, replaces the
// hash and clears the verified flag.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsOtpVerified {
		return ErrOtpNotVerified
	}
	if len(newPassword) < 5 {
		return ErrWeakPassword
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.IsOtpVerified = false
	user.OtpExpiry = time.Time{}
	return s.repo.Update(ctx, user)
}
