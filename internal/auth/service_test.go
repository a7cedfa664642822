package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockUserStore struct {
	byEmail map[string]*User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{byEmail: make(map[string]*User)}
}

func (m *mockUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	return m.byEmail[email], nil
}

func (m *mockUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) Create(_ context.Context, user *User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return ErrUserExists
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserStore) Update(_ context.Context, user *User) error {
	if _, ok := m.byEmail[user.Email]; !ok {
		return ErrUserNotFound
	}
	m.byEmail[user.Email] = user
	return nil
}

type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendPasswordResetMail(to, otp string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, otp)
	return nil
}

func newTestService(store *mockUserStore, mailer *mockMailer) *UserService {
	return newUserService(store, mailer, zap.NewNop())
}

func TestSignup(t *testing.T) {
	store := newMockUserStore()
	svc := newTestService(store, &mockMailer{})

	user, token, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, RoleStudent, user.Role)
	require.NotEqual(t, "secret123", user.Password)
	require.NotEmpty(t, user.PhotoURL)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newMockUserStore(), &mockMailer{})

	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "not-an-email", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = svc.Signup(context.Background(), SignupRequest{Email: "a@b.com", Password: "1234"})
	require.ErrorIs(t, err, ErrWeakPassword)

	_, _, err = svc.Signup(context.Background(), SignupRequest{Email: "a@b.com", Password: "secret123", Role: "admin"})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(newMockUserStore(), &mockMailer{})
	req := SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"}

	_, _, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)
	_, _, err = svc.Signup(context.Background(), req)
	require.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	store := newMockUserStore()
	svc := newTestService(store, &mockMailer{})
	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, token, err := svc.Login(context.Background(), Credential{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), Credential{Email: "asha@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), Credential{Email: "nobody@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGoogleAuthProvisionsOnce(t *testing.T) {
	store := newMockUserStore()
	svc := newTestService(store, &mockMailer{})

	first, _, err := svc.GoogleAuth(context.Background(), GoogleAuthRequest{Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)
	require.Equal(t, RoleStudent, first.Role)

	second, _, err := svc.GoogleAuth(context.Background(), GoogleAuthRequest{Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// OAuth accounts get an unguessable local password
	_, _, err = svc.Login(context.Background(), Credential{Email: "asha@example.com", Password: ""})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOtpFlow(t *testing.T) {
	store := newMockUserStore()
	mailer := &mockMailer{}
	svc := newTestService(store, mailer)
	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.SendOtp(context.Background(), "asha@example.com"))
	require.Len(t, mailer.sent, 1)
	otp := mailer.sent[0]
	require.Len(t, otp, 4)

	// wrong code is invalid even though an OTP is pending
	require.ErrorIs(t, svc.VerifyOtp(context.Background(), "asha@example.com", "no"), ErrOtpInvalid)

	require.NoError(t, svc.VerifyOtp(context.Background(), "asha@example.com", otp))
	user := store.byEmail["asha@example.com"]
	require.True(t, user.IsOtpVerified)
	require.Empty(t, user.ResetOtp)

	// a consumed code cannot be replayed
	require.ErrorIs(t, svc.VerifyOtp(context.Background(), "asha@example.com", otp), ErrOtpInvalid)
}

func TestVerifyOtpExpired(t *testing.T) {
	store := newMockUserStore()
	mailer := &mockMailer{}
	svc := newTestService(store, mailer)
	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, svc.SendOtp(context.Background(), "asha@example.com"))

	user := store.byEmail["asha@example.com"]
	user.OtpExpiry = time.Now().Add(-time.Minute)

	require.ErrorIs(t, svc.VerifyOtp(context.Background(), "asha@example.com", mailer.sent[0]), ErrOtpExpired)
}

func TestResetPasswordRequiresVerifiedOtp(t *testing.T) {
	store := newMockUserStore()
	mailer := &mockMailer{}
	svc := newTestService(store, mailer)
	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.ResetPassword(context.Background(), "asha@example.com", "newpassword"), ErrOtpNotVerified)

	require.NoError(t, svc.SendOtp(context.Background(), "asha@example.com"))
	require.NoError(t, svc.VerifyOtp(context.Background(), "asha@example.com", mailer.sent[0]))
	require.NoError(t, svc.ResetPassword(context.Background(), "asha@example.com", "newpassword"))

	_, _, err = svc.Login(context.Background(), Credential{Email: "asha@example.com", Password: "newpassword"})
	require.NoError(t, err)

	// the verified flag is single-use
	require.ErrorIs(t, svc.ResetPassword(context.Background(), "asha@example.com", "another"), ErrOtpNotVerified)
}

func TestGenerateToken(t *testing.T) {
	first := GenerateToken()
	require.Len(t, first, 32)
	for _, r := range first {
		require.Contains(t, "0123456789abcdef", string(r))
	}
	require.NotEqual(t, first, GenerateToken())
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", RoleEducator, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, RoleEducator, claims.Role)

	_, err = ValidateJWT(token + "tampered")
	require.Error(t, err)
}

func TestSendOtpMailFailure(t *testing.T) {
	store := newMockUserStore()
	mailer := &mockMailer{err: errors.New("smtp down")}
	svc := newTestService(store, mailer)
	_, _, err := svc.Signup(context.Background(), SignupRequest{Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.Error(t, svc.SendOtp(context.Background(), "asha@example.com"))
}
