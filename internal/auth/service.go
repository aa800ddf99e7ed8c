package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/hireloop/internal/database/models"
	"github.com/hireloop/hireloop/internal/mailer"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnverifiedUser     = errors.New("email not verified")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenExpired       = errors.New("token expired")
)

type Service struct {
	db     *gorm.DB
	jwt    *JWTService
	mail   mailer.Mailer
	logger *slog.Logger
}

func NewService(db *gorm.DB, jwt *JWTService, mail mailer.Mailer, logger *slog.Logger) *Service {
	return &Service{db: db, jwt: jwt, mail: mail, logger: logger}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     models.UserRole
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	verifyToken, err := RandomToken(24)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:             input.Email,
		PasswordHash:      hash,
		Name:              input.Name,
		Role:              input.Role,
		IsVerified:        false,
		VerificationToken: verifyToken,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	// Verification mail is best-effort; the token can be re-requested.
	subject, body := mailer.VerificationEmail(user.Name, verifyToken)
	if err := s.mail.SendEmail(user.Email, subject, body); err != nil {
		s.logger.Warn("failed to send verification email", "email", user.Email, "error", err)
	}

	return &user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrUnverifiedUser
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

// VerifyEmail consumes a verification token. It flips IsVerified exactly
// once; the token is cleared so a replay misses.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("verification_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	return &user, nil
}

// ForgotPassword issues a reset token valid for one hour. An unknown email
// is not reported back to the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := RandomToken(24)
	if err != nil {
		return err
	}

	expires := time.Now().Add(time.Hour)
	updates := map[string]interface{}{
		"reset_password_token":   resetToken,
		"reset_password_expires": expires,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	subject, body := mailer.PasswordResetEmail(user.Name, resetToken)
	if err := s.mail.SendEmail(user.Email, subject, body); err != nil {
		s.logger.Warn("failed to send reset email", "email", user.Email, "error", err)
	}

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrTokenNotFound
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("reset_password_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	if user.ResetPasswordExpires == nil || user.ResetPasswordExpires.Before(time.Now()) {
		return ErrTokenExpired
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"password_hash":          hash,
		"reset_password_token":   "",
		"reset_password_expires": nil,
	}
	return s.db.WithContext(ctx).Model(&user).Updates(updates).Error
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListCandidates returns all candidate accounts, newest first.
func (s *Service) ListCandidates(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleCandidate).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}
