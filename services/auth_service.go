package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/utils"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

// RegisterRequest signs a student up. The student's email doubles as the
// login name.
type RegisterRequest struct {
	models.StudentDraft
	Password string `json:"password"`
}

type AuthResult struct {
	UserID       uuid.UUID   `json:"userId"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	StudentID    *int        `json:"studentId,omitempty"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"-"`
}

type AuthService struct {
	store    store.Store
	students *StudentService
	tokens   utils.TokenConfig
}

func NewAuthService(s store.Store, students *StudentService, tokens utils.TokenConfig) *AuthService {
	return &AuthService{store: s, students: students, tokens: tokens}
}

// Register creates the student and its login in one transaction.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var errs *multierror.Error
	if len(req.Password) < minPasswordLength {
		errs = multierror.Append(errs, errors.New("password must be at least 6 characters"))
	}
	if err := invalidFields("Invalid registration data.", errs); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fail("failed to hash password", err)
	}

	var user models.User
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		email := strings.TrimSpace(req.Email)
		if _, err := tx.UserByEmail(ctx, email); err == nil {
			return duplicateEmail()
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		student, err := s.students.insert(ctx, tx, req.StudentDraft)
		if err != nil {
			return err
		}

		user = models.User{
			Email:     student.Email,
			Password:  hashedPassword,
			Role:      models.RoleStudent,
			StudentID: &student.ID,
		}
		if err := tx.InsertUser(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return duplicateEmail()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fail("failed to register user", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"student_id": *user.StudentID,
	}).Info("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fail("server error", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, invalidCredentials()
	}

	logrus.WithField("user_id", user.ID).Info("user logged in")
	return s.issue(*user)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*AuthResult, error) {
	claims, err := utils.ParseToken(s.tokens.SecretKey, refreshToken, utils.RefreshToken)
	if err != nil {
		return nil, models.NewError(models.KindForbidden, models.ReasonCredentials,
			"Invalid or expired refresh token", "")
	}

	access, refresh, err := utils.GenerateTokens(s.tokens, claims.UserID, claims.Roles, claims.StudentID)
	if err != nil {
		return nil, fail("Failed to generate token", err)
	}
	result := &AuthResult{
		UserID:       claims.UserID,
		StudentID:    claims.StudentID,
		AccessToken:  access,
		RefreshToken: refresh,
	}
	if len(claims.Roles) > 0 {
		result.Role = models.ParseRole(claims.Roles[0])
	}
	return result, nil
}

func (s *AuthService) issue(user models.User) (*AuthResult, error) {
	access, refresh, err := utils.GenerateTokens(s.tokens, user.ID, []string{string(user.Role)}, user.StudentID)
	if err != nil {
		return nil, fail("failed to generate tokens", err)
	}
	return &AuthResult{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		StudentID:    user.StudentID,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func duplicateEmail() error {
	return models.NewError(models.KindConflict, models.ReasonDuplicateEmail,
		"user already exists", "An account with this email already exists.")
}

func invalidCredentials() error {
	return models.NewError(models.KindForbidden, models.ReasonCredentials, "invalid credentials", "")
}
