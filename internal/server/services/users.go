package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/filex"
	"github.com/dmitrijs2005/filereview/internal/server/auth"
	"github.com/dmitrijs2005/filereview/internal/server/config"
	"github.com/dmitrijs2005/filereview/internal/server/credentials"
	"github.com/dmitrijs2005/filereview/internal/server/models"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/repomanager"
)

// SignUpRequest is the sign-up form.
type SignUpRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	verifier                    credentials.Verifier
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, v credentials.Verifier, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		verifier:                    v,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Exists reports whether username is taken, or, when email is not empty,
// whether username or email is taken.
func (s *UserService) Exists(ctx context.Context, username, email string) (bool, error) {
	ok, err := s.repomanager.Users(s.db).Exists(ctx, username, email)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return ok, nil
}

// Create stores a new user. The unique indexes decide; a clash returns
// common.ErrConstraintViolation.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	stored, err := s.verifier.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		UserName: username,
		Email:    email,
		Password: stored,
	})
	if err != nil {
		if errors.Is(err, common.ErrConstraintViolation) {
			return nil, common.ErrConstraintViolation
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// SignUp validates the form and creates the account. It does not log in.
func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	taken, err := s.Exists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrConstraintViolation
	}

	return s.Create(ctx, req.Username, req.Email, req.Password)
}

func validateSignUp(req SignUpRequest) error {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}
	if req.Password != req.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	// usernames become directory names and must not look like an email
	if strings.Contains(req.Username, "@") || !filex.IsSafeName(req.Username) {
		return fmt.Errorf("%w: username must not contain '@' or path separators", common.ErrorValidation)
	}
	if !strings.Contains(req.Email, "@") {
		return fmt.Errorf("%w: email must contain '@'", common.ErrorValidation)
	}
	return nil
}

// Authenticate looks the user up by email when identifier contains "@",
// by username otherwise, and checks the password.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = repo.GetUserByEmail(ctx, identifier)
	} else {
		user, err = repo.GetUserByLogin(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.verifier.Verify(user.Password, password) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// IDFor resolves a username to its user id.
func (s *UserService) IDFor(ctx context.Context, username string) (int64, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return user.ID, nil
}

// Login authenticates and issues an API access token.
func (s *UserService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// ParseAccessToken returns the claims of a token issued by Login.
func (s *UserService) ParseAccessToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}
