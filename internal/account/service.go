package account

import (
	"context"
	"time"

	"biblio/internal/auth"
)

// Service handles registration and login.
type Service struct {
	repo     Repository
	secret   string
	tokenTTL time.Duration
}

func NewService(repo Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, secret: secret, tokenTTL: tokenTTL}
}

// Register creates an account. The role must come from the closed enum.
// Member accounts get a linked member profile created from the same name
// and email; profile and account are stored atomically, so a failed
// registration leaves nothing behind.
func (s *Service) Register(ctx context.Context, username, email, password string, role Role) (Account, error) {
	if !role.Valid() {
		return Account{}, ErrInvalidRole
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return Account{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Account{}, err
	}

	a := Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if role == RoleMember {
		err = s.repo.CreateWithProfile(ctx, &a, username, email)
	} else {
		err = s.repo.Create(ctx, &a)
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// Login verifies the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, Account, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil || !auth.VerifyPassword(a.PasswordHash, password) {
		return "", Account{}, auth.ErrUnauthorized
	}

	token, err := auth.GenerateToken(s.secret, a.ID, string(a.Role), s.tokenTTL)
	if err != nil {
		return "", Account{}, err
	}
	return token, a, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

// MemberIDForAccount resolves the member profile linked to an account. The
// loan endpoints use this to act on behalf of the signed-in member.
func (s *Service) MemberIDForAccount(ctx context.Context, accountID int64) (int64, error) {
	a, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if a.MemberID == nil {
		return 0, ErrNoMemberProfile
	}
	return *a.MemberID, nil
}
