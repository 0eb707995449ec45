package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/validation"

	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService handles account registration, login, and credential changes
// for parents and teens
type AuthService struct {
	parents     *repository.ParentRepository
	teens       *repository.TeenRepository
	tokens      *security.JWTManager
	googleOAuth *oauth2.Config
}

// NewAuthService creates a new auth service. googleOAuth may be nil when
// external auth is not configured.
func NewAuthService(parents *repository.ParentRepository, teens *repository.TeenRepository, tokens *security.JWTManager, googleOAuth *oauth2.Config) *AuthService {
	return &AuthService{
		parents:     parents,
		teens:       teens,
		tokens:      tokens,
		googleOAuth: googleOAuth,
	}
}

// LoginResult carries the signed token plus the authenticated account
type LoginResult struct {
	Token  string         `json:"token"`
	Parent *models.Parent `json:"parent,omitempty"`
	Teen   *models.Teen   `json:"teen,omitempty"`
}

// RegisterParent creates a password-authenticated parent account
func (s *AuthService) RegisterParent(name, email, password, familyName string) (*LoginResult, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, Validation(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, Validation(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, Validation(err.Error())
	}

	existing, err := s.parents.GetParentByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflict("an account with this email already exists")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	parent, err := s.parents.CreateParent(&models.Parent{
		Name:         name,
		Email:        email,
		FamilyName:   familyName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(security.ActorParent, parent.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Parent: parent}, nil
}

// LoginParent authenticates a parent with email and password
func (s *AuthService) LoginParent(email, password string) (*LoginResult, error) {
	parent, err := s.parents.GetParentByEmail(email)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.UsesExternalAuth() || !security.CheckPassword(parent.PasswordHash, password) {
		return nil, Forbidden("invalid email or password")
	}

	token, err := s.tokens.Issue(security.ActorParent, parent.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Parent: parent}, nil
}

// LoginTeen authenticates a dependent account with email and password
func (s *AuthService) LoginTeen(email, password string) (*LoginResult, error) {
	teen, err := s.teens.GetTeenByEmail(email)
	if err != nil {
		return nil, err
	}
	if teen == nil || !security.CheckPassword(teen.PasswordHash, password) {
		return nil, Forbidden("invalid email or password")
	}

	token, err := s.tokens.Issue(security.ActorTeen, teen.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Teen: teen}, nil
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginWithGoogle exchanges an OAuth authorization code, then logs in the
// matching parent or creates one on first login. Externally-authenticated
// accounts carry no local password.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*LoginResult, error) {
	if s.googleOAuth == nil || s.googleOAuth.ClientID == "" {
		return nil, Validation("Google login is not configured")
	}

	oauthToken, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, Forbidden("invalid authorization code")
	}

	info, err := s.fetchGoogleUserInfo(ctx, oauthToken)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, Forbidden("Google account has no email")
	}

	parent, err := s.parents.GetParentByGoogleID(info.ID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		// Match an existing password account by email before creating
		parent, err = s.parents.GetParentByEmail(info.Email)
		if err != nil {
			return nil, err
		}
	}
	if parent == nil {
		parent, err = s.parents.CreateParent(&models.Parent{
			Name:     info.Name,
			Email:    info.Email,
			GoogleID: info.ID,
		})
		if err != nil {
			return nil, err
		}
	}

	token, err := s.tokens.Issue(security.ActorParent, parent.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Parent: parent}, nil
}

func (s *AuthService) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.googleOAuth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// ChangeParentPassword verifies the current password and sets a new one.
// Externally-authenticated accounts have no password to change.
func (s *AuthService) ChangeParentPassword(parentID, current, newPassword string) error {
	parent, err := s.parents.GetParentByID(parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return NotFound("parent not found")
	}
	if parent.UsesExternalAuth() {
		return InvalidState("account uses Google sign-in")
	}
	if !security.CheckPassword(parent.PasswordHash, current) {
		return Forbidden("current password is incorrect")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return Validation(err.Error())
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.parents.UpdatePassword(parentID, hash)
}

// ChangeTeenPassword verifies the current password and sets a new one
func (s *AuthService) ChangeTeenPassword(teenID, current, newPassword string) error {
	teen, err := s.teens.GetTeenByID(teenID)
	if err != nil {
		return err
	}
	if teen == nil {
		return NotFound("teen not found")
	}
	if !security.CheckPassword(teen.PasswordHash, current) {
		return Forbidden("current password is incorrect")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return Validation(err.Error())
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.teens.UpdatePassword(teenID, hash)
}
