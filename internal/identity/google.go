package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/imvicky69/wandermore/internal/models"
)

var ErrEmailNotVerified = errors.New("google account email is not verified")

// googleUserInfo is the userinfo endpoint response.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Google runs the OAuth auth-code flow and upserts a local user row the
// first time an account signs in.
type Google struct {
	config  *oauth2.Config
	db      *gorm.DB
	userURL string
}

func NewGoogle(db *gorm.DB) *Google {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}

	return &Google{
		config: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  siteURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		db:      db,
		userURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// NewStateToken returns a random token to bind an auth redirect to the
// session that started it.
func NewStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (g *Google) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SignIn exchanges the callback code, fetches the profile and upserts the
// local user row.
func (g *Google) SignIn(ctx context.Context, code string) (*models.User, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange auth code: %w", err)
	}

	info, err := g.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	if !info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}

	var user models.User
	err = g.db.WithContext(ctx).Where("google_id = ?", info.ID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			GoogleID:    info.ID,
			DisplayName: info.Name,
			Email:       info.Email,
			PhotoURL:    info.Picture,
		}
		if err := g.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	// Refresh the profile snapshot on every sign-in.
	user.DisplayName = info.Name
	user.Email = info.Email
	user.PhotoURL = info.Picture
	if err := g.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (g *Google) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *Google) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userURL+"?access_token="+accessToken, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse userinfo: %w", err)
	}
	return &info, nil
}

// FromUser converts the stored row back to the provider-shaped identity.
func FromUser(u *models.User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		UID:         u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Email:       u.Email,
	}
}
