package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleConfig holds Google OAuth configuration. The URL fields exist so
// tests can point the provider at a local server.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	HTTPClient *http.Client
}

// DefaultScopes returns the scopes needed for the email and name claims.
func DefaultScopes() []string {
	return []string{"openid", "email", "profile"}
}

// GoogleResolver implements Resolver against Google's OAuth2 endpoints.
type GoogleResolver struct {
	config     GoogleConfig
	httpClient *http.Client
}

func NewGoogleResolver(cfg GoogleConfig) *GoogleResolver {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes()
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = defaultUserInfoURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &GoogleResolver{
		config:     cfg,
		httpClient: client,
	}
}

// AuthCodeURL implements Resolver.
func (r *GoogleResolver) AuthCodeURL(state string) string {
	params := url.Values{
		"client_id":     {r.config.ClientID},
		"redirect_uri":  {r.config.CallbackURL},
		"response_type": {"code"},
		"scope":         {strings.Join(r.config.Scopes, " ")},
		"state":         {state},
		"prompt":        {"select_account consent"},
	}

	return r.config.AuthURL + "?" + params.Encode()
}

// Resolve implements Resolver: exchanges the code, then fetches userinfo.
func (r *GoogleResolver) Resolve(ctx context.Context, code string) (*Identity, error) {
	accessToken, err := r.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return r.fetchIdentity(ctx, accessToken)
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	IDToken     string `json:"id_token"`
}

func (r *GoogleResolver) exchange(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"client_id":     {r.config.ClientID},
		"client_secret": {r.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {r.config.CallbackURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var token googleTokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}

	return token.AccessToken, nil
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

func (r *GoogleResolver) fetchIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfileFetchFailed, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}

	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}

	return &Identity{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          name,
	}, nil
}
