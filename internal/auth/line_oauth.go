package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultLineAuthURL    = "https://access.line.me/oauth2/v2.1/authorize"
	defaultLineTokenURL   = "https://api.line.me/oauth2/v2.1/token"
	defaultLineProfileURL = "https://api.line.me/v2/profile"
)

// LineOAuthConfig はLINE Loginプロバイダーの設定。
type LineOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthURL    string
	TokenURL   string
	ProfileURL string
}

// LineOAuthProvider はLINE Login（OAuth 2.0認可コードフロー）による認証を提供する。
type LineOAuthProvider struct {
	config     LineOAuthConfig
	httpClient *http.Client
}

// NewLineOAuthProvider はLineOAuthProviderを生成する。
// httpClientがnilの場合はhttp.DefaultClientを使用する。
func NewLineOAuthProvider(config LineOAuthConfig, httpClient *http.Client) *LineOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultLineAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultLineTokenURL
	}
	if config.ProfileURL == "" {
		config.ProfileURL = defaultLineProfileURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LineOAuthProvider{config: config, httpClient: httpClient}
}

// GetLoginURL はLINE Loginの認証URLを生成する。
// スコープにはprofile, openidを含む。
func (p *LineOAuthProvider) GetLoginURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"scope":         {"profile openid"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// lineTokenResponse はLINEのトークンエンドポイントのレスポンス。
type lineTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	IDToken     string `json:"id_token"`
}

// lineProfile はLINEのプロフィールエンドポイントのレスポンス。
type lineProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// ExchangeCode は認可コードをアクセストークンに交換し、プロフィールを取得する。
// リトライは行わない。不正なコードは呼び出し元でクライアントエラーとして報告される。
func (p *LineOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	// 1. 認可コードをアクセストークンに交換
	tokenResp, err := p.exchangeToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	// 2. アクセストークンでプロフィールを取得
	profile, err := p.fetchProfile(ctx, tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &OAuthUserInfo{
		LineID: profile.UserID,
		Name:   profile.DisplayName,
	}, nil
}

// exchangeToken は認可コードをアクセストークンに交換する。
func (p *LineOAuthProvider) exchangeToken(ctx context.Context, code string) (*lineTokenResponse, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {p.config.RedirectURL},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp lineTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in response")
	}

	return &tokenResp, nil
}

// fetchProfile はアクセストークンでLINEのプロフィールを取得する。
func (p *LineOAuthProvider) fetchProfile(ctx context.Context, accessToken string) (*lineProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var profile lineProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	if profile.UserID == "" || profile.DisplayName == "" {
		return nil, fmt.Errorf("incomplete profile response: userId or displayName missing")
	}

	return &profile, nil
}

// compile-time interface check
var _ OAuthProvider = (*LineOAuthProvider)(nil)
