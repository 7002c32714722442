package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// ErrAuthenticationRequired indicates that no valid Google credential is
// stored yet. Surfaced to the user as an instruction to connect, never as a
// crash.
var ErrAuthenticationRequired = errors.New("google authentication required")

// clientID and clientSecret are set at startup via SetOAuthCredentials,
// falling back to environment variables.
var (
	clientID     = os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
)

// SetOAuthCredentials configures the OAuth client used for all Google
// services. Called once from the serve command before any client is built.
func SetOAuthCredentials(id, secret string) {
	if id != "" {
		clientID = id
	}
	if secret != "" {
		clientSecret = secret
	}
}

// GetOAuthConfig returns the OAuth2 configuration for all Google services.
func GetOAuthConfig() *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  oob,
		Scopes:       DefaultOAuthScopes,
	}
}

// GetAuthURL returns the OAuth URL for user authorization.
func GetAuthURL() string {
	return GetOAuthConfig().AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// tokenFileForAccount returns the path of the cached token for an account.
func tokenFileForAccount(account string) string {
	if account == "" {
		account = "default"
	}
	return filepath.Join(userCacheDir(), "deskmate", fmt.Sprintf("google-%s.token", account))
}

// HasTokenForAccount checks if a cached OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	_, err := os.Stat(tokenFileForAccount(account))
	return err == nil
}

// HasToken checks if a cached OAuth token exists for the default account.
func HasToken() bool {
	return HasTokenForAccount("default")
}

// SaveToken exchanges an authorization code for tokens and caches them for
// the given account.
func SaveToken(ctx context.Context, account, authCode string) error {
	conf := GetOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	tokenFile := tokenFileForAccount(account)
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(tokenFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// GetTokenSourceForAccount returns an auto-refreshing token source backed by
// the cached token for the account. Returns ErrAuthenticationRequired when
// no token is cached.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	slurp, err := os.ReadFile(tokenFileForAccount(account))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, ErrAuthenticationRequired)
	}

	var token oauth2.Token
	if err := json.Unmarshal(slurp, &token); err != nil {
		return nil, fmt.Errorf("invalid token file for account %s: %w", account, err)
	}

	return GetOAuthConfig().TokenSource(ctx, &token), nil
}

// HTTPClientForToken returns an OAuth2-authenticated HTTP client for the
// token. The client is pinned to HTTP/1.1 to avoid HTTP/2 protocol errors
// with some Google endpoints.
func HTTPClientForToken(ctx context.Context, token *oauth2.Token) *http.Client {
	client := oauth2.NewClient(ctx, GetOAuthConfig().TokenSource(ctx, token))

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
