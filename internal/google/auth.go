package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
)

// scopes covers event creation plus sending mail and reading the sender's
// own profile address.
var scopes = []string{
	calendar.CalendarEventsScope,
	gmail.GmailSendScope,
	gmail.GmailReadonlyScope,
}

// NewHTTPClient returns an authenticated HTTP client backed by the cached
// token file. Tokens refreshed during a run are written back to the file so
// later runs reuse them.
func NewHTTPClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, credentialsFile, tokenFile string) (*http.Client, error) {
	config, err := getOAuthConfig(clientID, clientSecret, credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token from %s: %w. Please run the 'auth' command first", tokenFile, err)
	}

	src := &persistingTokenSource{
		src:    oauth2.ReuseTokenSource(token, config.TokenSource(ctx, token)),
		path:   tokenFile,
		last:   token,
		logger: logger,
	}
	return oauth2.NewClient(ctx, src), nil
}

// persistingTokenSource saves the token back to disk whenever the wrapped
// source hands out a refreshed one.
type persistingTokenSource struct {
	src    oauth2.TokenSource
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		if err := SaveToken(s.path, token); err != nil {
			s.logger.Warn("Failed to persist refreshed token", "file", s.path, "error", err)
		} else {
			s.logger.Debug("Persisted refreshed token", "file", s.path)
		}
		s.last = token
	}
	return token, nil
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret, credentialsFile string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret, credentialsFile)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment variables over a local credentials.json file.
func getOAuthConfig(clientID, clientSecret, credentialsFile string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("%s not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place %s in the root directory", credentialsFile, credentialsFile)
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
