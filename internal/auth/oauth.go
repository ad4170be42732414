package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubUserURL = "https://api.github.com/user"

// Profile is the resolved external identity: the GitHub account id (stable,
// numeric) and the login as display name.
type Profile struct {
	ExternalID string
	Name       string
}

// GithubProvider drives the OAuth code flow against GitHub and resolves the
// authenticated profile. It performs no persistence.
type GithubProvider struct {
	cfg *oauth2.Config
}

func NewGithubProvider(clientID, clientSecret, redirectURL string) *GithubProvider {
	return &GithubProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the GitHub consent page URL bound to the given state.
func (p *GithubProvider) AuthURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// ResolveProfile exchanges the callback code and fetches the account profile.
func (p *GithubProvider) ResolveProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	client := p.cfg.Client(ctx, token)
	resp, err := client.Get(githubUserURL)
	if err != nil {
		return nil, fmt.Errorf("fetch github profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github profile request failed: status %d", resp.StatusCode)
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode github profile: %w", err)
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("github profile has no id")
	}

	return &Profile{
		ExternalID: strconv.FormatInt(payload.ID, 10),
		Name:       payload.Login,
	}, nil
}
