// Package stats fetches public GitHub statistics and exposes them as cached
// read-only JSON endpoints. Each endpoint performs exactly one upstream
// fetch per request: no retries, no circuit breaking; an upstream failure
// propagates to the server's error handler.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// perPage is the GitHub maximum page size for repository listings.
const perPage = 100

// Client is a thin GitHub REST API client.
type Client struct {
	httpClient *http.Client
	apiURL     string
	user       string
	token      string
}

// NewClient creates a GitHub client for the given username. The token is
// optional; without it requests count against the unauthenticated rate limit.
func NewClient(user, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     defaultAPIURL,
		user:       user,
		token:      token,
	}
}

// WithAPIURL overrides the API base URL. Used by tests to point the client at
// a stub server.
func (c *Client) WithAPIURL(url string) *Client {
	c.apiURL = url
	return c
}

// User is the narrow user-summary DTO returned by the user endpoint.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatarUrl"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"publicRepos"`
	HTMLURL     string `json:"htmlUrl"`
}

// Stars aggregates stargazer counts across all non-fork repositories.
type Stars struct {
	TotalStars int `json:"totalStars"`
	RepoCount  int `json:"repoCount"`
}

// Language is one entry of the language-usage breakdown.
type Language struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// githubUser mirrors the fields of the GitHub user response we care about.
type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
	HTMLURL     string `json:"html_url"`
}

// githubRepo mirrors the fields of the GitHub repository response we care about.
type githubRepo struct {
	Name            string `json:"name"`
	Fork            bool   `json:"fork"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
}

// FetchUser returns the user summary.
func (c *Client) FetchUser(ctx context.Context) (User, error) {
	var gu githubUser
	if err := c.get(ctx, fmt.Sprintf("/users/%s", c.user), &gu); err != nil {
		return User{}, err
	}
	return User{
		Login:       gu.Login,
		Name:        gu.Name,
		AvatarURL:   gu.AvatarURL,
		Bio:         gu.Bio,
		Followers:   gu.Followers,
		PublicRepos: gu.PublicRepos,
		HTMLURL:     gu.HTMLURL,
	}, nil
}

// FetchStars returns the total stargazer count across the user's non-fork
// repositories.
func (c *Client) FetchStars(ctx context.Context) (Stars, error) {
	repos, err := c.fetchRepos(ctx)
	if err != nil {
		return Stars{}, err
	}
	var stars Stars
	for _, r := range repos {
		if r.Fork {
			continue
		}
		stars.TotalStars += r.StargazersCount
		stars.RepoCount++
	}
	return stars, nil
}

// FetchLanguages returns the percentage breakdown of primary languages across
// the user's non-fork repositories, sorted by percentage descending.
func (c *Client) FetchLanguages(ctx context.Context) ([]Language, error) {
	repos, err := c.fetchRepos(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	total := 0
	for _, r := range repos {
		if r.Fork || r.Language == "" {
			continue
		}
		counts[r.Language]++
		total++
	}
	if total == 0 {
		return []Language{}, nil
	}
	languages := make([]Language, 0, len(counts))
	for name, count := range counts {
		percent := float64(count) / float64(total) * 100
		languages = append(languages, Language{
			Name:    name,
			Percent: math.Round(percent*10) / 10,
		})
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Percent != languages[j].Percent {
			return languages[i].Percent > languages[j].Percent
		}
		return languages[i].Name < languages[j].Name
	})
	return languages, nil
}

// fetchRepos lists all repositories for the user, following pagination.
func (c *Client) fetchRepos(ctx context.Context) ([]githubRepo, error) {
	var all []githubRepo
	for page := 1; ; page++ {
		path := fmt.Sprintf("/users/%s/repos?per_page=%d&page=%d", c.user, perPage, page)
		var repos []githubRepo
		if err := c.get(ctx, path, &repos); err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if len(repos) < perPage {
			return all, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api: GET %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github api: decode %s: %w", path, err)
	}
	return nil
}
