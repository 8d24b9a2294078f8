package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Latest fetches the latest (non-prerelease) release for owner/repo.
func (r *Resolver) Latest(ctx context.Context, ownerRepo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", r.apiBase, ownerRepo)
	return r.fetchRelease(ctx, url)
}

// ByTag fetches a release by tag for owner/repo. A missing "v" prefix is
// tolerated.
func (r *Resolver) ByTag(ctx context.Context, ownerRepo, tag string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", r.apiBase, ownerRepo, tag)
	rel, err := r.fetchRelease(ctx, url)
	if err != nil && !strings.HasPrefix(tag, "v") {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/v%s", r.apiBase, ownerRepo, tag)
		return r.fetchRelease(ctx, url)
	}
	return rel, err
}

func (r *Resolver) fetchRelease(ctx context.Context, url string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "atelier")

	// Optional GitHub token for higher rate limits.
	if r.token != "" {
		req.Header.Set("Authorization", "token "+r.token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("release not found at %s", url)
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set github_token in config for higher limits")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}

	return &release, nil
}
