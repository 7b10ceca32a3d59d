package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// GitHubAPIEndpoint is the GitHub REST API base URL.
const GitHubAPIEndpoint = "https://api.github.com"

const reposPerPage = 100

// GitHubProvider reads scraper metadata from the GitHub REST API for a
// single organization. Requests are paced by a client-side rate limiter so
// a fleet scan does not burn through the API quota in one burst.
type GitHubProvider struct {
	cfg     *contract.Config
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ contract.MetadataProvider = &GitHubProvider{} // Compile-time check

// NewGitHubProvider creates a provider for cfg.GitHubOrg.
func NewGitHubProvider(cfg *contract.Config) (*GitHubProvider, error) {
	if cfg.GitHubOrg == "" {
		return nil, errors.New("the github provider needs an organization. Pass --github-org or set github-org in the config file")
	}
	return &GitHubProvider{
		cfg:     cfg,
		baseURL: GitHubAPIEndpoint,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}, nil
}

type ghRepo struct {
	Name     string    `json:"name"`
	CloneURL string    `json:"clone_url"`
	PushedAt time.Time `json:"pushed_at"`
}

type ghWorkflowRuns struct {
	WorkflowRuns []struct {
		UpdatedAt time.Time `json:"updated_at"`
	} `json:"workflow_runs"`
}

type ghTree struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	} `json:"tree"`
}

type ghCommitList []struct {
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type ghRateLimit struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

// ListRepositories implements the MetadataProvider interface by paging
// through the organization's repository list.
func (p *GitHubProvider) ListRepositories(ctx context.Context) ([]schema.RepositoryRef, error) {
	var refs []schema.RepositoryRef
	for page := 1; ; page++ {
		var repos []ghRepo
		endpoint := fmt.Sprintf("/orgs/%s/repos?per_page=%d&page=%d", p.cfg.GitHubOrg, reposPerPage, page)
		if err := p.getJSON(ctx, endpoint, &repos); err != nil {
			return nil, err
		}
		for _, r := range repos {
			refs = append(refs, schema.RepositoryRef{Name: r.Name})
		}
		if len(repos) < reposPerPage {
			return refs, nil
		}
	}
}

// GetRepositoryInfo implements the MetadataProvider interface. The last
// automated run comes from the newest completed Actions workflow run and is
// zero when the repository has none.
func (p *GitHubProvider) GetRepositoryInfo(ctx context.Context, name string) (schema.RepositoryInfo, error) {
	var repo ghRepo
	if err := p.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", p.cfg.GitHubOrg, name), &repo); err != nil {
		return schema.RepositoryInfo{}, err
	}
	info := schema.RepositoryInfo{
		Name:           name,
		LastCommitTime: repo.PushedAt,
		CloneLocator:   repo.CloneURL,
	}
	var runs ghWorkflowRuns
	endpoint := fmt.Sprintf("/repos/%s/%s/actions/runs?per_page=1&status=completed", p.cfg.GitHubOrg, name)
	if err := p.getJSON(ctx, endpoint, &runs); err == nil && len(runs.WorkflowRuns) > 0 {
		info.LastAutomatedRunTime = runs.WorkflowRuns[0].UpdatedAt
	}
	return info, nil
}

// ListAgentFiles implements the MetadataProvider interface by walking the
// repository tree at HEAD and matching paths against the agent glob.
func (p *GitHubProvider) ListAgentFiles(ctx context.Context, repo string) ([]schema.AgentFile, error) {
	var tree ghTree
	endpoint := fmt.Sprintf("/repos/%s/%s/git/trees/HEAD?recursive=1", p.cfg.GitHubOrg, repo)
	if err := p.getJSON(ctx, endpoint, &tree); err != nil {
		return nil, err
	}
	var files []schema.AgentFile
	for _, entry := range tree.Tree {
		if entry.Type != "blob" {
			continue
		}
		ok, err := path.Match(p.cfg.AgentGlob, entry.Path)
		if err != nil {
			return nil, fmt.Errorf("bad agent glob %q: %w", p.cfg.AgentGlob, err)
		}
		if !ok || strings.HasPrefix(path.Base(entry.Path), "_") {
			continue
		}
		base := path.Base(entry.Path)
		files = append(files, schema.AgentFile{
			Name: strings.TrimSuffix(base, path.Ext(base)),
			Path: entry.Path,
			Size: entry.Size,
		})
	}
	return files, nil
}

// GetAgentMetadata implements the MetadataProvider interface by fetching the
// raw file contents and inspecting them the same way the local provider does.
func (p *GitHubProvider) GetAgentMetadata(ctx context.Context, repo string, file schema.AgentFile) (schema.AgentMetadata, error) {
	src, err := p.getRaw(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", p.cfg.GitHubOrg, repo, file.Path))
	if err != nil {
		return schema.AgentMetadata{}, err
	}
	text := string(src)
	meta := schema.AgentMetadata{
		AgentName:         file.Name,
		AgencyName:        extractAgencyName(text, file.Name),
		FilePath:          file.Path,
		LineCount:         countLines(text),
		SharedBaseMarkers: extractBaseMarkers(text),
		StartURLs:         extractStartURLs(text),
	}
	var commits ghCommitList
	endpoint := fmt.Sprintf("/repos/%s/%s/commits?per_page=1&path=%s", p.cfg.GitHubOrg, repo, url.QueryEscape(file.Path))
	if err := p.getJSON(ctx, endpoint, &commits); err == nil && len(commits) > 0 {
		meta.LastModified = commits[0].Commit.Author.Date
	}
	return meta, nil
}

// CheckQuota implements the MetadataProvider interface.
func (p *GitHubProvider) CheckQuota(ctx context.Context) (schema.QuotaInfo, error) {
	var limits ghRateLimit
	if err := p.getJSON(ctx, "/rate_limit", &limits); err != nil {
		return schema.QuotaInfo{}, err
	}
	core := limits.Resources.Core
	return schema.QuotaInfo{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		ResetTime: time.Unix(core.Reset, 0),
	}, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := p.get(ctx, endpoint, "application/vnd.github+json")
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode GitHub response for %s: %w", endpoint, err)
	}
	return nil
}

func (p *GitHubProvider) getRaw(ctx context.Context, endpoint string) ([]byte, error) {
	body, err := p.get(ctx, endpoint, "application/vnd.github.raw+json")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (p *GitHubProvider) get(ctx context.Context, endpoint, accept string) (io.ReadCloser, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if p.cfg.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.GitHubToken)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-Ratelimit-Remaining") == "0" {
		resp.Body.Close()
		return nil, errors.New("GitHub API quota exhausted. Wait for the reset or pass --github-token for a higher limit")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("GitHub API error for %s (status %d): %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}
