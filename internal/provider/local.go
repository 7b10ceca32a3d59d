// Package provider has the metadata provider implementations.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

var (
	agencyRe = regexp.MustCompile(`(?m)^\s*agency\s*=\s*["']([^"']+)["']`)
	classRe  = regexp.MustCompile(`(?m)^class\s+\w+\s*\(([^)]*)\)`)
	urlRe    = regexp.MustCompile(`https?://[^\s"'\\),]+`)
)

// LocalProvider reads scraper metadata from a root directory of checked-out
// repository clones, using the local 'git' binary for activity timestamps.
type LocalProvider struct {
	cfg *contract.Config
}

var _ contract.MetadataProvider = &LocalProvider{} // Compile-time check

// NewLocalProvider creates a provider over cfg.RootPath.
func NewLocalProvider(cfg *contract.Config) *LocalProvider {
	return &LocalProvider{cfg: cfg}
}

// ListRepositories implements the MetadataProvider interface. Every
// non-hidden subdirectory of the root path counts as a repository.
func (p *LocalProvider) ListRepositories(_ context.Context) ([]schema.RepositoryRef, error) {
	entries, err := os.ReadDir(p.cfg.RootPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read root path %q: %w. Pass --root-path pointing at your repository clones", p.cfg.RootPath, err)
	}
	var refs []schema.RepositoryRef
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		refs = append(refs, schema.RepositoryRef{Name: entry.Name()})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// GetRepositoryInfo implements the MetadataProvider interface. Commit
// timestamps that cannot be determined come back zero, never as an error.
func (p *LocalProvider) GetRepositoryInfo(ctx context.Context, name string) (schema.RepositoryInfo, error) {
	repoPath := filepath.Join(p.cfg.RootPath, name)
	if _, err := os.Stat(repoPath); err != nil {
		return schema.RepositoryInfo{}, fmt.Errorf("repository %q not found under %q: %w", name, p.cfg.RootPath, err)
	}
	locator, err := filepath.Abs(repoPath)
	if err != nil {
		locator = repoPath
	}
	info := schema.RepositoryInfo{Name: name, CloneLocator: locator}
	info.LastCommitTime = p.commitTime(ctx, repoPath)
	info.LastAutomatedRunTime = p.commitTime(ctx, repoPath, `--author=\[bot\]`)
	return info, nil
}

// ListAgentFiles implements the MetadataProvider interface by matching the
// configured agent glob under the repository directory.
func (p *LocalProvider) ListAgentFiles(_ context.Context, repo string) ([]schema.AgentFile, error) {
	repoPath := filepath.Join(p.cfg.RootPath, repo)
	matches, err := filepath.Glob(filepath.Join(repoPath, p.cfg.AgentGlob))
	if err != nil {
		return nil, fmt.Errorf("bad agent glob %q: %w", p.cfg.AgentGlob, err)
	}
	var files []schema.AgentFile
	for _, match := range matches {
		base := filepath.Base(match)
		if strings.HasPrefix(base, "_") {
			continue // __init__.py and friends
		}
		fi, err := os.Stat(match)
		if err != nil || fi.IsDir() {
			continue
		}
		files = append(files, schema.AgentFile{
			Name: strings.TrimSuffix(base, filepath.Ext(base)),
			Path: match,
			Size: fi.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// GetAgentMetadata implements the MetadataProvider interface by statically
// inspecting the scraper source file.
func (p *LocalProvider) GetAgentMetadata(ctx context.Context, repo string, file schema.AgentFile) (schema.AgentMetadata, error) {
	src, err := os.ReadFile(file.Path)
	if err != nil {
		return schema.AgentMetadata{}, fmt.Errorf("cannot read agent file %q: %w", file.Path, err)
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
	meta.LastModified = p.fileModTime(ctx, repo, file.Path)
	return meta, nil
}

// CheckQuota implements the MetadataProvider interface. The local provider
// reads the filesystem directly and has no API quota.
func (p *LocalProvider) CheckQuota(_ context.Context) (schema.QuotaInfo, error) {
	return schema.QuotaInfo{}, errors.New("the local provider has no API quota. Use --provider github to check GitHub rate limits")
}

// commitTime returns the author date of the newest commit matching the
// extra log filters, or a zero time when there is none.
func (p *LocalProvider) commitTime(ctx context.Context, repoPath string, filters ...string) time.Time {
	args := append([]string{"log", "-n", "1", "--pretty=format:%ad", "--date=iso-strict"}, filters...)
	out, err := runGit(ctx, repoPath, args...)
	if err != nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(out)))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// fileModTime prefers the file's last commit date and falls back to the
// filesystem mtime for untracked or non-git trees.
func (p *LocalProvider) fileModTime(ctx context.Context, repo, path string) time.Time {
	repoPath := filepath.Join(p.cfg.RootPath, repo)
	if rel, err := filepath.Rel(repoPath, path); err == nil {
		if ts := p.commitTime(ctx, repoPath, "--", rel); !ts.IsZero() {
			return ts
		}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

// runGit executes a git command in repoPath and returns its stdout.
func runGit(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// extractAgencyName pulls the declared agency attribute from the source,
// falling back to a humanized form of the agent name.
func extractAgencyName(text, agentName string) string {
	if m := agencyRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	words := strings.Split(strings.ReplaceAll(agentName, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// extractBaseMarkers returns the base class names from every class
// definition, minus the generic roots that carry no coupling signal.
func extractBaseMarkers(text string) []string {
	var markers []string
	seen := make(map[string]bool)
	for _, m := range classRe.FindAllStringSubmatch(text, -1) {
		for _, base := range strings.Split(m[1], ",") {
			base = strings.TrimSpace(base)
			if base == "" || base == "object" || base == "Spider" || base == "scrapy.Spider" {
				continue
			}
			if !seen[base] {
				seen[base] = true
				markers = append(markers, base)
			}
		}
	}
	return markers
}

// extractStartURLs returns the deduplicated URLs found in the source.
func extractStartURLs(text string) []string {
	var urls []string
	seen := make(map[string]bool)
	for _, u := range urlRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;")
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
