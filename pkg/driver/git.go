package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitRefPrefix marks a program source stored in a git repository.
const GitRefPrefix = "git+"

// GitRef locates a program file at a revision of a repository:
// git+<url>@<rev>:<path>.
type GitRef struct {
	URL  string
	Rev  string
	Path string
}

func (r GitRef) String() string {
	return fmt.Sprintf("%s%s@%s:%s", GitRefPrefix, r.URL, r.Rev, r.Path)
}

// IsGitRef reports whether s names a git program source.
func IsGitRef(s string) bool {
	return strings.HasPrefix(s, GitRefPrefix)
}

// ParseGitRef splits a git+<url>@<rev>:<path> reference. The revision is
// taken after the last `@`, so URLs of the form user@host:repo still work.
func ParseGitRef(s string) (GitRef, error) {
	if !IsGitRef(s) {
		return GitRef{}, fmt.Errorf("driver: %q is not a git reference", s)
	}
	body := strings.TrimPrefix(s, GitRefPrefix)
	at := strings.LastIndex(body, "@")
	if at <= 0 {
		return GitRef{}, fmt.Errorf("driver: git reference %q: missing @<rev>", s)
	}
	url, rest := body[:at], body[at+1:]
	rev, path, ok := strings.Cut(rest, ":")
	if !ok {
		return GitRef{}, fmt.Errorf("driver: git reference %q: missing :<path>", s)
	}
	ref := GitRef{
		URL:  strings.TrimSpace(url),
		Rev:  strings.TrimSpace(rev),
		Path: strings.TrimPrefix(strings.TrimSpace(path), "/"),
	}
	switch {
	case ref.URL == "":
		return GitRef{}, fmt.Errorf("driver: git reference %q: empty url", s)
	case ref.Rev == "":
		return GitRef{}, fmt.Errorf("driver: git reference %q: empty revision", s)
	case ref.Path == "":
		return GitRef{}, fmt.Errorf("driver: git reference %q: empty path", s)
	}
	return ref, nil
}

// GitFetcher reads program files out of repositories cached under CacheDir.
type GitFetcher struct {
	CacheDir string
	Logger   *slog.Logger
}

func (g *GitFetcher) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// RepoDir is where the repository for url is cached.
func (g *GitFetcher) RepoDir(url string) string {
	return filepath.Join(g.CacheDir, "git", sanitizePathSegment(url))
}

// Fetch returns the contents of ref.Path at ref.Rev. The repository is cloned
// on first use and fetched again only when the revision is not yet known.
func (g *GitFetcher) Fetch(ctx context.Context, ref GitRef) ([]byte, error) {
	if g == nil || g.CacheDir == "" {
		return nil, errors.New("driver: git fetcher has no cache directory")
	}
	log := g.logger().With("url", ref.URL, "rev", ref.Rev)
	dir := g.RepoDir(ref.URL)

	repo, err := git.PlainOpen(dir)
	switch {
	case err == nil:
		log.Debug("git cache hit", "dir", dir)
	case errors.Is(err, git.ErrRepositoryNotExists):
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
		log.Debug("cloning", "dir", dir)
		repo, err = git.PlainCloneContext(ctx, dir, true, &git.CloneOptions{URL: ref.URL})
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("driver: git clone %s: %w", ref.URL, err)
		}
	default:
		return nil, fmt.Errorf("driver: open cache %s: %w", dir, err)
	}

	hash, err := resolveRevision(repo, ref.Rev)
	if err != nil {
		log.Debug("revision not cached, fetching")
		fetchErr := repo.FetchContext(ctx, &git.FetchOptions{
			RemoteName: git.DefaultRemoteName,
			RefSpecs:   []gitconfig.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
			Tags:       git.AllTags,
			Force:      true,
		})
		if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
			return nil, fmt.Errorf("driver: git fetch %s: %w", ref.URL, fetchErr)
		}
		hash, err = resolveRevision(repo, ref.Rev)
		if err != nil {
			return nil, fmt.Errorf("driver: resolve revision %s: %w", ref.Rev, err)
		}
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("driver: commit %s: %w", hash, err)
	}
	file, err := commit.File(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("driver: %s at %s: %w", ref.Path, ref.Rev, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", ref.Path, err)
	}
	log.Debug("git source loaded", "path", ref.Path, "commit", hash.String())
	return []byte(contents), nil
}

// resolveRevision accepts hashes, local names, remote branches and tags.
func resolveRevision(repo *git.Repository, rev string) (*plumbing.Hash, error) {
	candidates := []plumbing.Revision{
		plumbing.Revision(rev),
		plumbing.Revision("refs/remotes/origin/" + rev),
		plumbing.Revision("refs/tags/" + rev),
	}
	var firstErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(candidate)
		if err == nil {
			return hash, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
