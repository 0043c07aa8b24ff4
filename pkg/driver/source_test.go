package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const fixtureURL = "https://example.invalid/programs.git"

// seedGitCache commits files into the cache slot for fixtureURL so Fetch
// never needs the network.
func seedGitCache(t *testing.T, fetcher *GitFetcher, files map[string]string) plumbing.Hash {
	t.Helper()
	dir := fetcher.RepoDir(fixtureURL)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init fixture repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	hash, err := wt.Commit("add programs", &git.CommitOptions{
		Author: &object.Signature{Name: "Fixture", Email: "fixture@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

func TestParseGitRef(t *testing.T) {
	cases := []struct {
		in   string
		want GitRef
	}{
		{"git+https://example.com/r.git@main:prog.mav", GitRef{URL: "https://example.com/r.git", Rev: "main", Path: "prog.mav"}},
		{"git+git@github.com:me/r.git@v1.2:dir/p.mav", GitRef{URL: "git@github.com:me/r.git", Rev: "v1.2", Path: "dir/p.mav"}},
		{"git+/srv/repo@abc123:/x.mav", GitRef{URL: "/srv/repo", Rev: "abc123", Path: "x.mav"}},
	}
	for _, tc := range cases {
		got, err := ParseGitRef(tc.in)
		if err != nil {
			t.Fatalf("ParseGitRef(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseGitRef(%q) got=%#v want=%#v", tc.in, got, tc.want)
		}
		if again, err := ParseGitRef(got.String()); err != nil || again != got {
			t.Fatalf("String() did not round-trip: %q", got.String())
		}
	}
}

func TestParseGitRefErrors(t *testing.T) {
	for _, in := range []string{
		"https://example.com/r.git@main:p",
		"git+https://example.com/r.git",
		"git+https://example.com/r.git@main",
		"git+@main:p",
		"git+https://example.com/r.git@:p",
		"git+https://example.com/r.git@main:",
	} {
		if _, err := ParseGitRef(in); err == nil {
			t.Fatalf("ParseGitRef(%q) succeeded", in)
		}
	}
}

func TestGitFetcherReadsCachedRevision(t *testing.T) {
	fetcher := &GitFetcher{CacheDir: t.TempDir()}
	hash := seedGitCache(t, fetcher, map[string]string{
		"sum.mav":       "arg@ // $+",
		"lib/hello.mav": "outc(72, 105)",
	})

	data, err := fetcher.Fetch(context.Background(), GitRef{URL: fixtureURL, Rev: hash.String(), Path: "sum.mav"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(data) != "arg@ // $+" {
		t.Fatalf("contents = %q", data)
	}

	data, err = fetcher.Fetch(context.Background(), GitRef{URL: fixtureURL, Rev: "HEAD", Path: "lib/hello.mav"})
	if err != nil {
		t.Fatalf("Fetch HEAD returned error: %v", err)
	}
	if string(data) != "outc(72, 105)" {
		t.Fatalf("contents = %q", data)
	}
}

func TestGitFetcherMissingPath(t *testing.T) {
	fetcher := &GitFetcher{CacheDir: t.TempDir()}
	hash := seedGitCache(t, fetcher, map[string]string{"a.mav": "1"})
	_, err := fetcher.Fetch(context.Background(), GitRef{URL: fixtureURL, Rev: hash.String(), Path: "b.mav"})
	if err == nil || !strings.Contains(err.Error(), "b.mav") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestGitFetcherUnknownRevisionWithoutRemote(t *testing.T) {
	fetcher := &GitFetcher{CacheDir: t.TempDir()}
	seedGitCache(t, fetcher, map[string]string{"a.mav": "1"})
	_, err := fetcher.Fetch(context.Background(), GitRef{URL: fixtureURL, Rev: "no-such-branch", Path: "a.mav"})
	if err == nil || !strings.Contains(err.Error(), "git fetch") {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestGitFetcherRequiresCacheDir(t *testing.T) {
	if _, err := (&GitFetcher{}).Fetch(context.Background(), GitRef{URL: fixtureURL, Rev: "HEAD", Path: "a"}); err == nil {
		t.Fatal("expected error without a cache directory")
	}
}

func TestRepoDirIsSanitized(t *testing.T) {
	fetcher := &GitFetcher{CacheDir: "/cache"}
	got := fetcher.RepoDir("https://example.com/a b.git")
	want := filepath.Join("/cache", "git", "https___example.com_a_b.git")
	if got != want {
		t.Fatalf("RepoDir = %q, want %q", got, want)
	}
}

func TestLoaderReadsLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.mav")
	if err := os.WriteFile(path, []byte("1 + 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewLoader(DefaultConfig(), nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if src.Text != "1 + 2" || src.Name != path {
		t.Fatalf("source = %#v", src)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(DefaultConfig(), nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.mav"))
	if err == nil || !strings.Contains(err.Error(), "no such file") {
		t.Fatalf("expected missing file error, got %v", err)
	}
	if _, err := NewLoader(DefaultConfig(), nil).Load(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty reference")
	}
}

func TestLoaderReadsGitReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheDir = t.TempDir()
	loader := NewLoader(cfg, nil)
	hash := seedGitCache(t, loader.Git, map[string]string{"p.mav": ":3"})

	ref := GitRef{URL: fixtureURL, Rev: hash.String(), Path: "p.mav"}
	src, err := loader.Load(context.Background(), ref.String())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if src.Text != ":3" || src.Name != ref.String() {
		t.Fatalf("source = %#v", src)
	}
}

func TestInline(t *testing.T) {
	if src := Inline("1"); src.Text != "1" || src.Name == "" {
		t.Fatalf("Inline = %#v", src)
	}
}
