package packages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atelier-tools/atelier/internal/release"
	"github.com/atelier-tools/atelier/internal/settings"
)

// GitBase is the shared implementation embedded by git-backed adapters:
// clone, checkout, pull, and remote-head comparison, all through the
// prerequisite runner so tests never touch a real repository.
type GitBase struct {
	meta Metadata
	deps Deps
}

// NewGitBase binds adapter metadata to its collaborators.
func NewGitBase(meta Metadata, deps Deps) *GitBase {
	return &GitBase{meta: meta, deps: deps}
}

// Metadata returns the adapter's compile-time description.
func (g *GitBase) Metadata() Metadata { return g.meta }

func (g *GitBase) git(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := g.deps.Runner.Run(ctx, dir, "git", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveVersion turns a version selector into a checkout ref and the
// version descriptor persisted with the install. Release resolution is
// skipped entirely for release-ignoring packages.
func (g *GitBase) ResolveVersion(ctx context.Context, spec VersionSpec) (ref, version string, err error) {
	switch {
	case spec.Commit != "":
		return spec.Commit, spec.Commit, nil
	case spec.Tag != "":
		if g.deps.Resolver != nil && !g.meta.IgnoreReleases {
			// Resolve through GitHub so a bare "1.2.3" finds the
			// "v1.2.3" release and a typo'd tag fails before cloning.
			rel, err := g.deps.Resolver.ByTag(ctx, g.meta.Repo, spec.Tag)
			if err != nil {
				return "", "", fmt.Errorf("resolving release %s of %s: %w", spec.Tag, g.meta.Repo, err)
			}
			return rel.TagName, rel.TagName, nil
		}
		return spec.Tag, spec.Tag, nil
	case spec.Branch != "":
		return spec.Branch, spec.Branch, nil
	}

	if g.meta.IgnoreReleases {
		return g.meta.DefaultBranch, g.meta.DefaultBranch, nil
	}

	rel, err := g.deps.Resolver.Latest(ctx, g.meta.Repo)
	if err != nil {
		return "", "", fmt.Errorf("resolving latest release of %s: %w", g.meta.Repo, err)
	}
	return rel.TagName, rel.TagName, nil
}

// Clone materializes the repository at dest and checks out ref. An
// existing clone is reused: the remote is healed, refs are fetched, and
// the requested ref is checked out.
func (g *GitBase) Clone(ctx context.Context, dest, ref string, onLine func(string)) error {
	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		if err := g.EnsureRemote(ctx, dest); err != nil {
			return err
		}
		if _, err := g.git(ctx, dest, "fetch", "--tags", "origin"); err != nil {
			return fmt.Errorf("fetching %s: %w", g.meta.Repo, err)
		}
		return g.Checkout(ctx, dest, ref)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating install parent: %w", err)
	}
	args := []string{"clone", "--recurse-submodules", g.meta.RepoURL, dest}
	if err := g.deps.Runner.RunStreaming(ctx, filepath.Dir(dest), onLine, "git", args...); err != nil {
		return fmt.Errorf("cloning %s: %w", g.meta.Repo, err)
	}
	if ref != "" && ref != g.meta.DefaultBranch {
		return g.Checkout(ctx, dest, ref)
	}
	return nil
}

// Checkout switches the working tree to ref (tag, branch, or commit).
func (g *GitBase) Checkout(ctx context.Context, dir, ref string) error {
	if ref == "" {
		ref = g.meta.DefaultBranch
	}
	if _, err := g.git(ctx, dir, "checkout", ref); err != nil {
		return fmt.Errorf("checking out %s: %w", ref, err)
	}
	return nil
}

// Pull fast-forwards the current branch.
func (g *GitBase) Pull(ctx context.Context, dir string) error {
	if err := g.EnsureRemote(ctx, dir); err != nil {
		return err
	}
	if _, err := g.git(ctx, dir, "pull", "--ff-only", "--recurse-submodules"); err != nil {
		return fmt.Errorf("pulling %s: %w", g.meta.Repo, err)
	}
	return nil
}

// CurrentCommit returns the working tree's HEAD commit hash.
func (g *GitBase) CurrentCommit(ctx context.Context, dir string) (string, error) {
	commit, err := g.git(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading HEAD of %s: %w", dir, err)
	}
	return commit, nil
}

// errRemoteMigration marks a stale origin that could not be rewritten.
var errRemoteMigration = errors.New("origin remote needs migration")

// EnsureRemote self-heals a stale origin: if the configured remote URL no
// longer matches the canonical repository (the upstream migrated, or the
// clone predates a rename), it is rewritten before any comparison or pull.
func (g *GitBase) EnsureRemote(ctx context.Context, dir string) error {
	current, err := g.git(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return fmt.Errorf("reading origin remote: %w", err)
	}
	if current == g.meta.RepoURL {
		return nil
	}
	g.deps.Logger.Info().
		Str("package", g.meta.Type).
		Str("from", current).
		Str("to", g.meta.RepoURL).
		Msg("migrating origin remote")
	if _, err := g.git(ctx, dir, "remote", "set-url", "origin", g.meta.RepoURL); err != nil {
		return fmt.Errorf("%w: %v", errRemoteMigration, err)
	}
	return nil
}

// HasUpdate compares the local HEAD against the remote branch head. A
// failed remote migration reports an update rather than an error, so the
// user is steered toward a pull that will surface the real problem.
func (g *GitBase) HasUpdate(ctx context.Context, dir, branch string) (bool, string, error) {
	if branch == "" {
		branch = g.meta.DefaultBranch
	}

	if err := g.EnsureRemote(ctx, dir); err != nil {
		if !errors.Is(err, errRemoteMigration) {
			return false, "", err
		}
		g.deps.Logger.Warn().Err(err).Str("package", g.meta.Type).Msg("remote migration failed, treating as update available")
		return true, "", nil
	}

	local, err := g.CurrentCommit(ctx, dir)
	if err != nil {
		return false, "", err
	}

	out, err := g.git(ctx, dir, "ls-remote", "origin", "refs/heads/"+branch)
	if err != nil {
		return false, "", fmt.Errorf("querying remote head of %s: %w", g.meta.Repo, err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return false, "", fmt.Errorf("remote branch %s not found on %s", branch, g.meta.Repo)
	}
	remote := fields[0]
	return remote != local, shortCommit(remote), nil
}

// CheckForUpdate is the default update detection for git-backed adapters:
// remote-head comparison for branch-tracking installs, release comparison
// otherwise.
func (g *GitBase) CheckForUpdate(ctx context.Context, installed settings.InstalledPackage) (bool, string, error) {
	if installed.Branch != "" || g.meta.IgnoreReleases {
		return g.HasUpdate(ctx, installed.InstallPath, installed.Branch)
	}

	rel, err := g.deps.Resolver.Latest(ctx, g.meta.Repo)
	if err != nil {
		return false, "", fmt.Errorf("resolving latest release of %s: %w", g.meta.Repo, err)
	}
	return release.IsNewer(installed.Version, rel.TagName), rel.TagName, nil
}

// UpdateSource brings the working tree to the latest target version and
// returns the new version descriptor. Branch-tracking installs pull;
// release-tracking installs fetch and check out the latest tag. Retrying
// after a failed attempt re-runs the same steps harmlessly.
func (g *GitBase) UpdateSource(ctx context.Context, req UpdateRequest) (string, error) {
	installed := req.Installed

	if installed.Branch != "" || g.meta.IgnoreReleases {
		req.Reporter.Indeterminate("Pulling latest changes")
		if err := g.Pull(ctx, installed.InstallPath); err != nil {
			return "", err
		}
		commit, err := g.CurrentCommit(ctx, installed.InstallPath)
		if err != nil {
			return "", err
		}
		return shortCommit(commit), nil
	}

	rel, err := g.deps.Resolver.Latest(ctx, g.meta.Repo)
	if err != nil {
		return "", fmt.Errorf("resolving latest release of %s: %w", g.meta.Repo, err)
	}
	if !release.IsNewer(installed.Version, rel.TagName) {
		return installed.Version, nil
	}
	req.Reporter.Indeterminate("Checking out " + rel.TagName)
	if err := g.Clone(ctx, installed.InstallPath, rel.TagName, nil); err != nil {
		return "", err
	}
	return rel.TagName, nil
}

func shortCommit(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
