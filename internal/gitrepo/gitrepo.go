package gitrepo

import (
	"errors"
	"fmt"
	"io"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/storage/filesystem"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// filterName is the name rimu registers under in [filter] and [diff].
const filterName = "rimu"

// Repository wraps an open git repository with the narrow queries the
// filter pipeline needs.
type Repository struct {
	repo   *git.Repository
	root   string
	gitDir string
}

// Open locates the repository containing dir, walking upward the way git
// itself does.
//
// Returns ErrNotGitRepository when dir is not inside a work tree.
func Open(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, rerrors.ErrNotGitRepository
		}
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve worktree: %w", err)
	}

	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, fmt.Errorf("unsupported git storage backend")
	}

	return &Repository{
		repo:   repo,
		root:   wt.Filesystem.Root(),
		gitDir: storage.Filesystem().Root(),
	}, nil
}

// Root returns the absolute path of the work tree.
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the absolute path of the .git directory.
func (r *Repository) GitDir() string {
	return r.gitDir
}

// StagedBytes returns the bytes currently recorded for path in the index.
// The second return is false when the index has no entry for the path or
// the referenced object is no longer in the object store.
func (r *Repository) StagedBytes(path string) ([]byte, bool, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read git index: %w", err)
	}

	entry, err := idx.Entry(path)
	if err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up index entry for %s: %w", path, err)
	}

	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load staged object for %s: %w", path, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read staged object for %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read staged object for %s: %w", path, err)
	}
	return data, true, nil
}

// InstallFilter registers the clean/smudge filter and the textconv diff
// driver in the repository-local git config. The executable path is
// quoted so paths containing spaces survive the shell git runs filters
// through.
func (r *Repository) InstallFilter(executable string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to read git config: %w", err)
	}

	filter := cfg.Raw.Section("filter").Subsection(filterName)
	filter.SetOption("clean", fmt.Sprintf("%q clean -f %%f", executable))
	filter.SetOption("smudge", fmt.Sprintf("%q smudge -f %%f", executable))
	filter.SetOption("required", "true")

	cfg.Raw.Section("diff").Subsection(filterName).SetOption("textconv", fmt.Sprintf("%q textconv", executable))

	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("failed to write git config: %w", err)
	}
	return nil
}

// RemoveFilter deletes the filter and diff driver registrations. Removing
// a filter that was never installed is not an error.
func (r *Repository) RemoveFilter() error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to read git config: %w", err)
	}

	cfg.Raw.Section("filter").RemoveSubsection(filterName)
	cfg.Raw.Section("diff").RemoveSubsection(filterName)

	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("failed to write git config: %w", err)
	}
	return nil
}

// FilterInstalled reports whether the repository-local git config carries
// a filter registration.
func (r *Repository) FilterInstalled() (bool, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return false, fmt.Errorf("failed to read git config: %w", err)
	}
	return cfg.Raw.Section("filter").HasSubsection(filterName), nil
}
