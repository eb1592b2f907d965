package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}
	return dir
}

func stageFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	raw, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen failed: %v", err)
	}
	wt, err := raw.Worktree()
	if err != nil {
		t.Fatalf("Worktree failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
}

func samePath(t *testing.T, a, b string) bool {
	t.Helper()
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}
	return ra == rb
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, rerrors.ErrNotGitRepository) {
		t.Errorf("Expected ErrNotGitRepository, got %v", err)
	}
}

func TestOpenFindsRootFromSubdirectory(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "deep", "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	repo, err := Open(sub)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !samePath(t, repo.Root(), dir) {
		t.Errorf("Expected root %q, got %q", dir, repo.Root())
	}
	if !samePath(t, repo.GitDir(), filepath.Join(dir, ".git")) {
		t.Errorf("Expected git dir under root, got %q", repo.GitDir())
	}
}

func TestStagedBytesAbsent(t *testing.T) {
	dir := initRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, ok, err := repo.StagedBytes("never-added.env")
	if err != nil {
		t.Fatalf("StagedBytes failed: %v", err)
	}
	if ok {
		t.Error("Expected no staged bytes for an unstaged path")
	}
}

func TestStagedBytes(t *testing.T) {
	dir := initRepo(t)
	content := []byte("cipher-bytes-here")
	stageFile(t, dir, "secrets.env", content)

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	staged, ok, err := repo.StagedBytes("secrets.env")
	if err != nil {
		t.Fatalf("StagedBytes failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected staged bytes")
	}
	if string(staged) != string(content) {
		t.Errorf("Expected %q, got %q", content, staged)
	}
}

func TestStagedBytesEmptyFile(t *testing.T) {
	dir := initRepo(t)
	stageFile(t, dir, "empty.env", []byte{})

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	staged, ok, err := repo.StagedBytes("empty.env")
	if err != nil {
		t.Fatalf("StagedBytes failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected an index entry for the empty file")
	}
	if len(staged) != 0 {
		t.Errorf("Expected empty staged bytes, got %d bytes", len(staged))
	}
}

func TestInstallAndRemoveFilter(t *testing.T) {
	dir := initRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	installed, err := repo.FilterInstalled()
	if err != nil {
		t.Fatalf("FilterInstalled failed: %v", err)
	}
	if installed {
		t.Fatal("Expected no filter on a fresh repository")
	}

	if err := repo.InstallFilter("/usr/local/bin/rimu"); err != nil {
		t.Fatalf("InstallFilter failed: %v", err)
	}

	installed, err = repo.FilterInstalled()
	if err != nil {
		t.Fatalf("FilterInstalled failed: %v", err)
	}
	if !installed {
		t.Error("Expected the filter to be installed")
	}

	raw, err := os.ReadFile(filepath.Join(dir, ".git", "config"))
	if err != nil {
		t.Fatalf("failed to read git config: %v", err)
	}
	config := string(raw)
	for _, want := range []string{`[filter "rimu"]`, "clean", "smudge", "required", `[diff "rimu"]`, "textconv"} {
		if !strings.Contains(config, want) {
			t.Errorf("Expected git config to contain %q:\n%s", want, config)
		}
	}

	if err := repo.RemoveFilter(); err != nil {
		t.Fatalf("RemoveFilter failed: %v", err)
	}
	installed, err = repo.FilterInstalled()
	if err != nil {
		t.Fatalf("FilterInstalled failed: %v", err)
	}
	if installed {
		t.Error("Expected the filter to be gone after removal")
	}
}

func TestRemoveFilterWhenNotInstalled(t *testing.T) {
	dir := initRepo(t)
	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := repo.RemoveFilter(); err != nil {
		t.Errorf("Expected removing an absent filter to succeed, got %v", err)
	}
}
