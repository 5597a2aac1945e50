package fleet

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"atlas/pkg/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLocal(t *testing.T, p Primitive) *remote.Result {
	t.Helper()
	res, err := remote.NewLocalRunner().Run(context.Background(), "localhost", p.Command)
	require.NoError(t, err, p.Command)
	return res
}

// gitCommit 在 repo 中提交一个文件并返回 commit
func gitCommit(t *testing.T, repo, file, content string) string {
	t.Helper()
	runLocal(t, WriteFile(filepath.Join(repo, file), []byte(content), "0644"))
	res := runLocal(t, Exec("commit", fmt.Sprintf(
		"cd %s && git add -A && git -c user.name=atlas -c user.email=atlas@example.edu commit --quiet -m %s && git rev-parse HEAD",
		quote(repo), quote(file))))
	return strings.TrimSpace(res.Stdout)
}

func TestCloneRepo_Idempotent(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	repo := filepath.Join(dir, "origin")
	runLocal(t, Exec("init", fmt.Sprintf("git init --quiet %s", quote(repo))))
	first := gitCommit(t, repo, "views.info", "version = 3.1\n")
	second := gitCommit(t, repo, "views.info", "version = 3.2\n")

	checkout := filepath.Join(dir, "code", "modules", "views", "views-3.1")
	res := runLocal(t, CloneRepo(repo, first, checkout))
	assert.Equal(t, 0, res.ExitStatus)
	head := runLocal(t, Exec("head", fmt.Sprintf("git -C %s rev-parse HEAD", quote(checkout))))
	assert.Equal(t, first, strings.TrimSpace(head.Stdout))

	// 已在目标 commit 时不重新检出，目录里的其他文件保留
	marker := filepath.Join(checkout, "files.marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))
	res = runLocal(t, CloneRepo(repo, first, checkout))
	assert.Equal(t, 0, res.ExitStatus)
	assert.FileExists(t, marker)

	// commit 变化时重新检出
	runLocal(t, CloneRepo(repo, second, checkout))
	head = runLocal(t, Exec("head", fmt.Sprintf("git -C %s rev-parse HEAD", quote(checkout))))
	assert.Equal(t, second, strings.TrimSpace(head.Stdout))
	assert.NoFileExists(t, marker)
	assert.NoDirExists(t, checkout+".tmp")
}

func TestSymlink_Idempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "code", "core-7.1")
	require.NoError(t, os.MkdirAll(target, 0o755))
	link := filepath.Join(dir, "web", "nested", "core-current")

	runLocal(t, Symlink(target, link))
	runLocal(t, Symlink(target, link))

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestSymlink_Replace(t *testing.T) {
	dir := t.TempDir()
	old, next := filepath.Join(dir, "v1"), filepath.Join(dir, "v2")
	require.NoError(t, os.MkdirAll(old, 0o755))
	require.NoError(t, os.MkdirAll(next, 0o755))
	link := filepath.Join(dir, "current")

	runLocal(t, Symlink(old, link))
	runLocal(t, Symlink(next, link))

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, next, got)
}

func TestWriteFile_Idempotent(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "sites", "default", "settings.php")
	content := []byte("<?php\n$conf['atlas_id'] = 'p1abc';\n")

	runLocal(t, WriteFile(dest, content, "0444"))
	first, err := os.Stat(dest)
	require.NoError(t, err)

	runLocal(t, WriteFile(dest, content, "0444"))
	second, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, os.SameFile(first, second))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	runLocal(t, WriteFile(dest, []byte("changed"), "0444"))
	got, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "changed", string(got))
}

func TestSequence_StopsOnFailure(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "after")
	p := Sequence("seq", Exec("fail", "exit 3"), MakeDir(marker))

	_, err := remote.NewLocalRunner().Run(context.Background(), "localhost", p.Command)
	var exitErr *remote.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitStatus)
	assert.NoDirExists(t, marker)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'it'\''s'`, quote("it's"))
	assert.Equal(t, `'a b'`, quote("a b"))
}
