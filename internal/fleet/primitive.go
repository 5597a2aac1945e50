package fleet

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"atlas/pkg/hash"
)

// Primitive 一个可在远端重复执行的部署动作
// Command 必须幂等：目标状态已经正确时不做任何改变并返回 0
type Primitive struct {
	Name    string
	Command string
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// CloneRepo 把仓库检出到 dir 并固定在 commit，HEAD 已是该 commit 时直接返回
func CloneRepo(gitURL, commit, dir string) Primitive {
	d, tmp := quote(dir), quote(dir+".tmp")
	cmd := strings.Join([]string{
		"set -e",
		fmt.Sprintf(`if [ "$(git -C %s rev-parse HEAD 2>/dev/null)" = %s ]; then exit 0; fi`, d, quote(commit)),
		fmt.Sprintf("mkdir -p %s", quote(path.Dir(dir))),
		fmt.Sprintf("rm -rf %s", tmp),
		fmt.Sprintf("git clone --quiet %s %s", quote(gitURL), tmp),
		fmt.Sprintf("git -C %s checkout --quiet %s", tmp, quote(commit)),
		fmt.Sprintf("rm -rf %s", d),
		fmt.Sprintf("mv %s %s", tmp, d),
	}, "\n")
	return Primitive{Name: "clone", Command: cmd}
}

// Symlink 创建或替换软链接 link -> target
func Symlink(target, link string) Primitive {
	return Primitive{
		Name:    "symlink",
		Command: fmt.Sprintf("mkdir -p %s && ln -sfn %s %s", quote(path.Dir(link)), quote(target), quote(link)),
	}
}

// WriteFile 内容摘要一致时跳过，否则写临时文件后原子替换
func WriteFile(dest string, content []byte, mode string) Primitive {
	sum := hash.Sum(content)
	d, tmp := quote(dest), quote(dest+".tmp")
	cmd := strings.Join([]string{
		"set -e",
		fmt.Sprintf(`if [ -f %s ] && [ "$(sha256sum %s | cut -d' ' -f1)" = %s ]; then exit 0; fi`, d, d, quote(sum)),
		fmt.Sprintf("mkdir -p %s", quote(path.Dir(dest))),
		fmt.Sprintf("echo %s | base64 -d > %s", quote(base64.StdEncoding.EncodeToString(content)), tmp),
		fmt.Sprintf("chmod %s %s", mode, tmp),
		fmt.Sprintf("mv -f %s %s", tmp, d),
	}, "\n")
	return Primitive{Name: "write_file", Command: cmd}
}

func RemovePath(p string) Primitive {
	return Primitive{Name: "remove", Command: fmt.Sprintf("rm -rf %s", quote(p))}
}

func MakeDir(p string) Primitive {
	return Primitive{Name: "mkdir", Command: fmt.Sprintf("mkdir -p %s", quote(p))}
}

func Exec(name, command string) Primitive {
	return Primitive{Name: name, Command: command}
}

// Sequence 顺序执行，任一步失败即停止
func Sequence(name string, steps ...Primitive) Primitive {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, "("+s.Command+")")
	}
	return Primitive{Name: name, Command: strings.Join(parts, " && \\\n")}
}
