package fleet

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"atlas/internal/model"

	"github.com/spf13/viper"
)

// Layout 主机上的目录约定和命令
type Layout struct {
	CodeRoot             string
	InstancesCodeRoot    string
	InstancesFileRoot    string
	WebRoot              string
	DownPath             string
	BackupRoot           string
	BaseURL              string
	Drush                string
	PHPCacheClearCommand string
	HomepageFiles        string
}

func NewLayout(conf *viper.Viper) *Layout {
	l := &Layout{
		CodeRoot:             conf.GetString("fleet.paths.code_root"),
		InstancesCodeRoot:    conf.GetString("fleet.paths.instances_code_root"),
		InstancesFileRoot:    conf.GetString("fleet.paths.instances_file_root"),
		WebRoot:              conf.GetString("fleet.paths.web_root"),
		DownPath:             conf.GetString("fleet.paths.down_path"),
		BackupRoot:           conf.GetString("fleet.paths.backup_root"),
		BaseURL:              strings.TrimRight(conf.GetString("platform.base_url"), "/"),
		Drush:                conf.GetString("fleet.commands.drush"),
		PHPCacheClearCommand: conf.GetString("fleet.commands.php_cache_clear"),
		HomepageFiles:        conf.GetString("fleet.commands.homepage_files"),
	}
	if l.Drush == "" {
		l.Drush = "drush"
	}
	return l
}

// CodeDir 某个版本的检出目录
func (l *Layout) CodeDir(c *model.Code) string {
	return path.Join(l.CodeRoot, c.CodeType.Dir(), c.Name, c.Name+"-"+c.Version)
}

// CurrentLink 指向 current 版本的软链接
func (l *Layout) CurrentLink(c *model.Code) string {
	return path.Join(l.CodeRoot, c.CodeType.Dir(), c.Name, c.Name+"-current")
}

func (l *Layout) Docroot(inst *model.Instance) string {
	return path.Join(l.InstancesCodeRoot, inst.Sid)
}

func (l *Layout) FilesDir(inst *model.Instance) string {
	return path.Join(l.InstancesFileRoot, inst.Sid)
}

func (l *Layout) SettingsFile(inst *model.Instance) string {
	return path.Join(l.Docroot(inst), "sites", "default", "settings.php")
}

// URI drush --uri 使用的地址，首页为 base url
func (l *Layout) URI(inst *model.Instance) string {
	if inst.IsHomepage() {
		return l.BaseURL
	}
	if p := inst.PathString(); p != "" {
		return l.BaseURL + "/" + p
	}
	return l.BaseURL + "/" + inst.Sid
}

func (l *Layout) BackupDir(inst *model.Instance) string {
	return path.Join(l.BackupRoot, inst.Sid)
}

// CodeDeploy 检出代码，current 版本同时更新 -current 软链接
func (l *Layout) CodeDeploy(c *model.Code) Primitive {
	steps := []Primitive{CloneRepo(c.GitURL, c.CommitHash, l.CodeDir(c))}
	if c.IsCurrent {
		steps = append(steps, Symlink(l.CodeDir(c), l.CurrentLink(c)))
	}
	return Sequence("code_deploy", steps...)
}

// CodeRemove 删除检出目录；-current 指向该目录时一并删除
func (l *Layout) CodeRemove(c *model.Code) Primitive {
	dir, link := quote(l.CodeDir(c)), quote(l.CurrentLink(c))
	return Sequence("code_remove",
		Exec("unlink_current", fmt.Sprintf(`if [ "$(readlink %s)" = %s ]; then rm -f %s; fi`, link, dir, link)),
		RemovePath(l.CodeDir(c)),
	)
}

// CodeLinks 实例 docroot 中指向 core、profile、package 的软链接
// 先清空 package 目录再重建，移除的 package 不会残留
func (l *Layout) CodeLinks(inst *model.Instance, codes map[int64]*model.Code) (Primitive, error) {
	root := l.Docroot(inst)
	core, ok := codes[inst.Code.Core]
	if !ok {
		return Primitive{}, fmt.Errorf("core %d not resolved for %s", inst.Code.Core, inst.Sid)
	}
	steps := []Primitive{Symlink(l.CodeDir(core), path.Join(root, "core"))}
	if inst.Code.Profile != 0 {
		profile, ok := codes[inst.Code.Profile]
		if !ok {
			return Primitive{}, fmt.Errorf("profile %d not resolved for %s", inst.Code.Profile, inst.Sid)
		}
		steps = append(steps,
			RemovePath(path.Join(root, "profiles")),
			Symlink(l.CodeDir(profile), path.Join(root, "profiles", profile.Name)),
		)
	}
	all := path.Join(root, "sites", "all")
	steps = append(steps,
		RemovePath(path.Join(all, "modules")),
		RemovePath(path.Join(all, "themes")),
		RemovePath(path.Join(all, "libraries")),
		MakeDir(path.Join(all, "modules")),
	)
	pkgs := make([]*model.Code, 0, len(inst.Code.Package))
	for _, id := range inst.Code.Package {
		pkg, ok := codes[id]
		if !ok {
			return Primitive{}, fmt.Errorf("package %d not resolved for %s", id, inst.Sid)
		}
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	for _, pkg := range pkgs {
		steps = append(steps, Symlink(l.CodeDir(pkg), path.Join(all, pkg.CodeType.Dir(), pkg.Name)))
	}
	return Sequence("code_links", steps...), nil
}

// Provision 创建 docroot、文件目录，并以 sid 暴露在 web root 下
func (l *Layout) Provision(inst *model.Instance, codes map[int64]*model.Code, settings []byte) (Primitive, error) {
	links, err := l.CodeLinks(inst, codes)
	if err != nil {
		return Primitive{}, err
	}
	return Sequence("instance_provision",
		MakeDir(l.Docroot(inst)),
		MakeDir(l.FilesDir(inst)),
		links,
		Symlink(l.FilesDir(inst), path.Join(l.Docroot(inst), "sites", "default", "files")),
		WriteFile(l.SettingsFile(inst), settings, "0444"),
		Symlink(l.Docroot(inst), path.Join(l.WebRoot, inst.Sid)),
	), nil
}

func (l *Layout) WriteSettings(inst *model.Instance, settings []byte) Primitive {
	return WriteFile(l.SettingsFile(inst), settings, "0444")
}

// Launch 以 path 对外提供服务
func (l *Layout) Launch(inst *model.Instance) Primitive {
	return Sequence("instance_launch",
		Symlink(l.Docroot(inst), path.Join(l.WebRoot, l.webName(inst))),
	)
}

// TakeDown path 指向下线页面，sid 入口移除
func (l *Layout) TakeDown(inst *model.Instance) Primitive {
	steps := []Primitive{RemovePath(path.Join(l.WebRoot, inst.Sid))}
	if name := l.webName(inst); name != inst.Sid {
		steps = append(steps, Symlink(l.DownPath, path.Join(l.WebRoot, name)))
	}
	return Sequence("instance_take_down", steps...)
}

// Restore 恢复 sid 入口，path 上的下线页面移除
func (l *Layout) Restore(inst *model.Instance) Primitive {
	steps := []Primitive{Symlink(l.Docroot(inst), path.Join(l.WebRoot, inst.Sid))}
	if name := l.webName(inst); name != inst.Sid {
		steps = append(steps, RemovePath(path.Join(l.WebRoot, name)))
	}
	return Sequence("instance_restore", steps...)
}

func (l *Layout) Remove(inst *model.Instance) Primitive {
	steps := []Primitive{
		RemovePath(path.Join(l.WebRoot, inst.Sid)),
		RemovePath(l.Docroot(inst)),
		RemovePath(l.FilesDir(inst)),
	}
	if name := l.webName(inst); name != inst.Sid {
		steps = append(steps, RemovePath(path.Join(l.WebRoot, name)))
	}
	return Sequence("instance_remove", steps...)
}

// webName 首页挂在 web root 下的 homepage 目录
// path 不是 web root 下的相对路径时退回 sid，不会操作 web root 之外的目录
func (l *Layout) webName(inst *model.Instance) string {
	if p := inst.PathString(); LocalPath(p) {
		return p
	}
	return inst.Sid
}

// LocalPath p 是否为规范的相对路径，且不会跳出所在目录
func LocalPath(p string) bool {
	return p != "" && filepath.IsLocal(p) && path.Clean(p) == p
}

func (l *Layout) drush(inst *model.Instance, name string, args ...string) Primitive {
	return Exec(name, fmt.Sprintf("cd %s && %s %s --uri=%s",
		quote(l.Docroot(inst)), l.Drush, strings.Join(args, " "), quote(l.URI(inst))))
}

func (l *Layout) PHPCacheClear() Primitive {
	return Exec("php_cache_clear", l.PHPCacheClearCommand)
}

func (l *Layout) RegistryRebuild(inst *model.Instance) Primitive {
	return l.drush(inst, "registry_rebuild", "rr")
}

func (l *Layout) UpdateDatabase(inst *model.Instance) Primitive {
	return l.drush(inst, "update_database", "updb", "-y")
}

func (l *Layout) CacheClear(inst *model.Instance) Primitive {
	return l.drush(inst, "cache_clear", "cc", "all")
}

func (l *Layout) Cron(inst *model.Instance) Primitive {
	return l.drush(inst, "cron", "elysia-cron", "run")
}

// Install 安装 profile，数据库已有表时跳过
func (l *Layout) Install(inst *model.Instance, profile string) Primitive {
	install := l.drush(inst, "install", "site-install", "-y", quote(profile))
	check := fmt.Sprintf("cd %s && %s status bootstrap --uri=%s | grep -q Successful",
		quote(l.Docroot(inst)), l.Drush, quote(l.URI(inst)))
	return Exec("install", fmt.Sprintf("%s || (%s)", check, install.Command))
}

// Command 批量命令，每条追加 --uri 后以 && 连接
func (l *Layout) Command(inst *model.Instance, commands []string) Primitive {
	parts := make([]string, 0, len(commands))
	for _, c := range commands {
		parts = append(parts, fmt.Sprintf("%s --uri=%s", c, quote(l.URI(inst))))
	}
	return Exec("command", fmt.Sprintf("cd %s && %s", quote(l.Docroot(inst)), strings.Join(parts, " && ")))
}

func (l *Layout) UpdateHomepageFiles() Primitive {
	return Exec("homepage_files", l.HomepageFiles)
}

// BackupCreate 导出数据库和文件到 dbFile、filesArchive
func (l *Layout) BackupCreate(inst *model.Instance, dbFile, filesArchive string) Primitive {
	return Sequence("backup_create",
		MakeDir(path.Dir(dbFile)),
		Exec("sql_dump", fmt.Sprintf("cd %s && %s sql-dump --gzip --result-file=%s --uri=%s",
			quote(l.Docroot(inst)), l.Drush, quote(strings.TrimSuffix(dbFile, ".gz")), quote(l.URI(inst)))),
		Exec("files_archive", fmt.Sprintf("tar -czf %s -C %s .", quote(filesArchive), quote(l.FilesDir(inst)))),
	)
}

// BackupRestore 用备份覆盖实例数据库和文件
func (l *Layout) BackupRestore(inst *model.Instance, dbFile, filesArchive string) Primitive {
	return Sequence("backup_restore",
		Exec("sql_drop", fmt.Sprintf("cd %s && %s sql-drop -y --uri=%s", quote(l.Docroot(inst)), l.Drush, quote(l.URI(inst)))),
		Exec("sql_import", fmt.Sprintf("cd %s && gunzip -c %s | %s sql-cli --uri=%s",
			quote(l.Docroot(inst)), quote(dbFile), l.Drush, quote(l.URI(inst)))),
		RemovePath(l.FilesDir(inst)),
		MakeDir(l.FilesDir(inst)),
		Exec("files_extract", fmt.Sprintf("tar -xzf %s -C %s", quote(filesArchive), quote(l.FilesDir(inst)))),
	)
}

// Fetch 从对端环境下载备份文件
func (l *Layout) Fetch(url, dest string) Primitive {
	return Sequence("fetch",
		MakeDir(path.Dir(dest)),
		Exec("download", fmt.Sprintf("curl -fsSL -o %s %s", quote(dest), quote(url))),
	)
}
