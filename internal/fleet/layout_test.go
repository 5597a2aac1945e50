package fleet

import (
	"strings"
	"testing"

	"atlas/internal/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() *Layout {
	conf := viper.New()
	conf.Set("fleet.paths.code_root", "/data/code")
	conf.Set("fleet.paths.instances_code_root", "/data/instances")
	conf.Set("fleet.paths.instances_file_root", "/data/files")
	conf.Set("fleet.paths.web_root", "/data/web")
	conf.Set("fleet.paths.down_path", "/data/down")
	conf.Set("platform.base_url", "https://www.example.edu/")
	return NewLayout(conf)
}

func strPtr(s string) *string { return &s }

func TestLayout_CodeDir(t *testing.T) {
	l := testLayout()
	lib := &model.Code{Name: "jquery", Version: "3.1", CodeType: model.CodeTypeLibrary}
	assert.Equal(t, "/data/code/libraries/jquery/jquery-3.1", l.CodeDir(lib))
	assert.Equal(t, "/data/code/libraries/jquery/jquery-current", l.CurrentLink(lib))

	mod := &model.Code{Name: "views", Version: "3.2", CodeType: model.CodeTypeModule}
	assert.Equal(t, "/data/code/modules/views/views-3.2", l.CodeDir(mod))
}

func TestLayout_URI(t *testing.T) {
	l := testLayout()
	assert.Equal(t, "https://www.example.edu/p1abc", l.URI(&model.Instance{Sid: "p1abc"}))
	assert.Equal(t, "https://www.example.edu/physics", l.URI(&model.Instance{Sid: "p1abc", Path: strPtr("physics")}))
	assert.Equal(t, "https://www.example.edu", l.URI(&model.Instance{Sid: "p1abc", Path: strPtr(model.HomepagePath)}))
}

func TestLayout_CodeDeployLinksCurrent(t *testing.T) {
	l := testLayout()
	c := &model.Code{Name: "drupal", Version: "7.99", CodeType: model.CodeTypeCore, GitURL: "git@github.com:org/drupal.git", CommitHash: "abc123"}

	p := l.CodeDeploy(c)
	assert.NotContains(t, p.Command, "drupal-current")

	c.IsCurrent = true
	p = l.CodeDeploy(c)
	assert.Contains(t, p.Command, "ln -sfn '/data/code/cores/drupal/drupal-7.99' '/data/code/cores/drupal/drupal-current'")
}

func TestLayout_CodeLinksMissingPackage(t *testing.T) {
	l := testLayout()
	inst := &model.Instance{Sid: "p1abc", Code: model.InstanceCode{Core: 1, Package: []int64{9}}}
	codes := map[int64]*model.Code{1: {Id: 1, Name: "drupal", Version: "7", CodeType: model.CodeTypeCore}}

	_, err := l.CodeLinks(inst, codes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package 9")
}

func TestLayout_TakeDownAndRestore(t *testing.T) {
	l := testLayout()
	inst := &model.Instance{Sid: "p1abc", Path: strPtr("physics")}

	down := l.TakeDown(inst)
	assert.Contains(t, down.Command, "rm -rf '/data/web/p1abc'")
	assert.Contains(t, down.Command, "ln -sfn '/data/down' '/data/web/physics'")

	restore := l.Restore(inst)
	assert.Contains(t, restore.Command, "ln -sfn '/data/instances/p1abc' '/data/web/p1abc'")
	assert.Contains(t, restore.Command, "rm -rf '/data/web/physics'")
}

func TestLayout_PathOutsideWebRoot(t *testing.T) {
	l := testLayout()
	for _, p := range []string{"..", "../etc", "/data", "a/../../b", "./physics"} {
		inst := &model.Instance{Sid: "p1abc", Path: strPtr(p)}

		remove := l.Remove(inst)
		assert.NotContains(t, remove.Command, "rm -rf '/data'", p)
		assert.NotContains(t, remove.Command, "rm -rf '/data/web'", p)
		assert.NotContains(t, remove.Command, "'/etc'", p)

		launch := l.Launch(inst)
		assert.Contains(t, launch.Command, "'/data/web/p1abc'", p)

		down := l.TakeDown(inst)
		assert.NotContains(t, down.Command, "/data/down", p)
	}

	assert.True(t, LocalPath("physics"))
	assert.True(t, LocalPath("dept/physics"))
	assert.False(t, LocalPath(""))
	assert.False(t, LocalPath(".."))
	assert.False(t, LocalPath("/physics"))
	assert.False(t, LocalPath("physics/"))
}

func TestLayout_PHPCacheClear(t *testing.T) {
	conf := viper.New()
	conf.Set("fleet.commands.php_cache_clear", "sudo service php-fpm reload")
	l := NewLayout(conf)
	assert.Equal(t, "sudo service php-fpm reload", l.PHPCacheClearCommand)
	p := l.PHPCacheClear()
	assert.Equal(t, "php_cache_clear", p.Name)
	assert.Equal(t, "sudo service php-fpm reload", p.Command)
}

func TestLayout_Command(t *testing.T) {
	l := testLayout()
	inst := &model.Instance{Sid: "p1abc", Path: strPtr("physics")}
	p := l.Command(inst, []string{"drush vset foo 1", "drush cc all"})
	assert.Equal(t, 2, strings.Count(p.Command, "--uri='https://www.example.edu/physics'"))
}

func TestRenderSettings(t *testing.T) {
	data := SettingsData{
		Sid:                 "p1abc",
		Path:                "physics",
		Status:              model.InstanceStatusLaunched,
		BaseURL:             "https://www.example.edu",
		DBHost:              "db1",
		DBPort:              3306,
		DBName:              "p1abc",
		DBUser:              "p1abc",
		DBPassword:          "it's",
		Profile:             "express",
		PageCacheMaximumAge: 3600,
	}
	out, err := RenderSettings(data)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `'password' => 'it\'s'`)
	assert.Contains(t, s, "$conf['page_cache_maximum_age'] = 3600;")
	assert.Contains(t, s, "$base_url = 'https://www.example.edu' . '/' . 'physics';")
	assert.NotContains(t, s, "maintenance_mode")

	again, err := RenderSettings(data)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	data.Status = model.InstanceStatusLocked
	out, err = RenderSettings(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "$conf['maintenance_mode'] = 1;")
	assert.Contains(t, string(out), "$conf['cache'] = 0;")
}
