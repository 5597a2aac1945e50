package fleet

import (
	"bytes"
	"fmt"
	"text/template"

	"atlas/internal/model"
)

// SettingsData 渲染 settings.php 所需的数据，Status 为过渡完成后的目标状态
type SettingsData struct {
	Sid                 string
	Path                string
	Status              model.InstanceStatus
	Pool                string
	BaseURL             string
	Environment         string
	DBHost              string
	DBPort              int
	DBName              string
	DBUser              string
	DBPassword          string
	Profile             string
	PageCacheMaximumAge int
	SiteimproveSite     int64
	SiteimproveGroup    int64
	Homepage            bool
}

const settingsTemplate = `<?php
// Managed by atlas. Local changes are overwritten.
$databases['default']['default'] = array(
  'driver' => 'mysql',
  'database' => {{ php .DBName }},
  'username' => {{ php .DBUser }},
  'password' => {{ php .DBPassword }},
  'host' => {{ php .DBHost }},
  'port' => '{{ .DBPort }}',
  'prefix' => '',
);

$conf['atlas_id'] = {{ php .Sid }};
$conf['atlas_status'] = {{ php .Status }};
$conf['atlas_pool'] = {{ php .Pool }};
$conf['atlas_environment'] = {{ php .Environment }};
{{- if .Path }}
$conf['atlas_path'] = {{ php .Path }};
{{- end }}
$conf['install_profile'] = {{ php .Profile }};
$base_url = {{ php .BaseURL }}{{ if and .Path (not .Homepage) }} . '/' . {{ php .Path }}{{ end }};
{{ if eq (printf "%s" .Status) "launched" }}
$conf['cache'] = 1;
$conf['page_cache_maximum_age'] = {{ .PageCacheMaximumAge }};
{{- else }}
$conf['cache'] = 0;
{{- end }}
{{- if or (eq (printf "%s" .Status) "locked") (eq (printf "%s" .Status) "down") }}
$conf['maintenance_mode'] = 1;
{{- end }}
{{- if .SiteimproveSite }}
$conf['siteimprove_site'] = {{ .SiteimproveSite }};
$conf['siteimprove_group'] = {{ .SiteimproveGroup }};
{{- end }}
$conf['file_public_path'] = 'sites/default/files';
$conf['file_private_path'] = 'sites/default/files/private';
$conf['file_temporary_path'] = '/tmp';
`

var settingsTmpl = template.Must(template.New("settings.php").Funcs(template.FuncMap{
	"php": phpString,
}).Parse(settingsTemplate))

// phpString 单引号字面量，转义反斜杠和单引号
func phpString(v interface{}) string {
	s := fmt.Sprint(v)
	var b bytes.Buffer
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\\' || r == '\'' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// RenderSettings 相同输入产生相同内容，WriteFile 依赖这一点跳过重复写入
func RenderSettings(data SettingsData) ([]byte, error) {
	var buf bytes.Buffer
	if err := settingsTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render settings for %s: %w", data.Sid, err)
	}
	return buf.Bytes(), nil
}
