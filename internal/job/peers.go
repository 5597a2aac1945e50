package job

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"atlas/pkg/atlasclient"

	"github.com/spf13/viper"
)

var ErrUnknownPeer = errors.New("unknown peer environment")

// Peers 其它环境的 Atlas，配置在 platform.peers.<env> 下
type Peers struct {
	conf *viper.Viper
	user string
}

func NewPeers(conf *viper.Viper) *Peers {
	user := conf.GetString("platform.peer_user")
	if user == "" {
		user = "atlas-" + conf.GetString("env")
	}
	return &Peers{conf: conf, user: user}
}

func (p *Peers) key(env, field string) string {
	return fmt.Sprintf("platform.peers.%s.%s", strings.ToLower(env), field)
}

func (p *Peers) Client(env string) (*atlasclient.Client, error) {
	apiURL := p.conf.GetString(p.key(env, "url"))
	if apiURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, env)
	}
	return atlasclient.NewClient(apiURL, p.conf.GetString(p.key(env, "token")), p.user,
		p.conf.GetBool(p.key(env, "insecure")))
}

// FileURL 对端备份文件的下载地址
func (p *Peers) FileURL(env, file string) (string, error) {
	base := p.conf.GetString(p.key(env, "files_url"))
	if base == "" {
		return "", fmt.Errorf("%w: %s has no files_url", ErrUnknownPeer, env)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = path.Join(u.Path, path.Base(path.Dir(file)), path.Base(file))
	return u.String(), nil
}
