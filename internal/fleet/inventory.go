package fleet

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Scope 主机选择策略
type Scope int

const (
	// ScopeFleet 所有 pool 的全部 web 主机：code 部署、PHP 缓存清理
	ScopeFleet Scope = iota
	// ScopePool 实例所在 pool 的全部主机：实例文件系统操作
	ScopePool
	// ScopeSingle 实例所在 pool 中随机一台：registry rebuild、updb、cron 等只需执行一次的操作
	ScopeSingle
	// ScopeLoadBalancer 负载均衡主机：路由配置
	ScopeLoadBalancer
)

func (s Scope) String() string {
	switch s {
	case ScopeFleet:
		return "fleet"
	case ScopePool:
		return "pool"
	case ScopeSingle:
		return "single"
	case ScopeLoadBalancer:
		return "load_balancer"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

var (
	ErrNoHosts     = errors.New("no hosts selected")
	ErrUnknownPool = errors.New("unknown pool")
)

// Inventory 当前环境的主机清单，配置项 fleet.inventory.<env>
type Inventory struct {
	env          string
	pools        map[string][]string
	loadBalancer string

	mu   sync.Mutex
	pick func(n int) int
}

func NewInventory(conf *viper.Viper) *Inventory {
	env := conf.GetString("env")
	prefix := "fleet.inventory." + env
	pools := make(map[string][]string)
	for pool := range conf.GetStringMap(prefix + ".pools") {
		pools[pool] = conf.GetStringSlice(prefix + ".pools." + pool)
	}
	return NewStaticInventory(env, pools, conf.GetString(prefix+".load_balancer"))
}

func NewStaticInventory(env string, pools map[string][]string, loadBalancer string) *Inventory {
	return &Inventory{
		env:          env,
		pools:        pools,
		loadBalancer: loadBalancer,
		pick:         rand.Intn,
	}
}

// WithPicker 替换随机选择函数，测试使用
func (i *Inventory) WithPicker(pick func(n int) int) *Inventory {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pick = pick
	return i
}

func (i *Inventory) Environment() string {
	return i.env
}

// Hosts 按策略解析目标主机，pool 为空时 ScopeSingle 从全部主机中选择
func (i *Inventory) Hosts(scope Scope, pool string) ([]string, error) {
	var hosts []string
	switch scope {
	case ScopeFleet:
		hosts = i.allWebservers()
	case ScopePool:
		h, err := i.poolHosts(pool)
		if err != nil {
			return nil, err
		}
		hosts = h
	case ScopeSingle:
		candidates := i.allWebservers()
		if pool != "" {
			h, err := i.poolHosts(pool)
			if err != nil {
				return nil, err
			}
			candidates = h
		}
		if len(candidates) == 0 {
			return nil, ErrNoHosts
		}
		i.mu.Lock()
		idx := i.pick(len(candidates))
		i.mu.Unlock()
		hosts = []string{candidates[idx]}
	case ScopeLoadBalancer:
		if i.loadBalancer != "" {
			hosts = []string{i.loadBalancer}
		}
	default:
		return nil, fmt.Errorf("unsupported scope %s", scope)
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: scope=%s pool=%s", ErrNoHosts, scope, pool)
	}
	return hosts, nil
}

func (i *Inventory) poolHosts(pool string) ([]string, error) {
	// viper 的 key 不区分大小写，pool 名同时按原样和小写查找
	hosts, ok := i.pools[pool]
	if !ok {
		hosts, ok = i.pools[strings.ToLower(pool)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPool, pool)
	}
	out := make([]string, len(hosts))
	copy(out, hosts)
	return out, nil
}

// allWebservers 去重后排序，同一台主机出现在多个 pool 时只执行一次
func (i *Inventory) allWebservers() []string {
	seen := make(map[string]struct{})
	var hosts []string
	for _, pool := range i.pools {
		for _, h := range pool {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			hosts = append(hosts, h)
		}
	}
	sort.Strings(hosts)
	return hosts
}
