package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Result 单台主机上一次命令执行的结果
type Result struct {
	Host       string        `json:"host"`
	ExitStatus int           `json:"exit_status"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Runner 在指定主机上执行 shell 命令
//
//go:generate mockgen -source=remote.go -destination=../../internal/mocks/runner.go -package=mocks
type Runner interface {
	Run(ctx context.Context, host, command string) (*Result, error)
}

// ExitError 命令已执行但返回非零退出码，主机本身是可达的
type ExitError struct {
	Host       string
	ExitStatus int
	Stderr     string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("host %s: exit status %d: %s", e.Host, e.ExitStatus, e.Stderr)
}

// NewRunner 根据 fleet.runner 选择 ssh 或 local，并按主机加熔断
func NewRunner(conf *viper.Viper) (Runner, error) {
	var next Runner
	switch conf.GetString("fleet.runner") {
	case "local":
		next = NewLocalRunner()
	default:
		r, err := NewSSHRunner(SSHConfig{
			User:                  conf.GetString("fleet.ssh.user"),
			Port:                  conf.GetInt("fleet.ssh.port"),
			KeyFile:               conf.GetString("fleet.ssh.key_file"),
			KnownHostsFile:        conf.GetString("fleet.ssh.known_hosts"),
			InsecureIgnoreHostKey: conf.GetBool("fleet.ssh.insecure_ignore_host_key"),
			DialTimeout:           conf.GetDuration("fleet.ssh.dial_timeout"),
		})
		if err != nil {
			return nil, err
		}
		next = r
	}
	return NewBreakerRunner(next, BreakerConfig{
		MaxFailures: uint32(conf.GetInt("fleet.breaker.max_failures")),
		OpenTimeout: conf.GetDuration("fleet.breaker.open_timeout"),
	}), nil
}
