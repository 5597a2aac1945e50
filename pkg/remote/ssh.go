package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

type SSHConfig struct {
	User                  string
	Port                  int
	KeyFile               string
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
	DialTimeout           time.Duration
}

// SSHRunner 每次调用建立一条独立连接，命令之间不共享会话状态
type SSHRunner struct {
	config      *ssh.ClientConfig
	port        int
	dialTimeout time.Duration
}

func NewSSHRunner(c SSHConfig) (*SSHRunner, error) {
	key, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}

	var hostKeyCallback ssh.HostKeyCallback
	if c.InsecureIgnoreHostKey {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		hostKeyCallback, err = knownhosts.New(c.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("load known_hosts: %w", err)
		}
	}

	port := c.Port
	if port == 0 {
		port = 22
	}
	dialTimeout := c.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 10 * time.Second
	}
	return &SSHRunner{
		config: &ssh.ClientConfig{
			User:            c.User,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         dialTimeout,
		},
		port:        port,
		dialTimeout: dialTimeout,
	}, nil
}

func (r *SSHRunner) Run(ctx context.Context, host, command string) (*Result, error) {
	start := time.Now()
	addr := net.JoinHostPort(host, strconv.Itoa(r.port))

	dialer := net.Dialer{Timeout: r.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, r.config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake %s: %w", addr, err)
	}
	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("ssh session %s: %w", addr, err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// 超时后强制结束远端进程，连接随 defer 关闭
		_ = session.Signal(ssh.SIGKILL)
		return nil, ctx.Err()
	case err = <-done:
	}

	res := &Result{
		Host:     host,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			res.ExitStatus = exitErr.ExitStatus()
			return res, &ExitError{Host: host, ExitStatus: res.ExitStatus, Stderr: res.Stderr}
		}
		return res, err
	}
	return res, nil
}
