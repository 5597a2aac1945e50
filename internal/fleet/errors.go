package fleet

import (
	"fmt"
	"sort"
	"strings"

	"atlas/internal/model"
)

// Result 一次扇出调用的汇总，Hosts 保留每台主机的结果
type Result struct {
	Primitive string                       `json:"primitive"`
	Hosts     map[string]model.HostOutcome `json:"hosts"`
}

// FailedHosts 按主机名排序
func (r *Result) FailedHosts() []string {
	var failed []string
	for host, o := range r.Hosts {
		if !o.Success {
			failed = append(failed, host)
		}
	}
	sort.Strings(failed)
	return failed
}

func (r *Result) Failed() bool {
	return len(r.FailedHosts()) > 0
}

// Err 任一主机失败时返回 *RemoteError
func (r *Result) Err() error {
	if !r.Failed() {
		return nil
	}
	return &RemoteError{Primitive: r.Primitive, Hosts: r.Hosts}
}

// RemoteError 一台或多台主机执行失败
type RemoteError struct {
	Primitive string
	Hosts     map[string]model.HostOutcome
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed on", e.Primitive)
	failed := (&Result{Hosts: e.Hosts}).FailedHosts()
	for i, host := range failed {
		if i > 0 {
			b.WriteString(",")
		}
		o := e.Hosts[host]
		fmt.Fprintf(&b, " %s (exit %d", host, o.ExitStatus)
		if o.Error != "" {
			fmt.Fprintf(&b, ": %s", o.Error)
		}
		b.WriteString(")")
	}
	return b.String()
}
