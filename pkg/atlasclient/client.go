package atlasclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client 访问其他环境的 Atlas API（导入 code 定义、下载备份元数据）
type Client struct {
	baseUrl    *url.URL
	httpClient *http.Client
	Token      string // 对端签发的 API Token，为空时不携带 Authorization
	User       string // 写入 X-Atlas-User，对端记录操作人
}

func NewClient(apiURL, token, user string, insecureSkipVerify bool) (*Client, error) {
	baseUrl, err := url.Parse(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify},
			},
		},
		Token: token,
		User:  user,
	}, nil
}

// envelope 与 api/v1.Response 结构一致
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) Request(ctx context.Context, req *http.Request, result interface{}) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.User != "" {
		req.Header.Set("X-Atlas-User", c.User)
	}

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if resp.StatusCode >= 400 {
		// 尝试解析错误详情
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			return fmt.Errorf("atlas API error (status %d, code %d): %s", resp.StatusCode, env.Code, env.Message)
		}
		return fmt.Errorf("atlas API error (status %d): %s", resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.Unmarshal(body, &env); err != nil {
			return err
		}
		if len(env.Data) > 0 && string(env.Data) != "null" {
			return json.Unmarshal(env.Data, result)
		}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	u := c.baseUrl.JoinPath("/api/v1", path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	return c.Request(ctx, req, result)
}

func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	endpoint := c.baseUrl.JoinPath("/api/v1", path).String()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.Request(ctx, req, result)
}

// Code 对端 code 记录中导入需要的字段
type Code struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	CodeType   string   `json:"code_type"`
	Label      string   `json:"label"`
	IsCurrent  bool     `json:"is_current"`
	Tag        []string `json:"tag"`
	GitURL     string   `json:"git_url"`
	CommitHash string   `json:"commit_hash"`
}

type codePage struct {
	Total int64   `json:"total"`
	List  []*Code `json:"list"`
}

// ListCode 分页拉取对端全部 code 记录
func (c *Client) ListCode(ctx context.Context) ([]*Code, error) {
	const pageSize = 500
	var all []*Code
	for page := 1; ; page++ {
		var p codePage
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("page_size", fmt.Sprint(pageSize))
		if err := c.Get(ctx, "/code", q, &p); err != nil {
			return nil, err
		}
		all = append(all, p.List...)
		if len(p.List) < pageSize || int64(len(all)) >= p.Total {
			return all, nil
		}
	}
}

// Backup 对端备份记录
type Backup struct {
	ID         int64  `json:"id"`
	InstanceID int64  `json:"instance_id"`
	BackupType string `json:"backup_type"`
	State      string `json:"state"`
	Database   string `json:"database"`
	Files      string `json:"files"`
}

func (c *Client) GetBackup(ctx context.Context, id int64) (*Backup, error) {
	var b Backup
	if err := c.Get(ctx, fmt.Sprintf("/backups/%d", id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
