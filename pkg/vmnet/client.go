package vmnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client 访问宿主机上的 vmnet 配置代理。
// 代理负责改写 VMware 的 vmnetdhcp.conf / vmnetnat.conf 并重启 NAT 服务，
// 这些文件只能在宿主机本地修改，因此通过 HTTP 边车暴露出来。
type Client struct {
	baseUrl    *url.URL
	httpClient *http.Client
	Token      string // 共享密钥（Header: X-Api-Token）
}

// Reservation MAC 到固定 IP 的 DHCP 绑定
type Reservation struct {
	VMName string `json:"vm_name"`
	MAC    string `json:"mac"`
	IP     string `json:"ip"`
}

// PortForward NAT 端口转发规则（宿主机端口到客户机端口）
type PortForward struct {
	Protocol    string `json:"protocol"` // tcp / udp
	HostPort    int    `json:"host_port"`
	GuestIP     string `json:"guest_ip"`
	GuestPort   int    `json:"guest_port"`
	Description string `json:"description,omitempty"`
}

func NewClient(apiURL, token string) (*Client, error) {
	baseUrl, err := url.Parse(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Token: token,
	}, nil
}

func (c *Client) request(ctx context.Context, method, path string, body, result interface{}) error {
	endpoint := c.baseUrl.JoinPath(path).String()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Token", c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("vmnet agent error (status %d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("vmnet agent error (status %d): %s", resp.StatusCode, string(raw))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Ping 验证代理可达（用于启动自检）
// GET /ping
func (c *Client) Ping(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/ping", nil, nil)
}

// Reserve 写入一条 DHCP 固定绑定，同名 MAC 的旧绑定会被替换
// POST /reservations
func (c *Client) Reserve(ctx context.Context, vmName, mac, ip string) error {
	return c.request(ctx, http.MethodPost, "/reservations", Reservation{
		VMName: vmName,
		MAC:    mac,
		IP:     ip,
	}, nil)
}

// ListReservations 列出当前全部 DHCP 绑定
// GET /reservations
func (c *Client) ListReservations(ctx context.Context) ([]Reservation, error) {
	var result []Reservation
	if err := c.request(ctx, http.MethodGet, "/reservations", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AddForward 新增或替换一条端口转发（同协议同宿主机端口的旧规则被覆盖）
// POST /forwards
func (c *Client) AddForward(ctx context.Context, rule PortForward) error {
	return c.request(ctx, http.MethodPost, "/forwards", rule, nil)
}

// DeleteForward 删除一条端口转发
// DELETE /forwards/{protocol}/{hostPort}
func (c *Client) DeleteForward(ctx context.Context, protocol string, hostPort int) error {
	path := fmt.Sprintf("/forwards/%s/%d", url.PathEscape(protocol), hostPort)
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}
