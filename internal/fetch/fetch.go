// 包 fetch 封装 HTTP 客户端（超时/有界重试），用于抓取在架列表页。
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"go-cat-alert/internal/logx"
)

// maxBodyBytes 限制列表页正文体积，防御异常响应。
const maxBodyBytes = 4 << 20

// Client 为带重试的 HTTP 客户端，一次构造、整个进程复用。
type Client struct {
	http     *http.Client
	attempts int
	delay    time.Duration
}

// Options 为客户端构造参数。
type Options struct {
	Timeout    time.Duration // 单次请求超时
	Attempts   int           // 总尝试次数（>=1）
	RetryDelay time.Duration // 相邻两次尝试之间的等待
}

// New 创建客户端。
func New(opts Options) *Client {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	cl := &http.Client{Transport: transport, Timeout: opts.Timeout}
	return &Client{http: cl, attempts: opts.Attempts, delay: opts.RetryDelay}
}

// ListingHTML 抓取列表页正文，按配置做有界重试：
// 网络错误与非 2xx 均记为一次失败，失败后等待固定间隔再试，
// 最后一次失败不再等待；全部耗尽时返回最后一次的错误。
// 调用方应把该错误当作"本轮无数据"处理，而非进程级故障。
func (c *Client) ListingHTML(ctx context.Context, url string) (string, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		logx.Warnf("第 %d/%d 次抓取失败：%v", i+1, c.attempts, err)
		if i == c.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.delay):
		}
	}
	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

// get 发起单次请求并读取正文。
func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	// 使用常见浏览器 UA，减少 403/反爬误判；支持环境变量覆盖（CAT_UA）
	ua := os.Getenv("CAT_UA")
	if ua == "" {
		ua = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
	}
	req.Header.Set("User-Agent", ua)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http status: %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}
