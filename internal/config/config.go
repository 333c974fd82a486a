// 包 config 负责加载与校验应用配置（settings.yaml），
// 对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 仅保留当前需要的字段，避免过度设计（KISS/YAGNI）。
type Config struct {
	TrackingURL     string   `yaml:"TRACKING_URL"`      // 在架列表页地址
	BaseURL         string   `yaml:"BASE_URL"`          // 详情/图片相对路径的拼接前缀
	FetchTimeout    int      `yaml:"FETCH_TIMEOUT"`     // 单次请求超时（秒）
	FetchAttempts   int      `yaml:"FETCH_ATTEMPTS"`    // 总尝试次数
	FetchRetryDelay int      `yaml:"FETCH_RETRY_DELAY"` // 相邻尝试间隔（秒）
	Database        Database `yaml:"DATABASE"`
	LogLevel        string   `yaml:"LOG_LEVEL"`
	LogFormat       string   `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale       string   `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor        string   `yaml:"LOG_COLOR"`  // auto|always|never
}

type Database struct {
	Dir  string `yaml:"dir"`  // 数据库目录
	Name string `yaml:"name"` // 数据库文件名
}

func Load(path string) (*Config, error) {
	// Load 从文件读取 YAML 并反序列化为 Config，同时进行基础校验与默认值填充。
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
	if c.TrackingURL == "" {
		return errors.New("TRACKING_URL is required")
	}
	if c.FetchTimeout < 0 {
		return errors.New("FETCH_TIMEOUT must be >= 0")
	}
	if c.FetchRetryDelay < 0 {
		return errors.New("FETCH_RETRY_DELAY must be >= 0")
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10
	}
	if c.FetchAttempts == 0 {
		c.FetchAttempts = 3
	}
	if c.FetchAttempts < 1 {
		return errors.New("FETCH_ATTEMPTS must be >= 1")
	}
	if c.FetchRetryDelay == 0 {
		c.FetchRetryDelay = 5
	}
	if c.Database.Dir == "" {
		c.Database.Dir = "."
	}
	if c.Database.Name == "" {
		c.Database.Name = "cats.db"
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

// Timeout 返回单次请求超时时长。
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// RetryDelay 返回相邻两次抓取之间的等待时长。
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.FetchRetryDelay) * time.Second
}
