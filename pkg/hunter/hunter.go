package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Relapt23/Refferal-system/config"
	"github.com/Relapt23/Refferal-system/internal/model"
)

// Client hunter.io email-verifier 客户端
//
// 第三方校验属于注册流程的可选增强：请求失败或返回异常状态码时
// 降级为空数据，不阻塞注册。
type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewClient 创建 hunter.io 客户端
func NewClient(cfg *config.HunterConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// verifierResponse hunter.io 响应外层结构
type verifierResponse struct {
	Data model.JSONMap `json:"data"`
}

// VerifyEmail 调用 email-verifier 接口，返回 data 字段内容。
// 任何失败（网络、超时、非 200、解析错误）均返回空 map。
func (c *Client) VerifyEmail(ctx context.Context, email string) model.JSONMap {
	q := url.Values{}
	q.Set("email", email)
	q.Set("api_key", c.apiKey)
	endpoint := fmt.Sprintf("%s/v2/email-verifier?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("构造 hunter.io 请求失败", zap.Error(err))
		return model.JSONMap{}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("hunter.io 请求失败", zap.String("email", email), zap.Error(err))
		return model.JSONMap{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("hunter.io 返回异常状态码",
			zap.String("email", email),
			zap.Int("status", resp.StatusCode),
		)
		return model.JSONMap{}
	}

	var body verifierResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("解析 hunter.io 响应失败", zap.Error(err))
		return model.JSONMap{}
	}
	if body.Data == nil {
		return model.JSONMap{}
	}
	return body.Data
}
