package sharetribe

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/blues/ams/internal/config"
	"github.com/tidwall/gjson"
)

// ErrUserNotFound 外部平台查无此用户
var ErrUserNotFound = errors.New("sharetribe: user not found")

// Client ShareTribe Integration API 客户端
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	queryLimit   int

	// 访问令牌缓存
	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// User 外部平台用户
type User struct {
	ID            string
	Email         string
	EmailVerified bool
	DisplayName   string
	Banned        bool
	CreatedAt     time.Time
}

func Init(cfg config.ShareTribeConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("sharetribe client id and secret are required")
	}

	queryLimit := cfg.QueryLimit
	if queryLimit <= 0 {
		queryLimit = 1000
	}

	return &Client{
		httpClient:   &http.Client{Timeout: time.Second * 30},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		queryLimit:   queryLimit,
	}, nil
}

// getToken 获取访问令牌，有效期内复用缓存
func (c *Client) getToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("scope", "integ")

	resp, err := c.httpClient.PostForm(c.baseURL+"/v1/auth/token", form)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	expiresIn := gjson.GetBytes(body, "expires_in").Int()
	if expiresIn <= 0 {
		expiresIn = 300
	}

	c.accessToken = token
	// 提前一分钟过期，避免临界请求失败
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn-60) * time.Second)

	return c.accessToken, nil
}

// get 带认证的GET请求
func (c *Client) get(path string, query url.Values) ([]byte, int, error) {
	token, err := c.getToken()
	if err != nil {
		return nil, 0, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	return body, resp.StatusCode, nil
}

// parseUser 解析用户资源
func parseUser(data gjson.Result) User {
	createdAt, _ := time.Parse(time.RFC3339, data.Get("attributes.createdAt").String())
	return User{
		ID:            data.Get("id.uuid").String(),
		Email:         strings.ToLower(data.Get("attributes.email").String()),
		EmailVerified: data.Get("attributes.emailVerified").Bool(),
		DisplayName:   data.Get("attributes.profile.displayName").String(),
		Banned:        data.Get("attributes.banned").Bool(),
		CreatedAt:     createdAt,
	}
}

// QueryUsers 拉取用户目录，按配置上限分页获取
func (c *Client) QueryUsers() ([]User, error) {
	var users []User
	page := 1
	perPage := 100

	for len(users) < c.queryLimit {
		query := url.Values{}
		query.Set("perPage", fmt.Sprintf("%d", perPage))
		query.Set("page", fmt.Sprintf("%d", page))

		body, status, err := c.get("/v1/integration_api/users/query", query)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("users query failed with status %d", status)
		}

		data := gjson.GetBytes(body, "data")
		if !data.IsArray() || len(data.Array()) == 0 {
			break
		}
		for _, item := range data.Array() {
			users = append(users, parseUser(item))
			if len(users) >= c.queryLimit {
				break
			}
		}

		totalPages := gjson.GetBytes(body, "meta.totalPages").Int()
		if int64(page) >= totalPages {
			break
		}
		page++
	}

	return users, nil
}

// ShowUserByEmail 按邮箱查询用户
func (c *Client) ShowUserByEmail(email string) (*User, error) {
	query := url.Values{}
	query.Set("email", strings.ToLower(strings.TrimSpace(email)))

	body, status, err := c.get("/v1/integration_api/users/show", query)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("user show failed with status %d", status)
	}

	user := parseUser(gjson.GetBytes(body, "data"))
	return &user, nil
}

// ShowUser 按ID查询用户
func (c *Client) ShowUser(id string) (*User, error) {
	query := url.Values{}
	query.Set("id", id)

	body, status, err := c.get("/v1/integration_api/users/show", query)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("user show failed with status %d", status)
	}

	user := parseUser(gjson.GetBytes(body, "data"))
	return &user, nil
}

// CountListingsByAuthor 统计用户发布的列表数
func (c *Client) CountListingsByAuthor(userID string) (int, error) {
	query := url.Values{}
	query.Set("authorId", userID)
	query.Set("perPage", "1")

	body, status, err := c.get("/v1/integration_api/listings/query", query)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("listings query failed with status %d", status)
	}

	return int(gjson.GetBytes(body, "meta.totalItems").Int()), nil
}

// QueryTransactionsByParticipant 统计用户参与的交易数与成交总额。
// Integration API 不支持按参与者过滤，需在客户端逐条比对。
func (c *Client) QueryTransactionsByParticipant(userID string) (int, float64, error) {
	query := url.Values{}
	query.Set("perPage", "100")

	body, status, err := c.get("/v1/integration_api/transactions/query", query)
	if err != nil {
		return 0, 0, err
	}
	if status != http.StatusOK {
		return 0, 0, fmt.Errorf("transactions query failed with status %d", status)
	}

	count := 0
	revenue := float64(0)
	for _, txn := range gjson.GetBytes(body, "data").Array() {
		customer := txn.Get("relationships.customer.data.id.uuid").String()
		provider := txn.Get("relationships.provider.data.id.uuid").String()
		if customer != userID && provider != userID {
			continue
		}
		count++
		// payinTotal 以最小货币单位计
		revenue += txn.Get("attributes.payinTotal.amount").Float() / 100
	}

	return count, revenue, nil
}

// ShowMarketplace 查询市场信息，用于连通性检测
func (c *Client) ShowMarketplace() (string, error) {
	body, status, err := c.get("/v1/integration_api/marketplace/show", nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("marketplace show failed with status %d", status)
	}

	return gjson.GetBytes(body, "data.attributes.name").String(), nil
}
