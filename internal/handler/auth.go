package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"stock-predictor-backend/internal/store"
)

// AuthRequest 注册/登录请求
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var tokenSecret = "stock-predictor-secret-key"

var userStore *store.UserStore

func init() {
	// 从环境变量读取密钥
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		tokenSecret = secret
	}
}

// SetUserStore 注入用户存储
func SetUserStore(s *store.UserStore) {
	userStore = s
}

func sign(payload string) string {
	h := hmac.New(sha256.New, []byte(tokenSecret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// generateToken 生成会话token: username.timestamp.signature
func generateToken(username string) string {
	payload := username + "." + strconv.FormatInt(time.Now().Unix(), 10)
	return payload + "." + sign(payload)
}

// ParseToken 校验token并取出用户名
// 用户名本身可以带点号，所以从右往左拆
func ParseToken(token string) (string, bool) {
	sigIdx := strings.LastIndex(token, ".")
	if sigIdx <= 0 {
		return "", false
	}
	payload, signature := token[:sigIdx], token[sigIdx+1:]

	tsIdx := strings.LastIndex(payload, ".")
	if tsIdx <= 0 {
		return "", false
	}
	username, timestamp := payload[:tsIdx], payload[tsIdx+1:]

	// 验证签名
	if !hmac.Equal([]byte(signature), []byte(sign(payload))) {
		return "", false
	}

	// 验证是否过期（7天有效期）
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return "", false
	}
	if time.Now().Unix()-ts > 7*24*3600 {
		return "", false
	}

	return username, true
}

// Signup 注册
func Signup(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误: " + err.Error(),
		})
		return
	}

	if err := userStore.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "用户名已存在，请换一个",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "注册成功，请登录",
	})
}

// Login 登录，成功后返回会话token
func Login(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误: " + err.Error(),
		})
		return
	}

	ok, err := userStore.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "用户名或密码错误",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"username": req.Username,
		"token":    generateToken(req.Username),
	})
}

// Profile 当前登录用户信息
func Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": c.GetString("username"),
	})
}

// AuthMiddleware 认证中间件，校验通过后把用户名放进请求上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 Header 获取 token
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "未授权访问",
			})
			c.Abort()
			return
		}

		// 去掉 Bearer 前缀
		token = strings.TrimPrefix(token, "Bearer ")

		username, ok := ParseToken(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "token无效或已过期",
			})
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
