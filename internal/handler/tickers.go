package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"stock-predictor-backend/internal/marketdata"
)

var quoteCacheTTL = 10 * time.Minute

// SetQuoteCacheTTL 配置推荐列表缓存时间
func SetQuoteCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		quoteCacheTTL = ttl
	}
}

// GetTickers 推荐股票列表，按最新价排序
func GetTickers(c *gin.Context) {
	order := c.DefaultQuery("order", "asc")
	if order != "asc" && order != "desc" {
		order = "asc"
	}

	quotes, fromCache := marketdata.FetchTickerQuotes(marketdata.DefaultTickers, order, quoteCacheTTL)
	if len(quotes) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "获取推荐股票报价失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      quotes,
		"fromCache": fromCache,
	})
}

// TickerHint 根据输入的代码给提示文案
func TickerHint(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	switch {
	case s == "AAPL":
		return "Apple Inc. (AAPL) 是成交最活跃的美股之一。"
	case s == "TSLA":
		return "Tesla, Inc. (TSLA) 波动剧烈，预测结果可能很不稳定。"
	case strings.HasSuffix(s, ".NS"):
		return "检测到NSE印度股票代码，预测价格将换算为卢比。"
	default:
		return "请输入有效代码（如 MSFT、GOOG 或 RELIANCE.NS）。"
	}
}

// GetTickerHint 代码提示
func GetTickerHint(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hint": TickerHint(c.Query("symbol")),
	})
}
