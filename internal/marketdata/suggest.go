package marketdata

import (
	"log"
	"math"
	"sort"
	"sync"
	"time"
)

// TickerQuote 推荐列表里的单只股票报价
type TickerQuote struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// DefaultTickers 推荐股票池（NIFTY 常见标的）
var DefaultTickers = []string{
	"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "SBIN.NS",
	"ITC.NS", "ICICIBANK.NS", "WIPRO.NS", "POWERGRID.NS", "TATAMOTORS.NS",
}

const suggestCacheKey = "suggest:quotes"

// FetchTickerQuotes 并发拉取股票池最新报价，带TTL缓存
// 返回值第二项表示结果是否来自缓存
func FetchTickerQuotes(tickers []string, order string, ttl time.Duration) ([]TickerQuote, bool) {
	var quotes []TickerQuote
	fromCache := true

	if err := getCacheProvider().Get(suggestCacheKey, &quotes); err != nil || len(quotes) == 0 {
		quotes = fetchQuotes(tickers)
		fromCache = false
		if len(quotes) > 0 {
			if err := getCacheProvider().Set(suggestCacheKey, quotes, ttl); err != nil {
				log.Printf("写入报价缓存失败: %v", err)
			}
		}
	}

	sorted := make([]TickerQuote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		if order == "desc" {
			return sorted[i].Price > sorted[j].Price
		}
		return sorted[i].Price < sorted[j].Price
	})

	return sorted, fromCache
}

// fetchQuotes 并发取报价，单只失败跳过不影响整体
func fetchQuotes(tickers []string) []TickerQuote {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		quotes []TickerQuote
	)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			price, err := FetchLatestClose(symbol)
			if err != nil {
				log.Printf("获取 %s 报价失败: %v", symbol, err)
				return
			}

			mu.Lock()
			quotes = append(quotes, TickerQuote{
				Ticker: symbol,
				Price:  math.Round(price*100) / 100,
			})
			mu.Unlock()
		}(ticker)
	}

	wg.Wait()
	return quotes
}
