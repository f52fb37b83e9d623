package marketdata

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestFetchTickerQuotes(t *testing.T) {
	SetCacheProvider(NewMemoryCacheProvider())

	withTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		price := "10.0"
		switch {
		case strings.Contains(r.URL.Path, "BBB"):
			price = "30.0"
		case strings.Contains(r.URL.Path, "CCC"):
			price = "20.0"
		}
		fmt.Fprint(w, chartBody([]int64{1735689600}, []string{price}))
	}))

	tickers := []string{"AAA", "BBB", "CCC"}

	quotes, fromCache := FetchTickerQuotes(tickers, "asc", time.Minute)
	if fromCache {
		t.Fatal("首次拉取不应命中缓存")
	}
	if len(quotes) != 3 {
		t.Fatalf("报价数 %d, 期望 3", len(quotes))
	}
	if quotes[0].Price != 10 || quotes[1].Price != 20 || quotes[2].Price != 30 {
		t.Fatalf("升序排序错误: %+v", quotes)
	}

	// 第二次走缓存，降序
	quotes, fromCache = FetchTickerQuotes(tickers, "desc", time.Minute)
	if !fromCache {
		t.Fatal("第二次应命中缓存")
	}
	if quotes[0].Price != 30 || quotes[2].Price != 10 {
		t.Fatalf("降序排序错误: %+v", quotes)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	p := NewMemoryCacheProvider()

	if err := p.Set("k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got string
	if err := p.Get("k", &got); err != nil || got != "v" {
		t.Fatalf("立即读取失败: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if err := p.Get("k", &got); err == nil {
		t.Fatal("过期后读取应失败")
	}
}
