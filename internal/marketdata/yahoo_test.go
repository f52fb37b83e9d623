package marketdata

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// withTestHost 把行情域名指向测试服务器
func withTestHost(t *testing.T, handler http.Handler) {
	t.Helper()
	srv := httptest.NewServer(handler)
	old := chartHosts
	chartHosts = []string{srv.URL}
	t.Cleanup(func() {
		chartHosts = old
		srv.Close()
	})
}

func chartBody(timestamps []int64, closes []string) string {
	ts := ""
	for i, v := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", v)
	}
	cs := ""
	for i, v := range closes {
		if i > 0 {
			cs += ","
		}
		cs += v
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cs)
}

func TestFetchHistory(t *testing.T) {
	withTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 中间一天停牌，收盘价为 null
		fmt.Fprint(w, chartBody(
			[]int64{1735689600, 1735776000, 1735862400, 1735948800},
			[]string{"100.5", "null", "101.25", "102.0"},
		))
	}))

	points, err := FetchHistory("AAPL", 1)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("有效点数 %d, 期望 3（null 跳过）", len(points))
	}
	if points[0].Close != 100.5 || points[0].Date != "2025-01-01" {
		t.Errorf("首点解析错误: %+v", points[0])
	}
	if points[2].Close != 102.0 {
		t.Errorf("末点解析错误: %+v", points[2])
	}
}

func TestFetchHistoryUnknownTicker(t *testing.T) {
	withTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))

	_, err := FetchHistory("BOGUS", 1)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("期望 ErrNoData, 实际 %v", err)
	}
}

func TestFetchHistoryInvalidYears(t *testing.T) {
	if _, err := FetchHistory("AAPL", 0); !errors.Is(err, ErrNoData) {
		t.Fatal("非法年数应返回 ErrNoData")
	}
}

func TestFetchFXRate(t *testing.T) {
	withTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(
			[]int64{1735689600, 1735776000},
			[]string{"83.10", "83.55"},
		))
	}))

	rate, err := FetchFXRate("USDINR=X")
	if err != nil {
		t.Fatalf("FetchFXRate: %v", err)
	}
	if rate != 83.55 {
		t.Fatalf("汇率应取最新收盘 83.55, 实际 %f", rate)
	}
}

func TestFetchFXRateUnavailable(t *testing.T) {
	withTestHost(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))

	_, err := FetchFXRate("USDINR=X")
	if !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("期望 ErrRateUnavailable, 实际 %v", err)
	}
}

func TestFetchChartHostFallback(t *testing.T) {
	// 主站挂了走备用站
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody([]int64{1735689600}, []string{"55.5"}))
	}))
	old := chartHosts
	chartHosts = []string{bad.URL, good.URL}
	t.Cleanup(func() {
		chartHosts = old
		bad.Close()
		good.Close()
	})

	price, err := FetchLatestClose("AAPL")
	if err != nil {
		t.Fatalf("FetchLatestClose: %v", err)
	}
	if price != 55.5 {
		t.Fatalf("备用站报价 %f, 期望 55.5", price)
	}
}
