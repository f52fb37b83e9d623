package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoData 无效代码或行情接口返回空数据
var ErrNoData = errors.New("无数据")

// ErrRateUnavailable 汇率获取失败
var ErrRateUnavailable = errors.New("汇率不可用")

// PricePoint 单日收盘价
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// HTTPClient HTTP客户端
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// 主备行情域名，主站失败后切换备用站
var chartHosts = []string{
	"https://query1.finance.yahoo.com",
	"https://query2.finance.yahoo.com",
}

// chartResponse 雅虎行情chart接口响应
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory 获取最近 years 年的日线收盘价
func FetchHistory(ticker string, years int) ([]PricePoint, error) {
	if years <= 0 {
		return nil, fmt.Errorf("%w: 年数必须大于0", ErrNoData)
	}

	now := time.Now()
	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("period1", fmt.Sprintf("%d", now.AddDate(-years, 0, 0).Unix()))
	query.Set("period2", fmt.Sprintf("%d", now.Unix()))

	points, err := fetchChart(ticker, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s 无历史行情", ErrNoData, ticker)
	}
	return points, nil
}

// FetchFXRate 获取货币对最新汇率（如 USDINR=X）
func FetchFXRate(pair string) (float64, error) {
	rate, err := FetchLatestClose(pair)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrRateUnavailable, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: %s 报价非法", ErrRateUnavailable, pair)
	}
	return rate, nil
}

// FetchLatestClose 获取最新收盘价
func FetchLatestClose(symbol string) (float64, error) {
	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("range", "5d")

	points, err := fetchChart(symbol, query)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("%s 无最新报价", symbol)
	}
	return points[len(points)-1].Close, nil
}

// fetchChart 依次尝试主备域名拉取行情
func fetchChart(symbol string, query url.Values) ([]PricePoint, error) {
	var lastErr error
	for _, host := range chartHosts {
		points, err := fetchChartFromHost(host, symbol, query)
		if err == nil {
			return points, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func fetchChartFromHost(host, symbol string, query url.Values) ([]PricePoint, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", host, url.PathEscape(symbol), query.Encode())

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求行情接口失败: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("行情接口状态码 %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("解析响应失败: %v", err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("行情接口错误: %s %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s 响应无结果", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s 响应无报价", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	if len(result.Timestamp) != len(closes) {
		return nil, fmt.Errorf("%s 时间戳与收盘价长度不一致", symbol)
	}

	var points []PricePoint
	for i, ts := range result.Timestamp {
		// 停牌日收盘价为 null，跳过
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		points = append(points, PricePoint{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *closes[i],
		})
	}

	return points, nil
}
