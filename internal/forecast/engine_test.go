package forecast

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"stock-predictor-backend/internal/marketdata"
)

// stubGateway 离线网关，返回预置序列和汇率
type stubGateway struct {
	points []marketdata.PricePoint
	rate   float64
	errHistory error
	errRate    error
}

func (g *stubGateway) FetchHistory(ticker string, years int) ([]marketdata.PricePoint, error) {
	if g.errHistory != nil {
		return nil, g.errHistory
	}
	return g.points, nil
}

func (g *stubGateway) FetchFXRate(pair string) (float64, error) {
	if g.errRate != nil {
		return 0, g.errRate
	}
	return g.rate, nil
}

func syntheticPoints(n int) []marketdata.PricePoint {
	points := make([]marketdata.PricePoint, n)
	for i := range points {
		points[i] = marketdata.PricePoint{
			Date:  fmt.Sprintf("2025-%02d-%02d", i/28%12+1, i%28+1),
			Close: 100 + 10*math.Sin(float64(i)/9) + 0.05*float64(i),
		}
	}
	return points
}

func testEngine(gw Gateway) *Engine {
	e := NewEngine(gw, "USDINR=X", "₹")
	e.SetModelConfig(ModelConfig{
		HiddenSize: 4,
		Epochs:     1,
		BatchSize:  32,
		LearnRate:  0.005,
		Seed:       11,
	})
	return e
}

func TestEngineRun(t *testing.T) {
	n := 200
	rate := 83.5
	gw := &stubGateway{points: syntheticPoints(n), rate: rate}

	result, err := testEngine(gw).Run("AAPL", 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	evalLen := n - TrainSize(n)
	if len(result.Actual) != evalLen {
		t.Fatalf("实际序列长度 %d, 期望 %d", len(result.Actual), evalLen)
	}
	if len(result.Predicted) != evalLen {
		t.Fatalf("预测序列长度 %d, 期望 %d", len(result.Predicted), evalLen)
	}
	if len(result.Dates) != evalLen {
		t.Fatalf("日期数 %d, 期望 %d", len(result.Dates), evalLen)
	}

	// 实际序列就是评估分区收盘价乘汇率
	for i, p := range gw.points[TrainSize(n):] {
		if math.Abs(result.Actual[i]-p.Close*rate) > 1e-9 {
			t.Fatalf("实际序列换算错误: actual[%d]=%f, 期望 %f", i, result.Actual[i], p.Close*rate)
		}
	}

	for i, p := range result.Predicted {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("预测值非法: predicted[%d]=%f", i, p)
		}
	}

	switch result.Recommendation {
	case string(ActionBuy), string(ActionSell), string(ActionHold):
	default:
		t.Fatalf("非法建议: %q", result.Recommendation)
	}

	if result.LastActual != result.Actual[evalLen-1] {
		t.Errorf("最新实际价错位")
	}
	if result.LastPredicted != result.Predicted[evalLen-1] {
		t.Errorf("最新预测价错位")
	}
	if result.Rate != rate {
		t.Errorf("汇率未记录: %f", result.Rate)
	}
}

func TestEngineRunNoData(t *testing.T) {
	gw := &stubGateway{errHistory: fmt.Errorf("%w: 测试", marketdata.ErrNoData)}
	if _, err := testEngine(gw).Run("BOGUS", 1); !errors.Is(err, marketdata.ErrNoData) {
		t.Fatalf("期望 ErrNoData, 实际 %v", err)
	}
}

func TestEngineRunRateUnavailable(t *testing.T) {
	gw := &stubGateway{
		points:  syntheticPoints(200),
		errRate: fmt.Errorf("%w: 测试", marketdata.ErrRateUnavailable),
	}
	if _, err := testEngine(gw).Run("AAPL", 1); !errors.Is(err, marketdata.ErrRateUnavailable) {
		t.Fatalf("期望 ErrRateUnavailable, 实际 %v", err)
	}
}

func TestEngineRunShortHistory(t *testing.T) {
	// 训练分区不足61天时必须报错而不是崩溃
	gw := &stubGateway{points: syntheticPoints(70), rate: 80}
	if _, err := testEngine(gw).Run("AAPL", 1); err == nil {
		t.Fatal("数据不足应返回错误")
	}
}
