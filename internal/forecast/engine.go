package forecast

import (
	"fmt"
	"log"

	"stock-predictor-backend/internal/marketdata"
	"stock-predictor-backend/internal/model"
)

// Gateway 行情网关，预测引擎唯一的外部依赖
type Gateway interface {
	FetchHistory(ticker string, years int) ([]marketdata.PricePoint, error)
	FetchFXRate(pair string) (float64, error)
}

// YahooGateway 默认网关实现，直连行情接口
type YahooGateway struct{}

func (YahooGateway) FetchHistory(ticker string, years int) ([]marketdata.PricePoint, error) {
	return marketdata.FetchHistory(ticker, years)
}

func (YahooGateway) FetchFXRate(pair string) (float64, error) {
	return marketdata.FetchFXRate(pair)
}

// Engine 预测引擎，状态机式线性流水线，请求级别无共享状态
type Engine struct {
	gateway  Gateway
	cfg      ModelConfig
	fxPair   string
	currency string
}

// NewEngine 构造引擎
func NewEngine(gateway Gateway, fxPair, currency string) *Engine {
	return &Engine{
		gateway:  gateway,
		cfg:      DefaultModelConfig(),
		fxPair:   fxPair,
		currency: currency,
	}
}

// SetModelConfig 覆盖默认超参数
func (e *Engine) SetModelConfig(cfg ModelConfig) {
	e.cfg = cfg
}

// Run 执行完整预测流水线
// 拉历史 -> 拉汇率 -> 归一化 -> 切分 -> 滑窗 -> 训练 -> 推理 -> 反归一化 -> 换算 -> 建议
func (e *Engine) Run(ticker string, years int) (*model.PredictResult, error) {
	points, err := e.gateway.FetchHistory(ticker, years)
	if err != nil {
		return nil, err
	}

	rate, err := e.gateway.FetchFXRate(e.fxPair)
	if err != nil {
		return nil, err
	}

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	scaler, err := FitScaler(closes)
	if err != nil {
		return nil, err
	}
	scaled := scaler.Transform(closes)

	trainWindows, labels, err := BuildTrainingSet(scaled)
	if err != nil {
		return nil, err
	}

	log.Printf("开始训练 %s: %d 个训练窗口, 隐藏单元 %d, 轮数 %d", ticker, len(trainWindows), e.cfg.HiddenSize, e.cfg.Epochs)
	net := NewModel(e.cfg)
	net.Fit(trainWindows, labels)

	evalWindows, err := BuildEvalWindows(scaled)
	if err != nil {
		return nil, err
	}
	predicted := scaler.Inverse(net.PredictSeries(evalWindows))

	trainSize := TrainSize(len(closes))
	actual := closes[trainSize:]
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("序列对齐异常: 实际 %d, 预测 %d", len(actual), len(predicted))
	}

	actualConv := Convert(actual, rate)
	predictedConv := Convert(predicted, rate)

	dates := make([]string, 0, len(actual))
	for _, p := range points[trainSize:] {
		dates = append(dates, p.Date)
	}

	lastActual := actualConv[len(actualConv)-1]
	lastPredicted := predictedConv[len(predictedConv)-1]

	return &model.PredictResult{
		Ticker:         ticker,
		Currency:       e.currency,
		Rate:           rate,
		Dates:          dates,
		Actual:         actualConv,
		Predicted:      predictedConv,
		LastActual:     lastActual,
		LastPredicted:  lastPredicted,
		Recommendation: string(Recommend(lastActual, lastPredicted)),
	}, nil
}
