package model

// PredictRequest 预测请求
type PredictRequest struct {
	Ticker string `json:"ticker" binding:"required"`
	Years  int    `json:"years" binding:"required"` // 历史年数 1-10
}

// PredictResult 预测结果：换算后的对齐序列和操作建议
type PredictResult struct {
	Ticker         string    `json:"ticker"`
	Currency       string    `json:"currency"`       // 目标货币符号
	Rate           float64   `json:"rate"`           // 本次使用的汇率
	Dates          []string  `json:"dates"`          // 评估分区日期
	Actual         []float64 `json:"actual"`         // 实际收盘价（已换算）
	Predicted      []float64 `json:"predicted"`      // 预测收盘价（已换算）
	LastActual     float64   `json:"last_actual"`
	LastPredicted  float64   `json:"last_predicted"`
	Recommendation string    `json:"recommendation"` // BUY, SELL, HOLD
}
