package forecast

import "gonum.org/v1/gonum/floats"

// Action 操作建议
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// 建议阈值带宽 ±2%，落在带内一律 HOLD
const recommendBand = 0.02

// Recommend 比较最新预测价和最新实际价给出建议
// 严格不等式，正好压在带边界上算 HOLD
func Recommend(actual, predicted float64) Action {
	if predicted > actual*(1+recommendBand) {
		return ActionBuy
	}
	if predicted < actual*(1-recommendBand) {
		return ActionSell
	}
	return ActionHold
}

// Convert 按汇率逐元素换算价格序列
func Convert(values []float64, rate float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.Scale(rate, out)
	return out
}
