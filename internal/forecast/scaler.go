package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MinMaxScaler 把序列线性压缩到 [0,1]，保留参数用于反变换
type MinMaxScaler struct {
	Min float64
	Max float64
}

// FitScaler 在整条序列上拟合缩放参数
func FitScaler(values []float64) (*MinMaxScaler, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("序列为空，无法拟合缩放参数")
	}
	return &MinMaxScaler{Min: floats.Min(values), Max: floats.Max(values)}, nil
}

// span 缩放分母，序列为常数时按1处理避免除零
func (s *MinMaxScaler) span() float64 {
	d := s.Max - s.Min
	if d == 0 {
		return 1
	}
	return d
}

// Transform 正变换
func (s *MinMaxScaler) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	d := s.span()
	for i, v := range values {
		out[i] = (v - s.Min) / d
	}
	return out
}

// Inverse 用拟合时的参数把归一化值还原成价格
func (s *MinMaxScaler) Inverse(values []float64) []float64 {
	out := make([]float64, len(values))
	d := s.span()
	for i, v := range values {
		out[i] = v*d + s.Min
	}
	return out
}
