package forecast

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderComparisonPNG 把实际/预测两条序列画成对比图，返回PNG字节
func RenderComparisonPNG(actual, predicted []float64, currency string) ([]byte, error) {
	if len(actual) == 0 || len(predicted) == 0 {
		return nil, fmt.Errorf("序列为空，无法绘图")
	}

	xsActual := make([]float64, len(actual))
	for i := range xsActual {
		xsActual[i] = float64(i)
	}
	xsPred := make([]float64, len(predicted))
	for i := range xsPred {
		xsPred[i] = float64(i)
	}

	graph := chart.Chart{
		Width:  1000,
		Height: 500,
		XAxis:  chart.XAxis{Name: "Time"},
		YAxis:  chart.YAxis{Name: fmt.Sprintf("Price (%s)", currency)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Actual Price (%s)", currency),
				XValues: xsActual,
				YValues: actual,
				Style:   chart.Style{StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Predicted Price (%s)", currency),
				XValues: xsPred,
				YValues: predicted,
				Style:   chart.Style{StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("渲染对比图失败: %w", err)
	}
	return buf.Bytes(), nil
}
