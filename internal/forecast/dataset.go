package forecast

import "fmt"

// WindowSize 模型输入窗口长度（60个交易日）
const WindowSize = 60

// TrainSize 训练分区长度，固定取序列前80%
func TrainSize(n int) int {
	return int(float64(n) * 0.8)
}

// BuildTrainingSet 在训练分区上滑窗，产出窗口和下一步标签
// 窗口数为 TrainSize(n)-WindowSize，不足时训练不可行
func BuildTrainingSet(scaled []float64) ([][]float64, []float64, error) {
	trainSize := TrainSize(len(scaled))
	if trainSize-WindowSize <= 0 {
		return nil, nil, fmt.Errorf("历史数据不足: 训练分区 %d 天，至少需要 %d 天", trainSize, WindowSize+1)
	}

	train := scaled[:trainSize]
	windows := make([][]float64, 0, trainSize-WindowSize)
	labels := make([]float64, 0, trainSize-WindowSize)
	for i := WindowSize; i < len(train); i++ {
		windows = append(windows, train[i-WindowSize:i])
		labels = append(labels, train[i])
	}
	return windows, labels, nil
}

// BuildEvalWindows 在评估分区上滑窗，向前借 WindowSize 步训练数据做上下文
// 产出窗口数等于评估分区长度
func BuildEvalWindows(scaled []float64) ([][]float64, error) {
	trainSize := TrainSize(len(scaled))
	if trainSize < WindowSize {
		return nil, fmt.Errorf("历史数据不足: 训练分区 %d 天，评估窗口需要 %d 天上下文", trainSize, WindowSize)
	}
	test := scaled[trainSize-WindowSize:]

	windows := make([][]float64, 0, len(test)-WindowSize)
	for i := WindowSize; i < len(test); i++ {
		windows = append(windows, test[i-WindowSize:i])
	}
	return windows, nil
}
