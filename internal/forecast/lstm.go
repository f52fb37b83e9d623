package forecast

import (
	"log"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ModelConfig 模型超参数，默认值对齐原始设计（两层LSTM 50单元，5轮，batch 64）
type ModelConfig struct {
	HiddenSize int
	Epochs     int
	BatchSize  int
	LearnRate  float64
	Seed       int64 // 权重初始化种子，固定种子保证同一序列预测可复现
}

// DefaultModelConfig 默认超参数
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		HiddenSize: 50,
		Epochs:     5,
		BatchSize:  64,
		LearnRate:  0.001,
		Seed:       42,
	}
}

// 门顺序：输入门 遗忘门 候选态 输出门
const numGates = 4

// param 单个可训练参数及其Adam状态
type param struct {
	val  *mat.Dense
	grad *mat.Dense
	m    *mat.Dense
	v    *mat.Dense
}

func newParam(rows, cols int, data []float64) *param {
	if data == nil {
		data = make([]float64, rows*cols)
	}
	return &param{
		val:  mat.NewDense(rows, cols, data),
		grad: mat.NewDense(rows, cols, nil),
		m:    mat.NewDense(rows, cols, nil),
		v:    mat.NewDense(rows, cols, nil),
	}
}

// raw 取底层数据切片，本包所有Dense都是连续存储
func raw(d *mat.Dense) []float64 {
	return d.RawMatrix().Data
}

func applySigmoid(d *mat.Dense) {
	data := raw(d)
	for i, v := range data {
		data[i] = 1 / (1 + math.Exp(-v))
	}
}

func applyTanh(d *mat.Dense) {
	data := raw(d)
	for i, v := range data {
		data[i] = math.Tanh(v)
	}
}

// glorot Glorot均匀初始化
func glorot(fanOut, fanIn int, rng *rand.Rand) []float64 {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	data := make([]float64, fanOut*fanIn)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return data
}

// lstmCell 单层LSTM
type lstmCell struct {
	inSize int
	hidden int
	wx     [numGates]*param // hidden x inSize
	wh     [numGates]*param // hidden x hidden
	b      [numGates]*param // hidden x 1
}

func newLSTMCell(inSize, hidden int, rng *rand.Rand) *lstmCell {
	c := &lstmCell{inSize: inSize, hidden: hidden}
	for g := 0; g < numGates; g++ {
		c.wx[g] = newParam(hidden, inSize, glorot(hidden, inSize, rng))
		c.wh[g] = newParam(hidden, hidden, glorot(hidden, hidden, rng))
		c.b[g] = newParam(hidden, 1, nil)
	}
	// 遗忘门偏置初始化为1，训练初期保留长程记忆
	fb := raw(c.b[1].val)
	for i := range fb {
		fb[i] = 1
	}
	return c
}

// cellState 单步前向的中间量，反向传播时要用
type cellState struct {
	x     *mat.Dense
	hPrev *mat.Dense
	cPrev *mat.Dense
	gate  [numGates]*mat.Dense // 激活后的各门
	c     *mat.Dense
	tanhC *mat.Dense
	h     *mat.Dense
}

// step 单时间步前向
func (l *lstmCell) step(x, hPrev, cPrev *mat.Dense) *cellState {
	st := &cellState{x: x, hPrev: hPrev, cPrev: cPrev}

	for g := 0; g < numGates; g++ {
		var wxx, whh mat.Dense
		wxx.Mul(l.wx[g].val, x)
		whh.Mul(l.wh[g].val, hPrev)

		z := mat.NewDense(l.hidden, 1, nil)
		z.Add(&wxx, &whh)
		z.Add(z, l.b[g].val)
		st.gate[g] = z
	}
	applySigmoid(st.gate[0])
	applySigmoid(st.gate[1])
	applyTanh(st.gate[2])
	applySigmoid(st.gate[3])

	st.c = mat.NewDense(l.hidden, 1, nil)
	cd := raw(st.c)
	id, fd, gd := raw(st.gate[0]), raw(st.gate[1]), raw(st.gate[2])
	cp := raw(cPrev)
	for k := range cd {
		cd[k] = fd[k]*cp[k] + id[k]*gd[k]
	}

	st.tanhC = mat.NewDense(l.hidden, 1, nil)
	st.tanhC.Copy(st.c)
	applyTanh(st.tanhC)

	st.h = mat.NewDense(l.hidden, 1, nil)
	hd, od, td := raw(st.h), raw(st.gate[3]), raw(st.tanhC)
	for k := range hd {
		hd[k] = od[k] * td[k]
	}
	return st
}

// stepBack 单时间步反向，累加权重梯度，返回对输入和前一状态的梯度
func (l *lstmCell) stepBack(st *cellState, dh, dcIn *mat.Dense) (dx, dhPrev, dcPrev *mat.Dense) {
	h := l.hidden
	id, fd, gd, od := raw(st.gate[0]), raw(st.gate[1]), raw(st.gate[2]), raw(st.gate[3])
	tc := raw(st.tanhC)
	cp := raw(st.cPrev)
	dhD, dcD := raw(dh), raw(dcIn)

	var dz [numGates]*mat.Dense
	for g := 0; g < numGates; g++ {
		dz[g] = mat.NewDense(h, 1, nil)
	}
	dzi, dzf, dzg, dzo := raw(dz[0]), raw(dz[1]), raw(dz[2]), raw(dz[3])

	dcPrev = mat.NewDense(h, 1, nil)
	dcp := raw(dcPrev)

	for k := 0; k < h; k++ {
		dc := dcD[k] + dhD[k]*od[k]*(1-tc[k]*tc[k])
		dzo[k] = dhD[k] * tc[k] * od[k] * (1 - od[k])
		dzi[k] = dc * gd[k] * id[k] * (1 - id[k])
		dzf[k] = dc * cp[k] * fd[k] * (1 - fd[k])
		dzg[k] = dc * id[k] * (1 - gd[k]*gd[k])
		dcp[k] = dc * fd[k]
	}

	dx = mat.NewDense(l.inSize, 1, nil)
	dhPrev = mat.NewDense(h, 1, nil)
	for g := 0; g < numGates; g++ {
		var gw, gh mat.Dense
		gw.Mul(dz[g], st.x.T())
		l.wx[g].grad.Add(l.wx[g].grad, &gw)
		gh.Mul(dz[g], st.hPrev.T())
		l.wh[g].grad.Add(l.wh[g].grad, &gh)
		l.b[g].grad.Add(l.b[g].grad, dz[g])

		var tx, th mat.Dense
		tx.Mul(l.wx[g].val.T(), dz[g])
		dx.Add(dx, &tx)
		th.Mul(l.wh[g].val.T(), dz[g])
		dhPrev.Add(dhPrev, &th)
	}
	return dx, dhPrev, dcPrev
}

func (l *lstmCell) params() []*param {
	out := make([]*param, 0, numGates*3)
	for g := 0; g < numGates; g++ {
		out = append(out, l.wx[g], l.wh[g], l.b[g])
	}
	return out
}

// Model 两层堆叠LSTM接一个线性输出单元的回归模型
// 第一层输出完整序列给第二层，第二层只取末状态
type Model struct {
	cfg ModelConfig
	l1  *lstmCell
	l2  *lstmCell
	wd  *param // 1 x hidden
	bd  *param // 1 x 1
	rng *rand.Rand
}

// NewModel 初始化模型权重
func NewModel(cfg ModelConfig) *Model {
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Model{
		cfg: cfg,
		l1:  newLSTMCell(1, cfg.HiddenSize, rng),
		l2:  newLSTMCell(cfg.HiddenSize, cfg.HiddenSize, rng),
		wd:  newParam(1, cfg.HiddenSize, glorot(1, cfg.HiddenSize, rng)),
		bd:  newParam(1, 1, nil),
		rng: rng,
	}
}

// forward 整窗前向，返回预测值和两层各步中间量
func (m *Model) forward(window []float64) (float64, []*cellState, []*cellState) {
	hidden := m.cfg.HiddenSize
	h1, c1 := mat.NewDense(hidden, 1, nil), mat.NewDense(hidden, 1, nil)
	h2, c2 := mat.NewDense(hidden, 1, nil), mat.NewDense(hidden, 1, nil)

	s1 := make([]*cellState, 0, len(window))
	s2 := make([]*cellState, 0, len(window))
	for _, v := range window {
		x := mat.NewDense(1, 1, []float64{v})
		st1 := m.l1.step(x, h1, c1)
		h1, c1 = st1.h, st1.c
		s1 = append(s1, st1)

		st2 := m.l2.step(st1.h, h2, c2)
		h2, c2 = st2.h, st2.c
		s2 = append(s2, st2)
	}

	var y mat.Dense
	y.Mul(m.wd.val, h2)
	pred := y.At(0, 0) + m.bd.val.At(0, 0)
	return pred, s1, s2
}

// backward 单样本BPTT，dy 为损失对预测值的梯度
func (m *Model) backward(dy float64, s1, s2 []*cellState) {
	hidden := m.cfg.HiddenSize
	steps := len(s2)
	hLast := s2[steps-1].h

	// 线性输出层梯度
	var gw mat.Dense
	gw.Mul(mat.NewDense(1, 1, []float64{dy}), hLast.T())
	m.wd.grad.Add(m.wd.grad, &gw)
	raw(m.bd.grad)[0] += dy

	// 第二层只有末步接收输出层梯度
	dh2 := mat.NewDense(hidden, 1, nil)
	dh2d, wdd := raw(dh2), raw(m.wd.val)
	for k := 0; k < hidden; k++ {
		dh2d[k] = dy * wdd[k]
	}
	dc2 := mat.NewDense(hidden, 1, nil)

	// 第一层每步都从第二层收到输入梯度
	dh1carry := mat.NewDense(hidden, 1, nil)
	dc1 := mat.NewDense(hidden, 1, nil)

	for t := steps - 1; t >= 0; t-- {
		dx2, dhPrev2, dcPrev2 := m.l2.stepBack(s2[t], dh2, dc2)
		dh2, dc2 = dhPrev2, dcPrev2

		dh1 := dx2
		dh1.Add(dh1, dh1carry)
		_, dhPrev1, dcPrev1 := m.l1.stepBack(s1[t], dh1, dc1)
		dh1carry, dc1 = dhPrev1, dcPrev1
	}
}

func (m *Model) params() []*param {
	out := append(m.l1.params(), m.l2.params()...)
	return append(out, m.wd, m.bd)
}

func (m *Model) zeroGrads() {
	for _, p := range m.params() {
		p.grad.Zero()
	}
}

// adamStep Adam 更新，t 为全局步数
func (m *Model) adamStep(t int) {
	const (
		beta1 = 0.9
		beta2 = 0.999
		eps   = 1e-7
	)
	bc1 := 1 - math.Pow(beta1, float64(t))
	bc2 := 1 - math.Pow(beta2, float64(t))

	for _, p := range m.params() {
		w, g, mm, vv := raw(p.val), raw(p.grad), raw(p.m), raw(p.v)
		for k := range w {
			mm[k] = beta1*mm[k] + (1-beta1)*g[k]
			vv[k] = beta2*vv[k] + (1-beta2)*g[k]*g[k]
			w[k] -= m.cfg.LearnRate * (mm[k] / bc1) / (math.Sqrt(vv[k]/bc2) + eps)
		}
	}
}

// Fit 固定轮数的小批量训练，MSE损失
func (m *Model) Fit(windows [][]float64, labels []float64) {
	n := len(windows)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	step := 0
	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		m.rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		var lossSum float64
		for start := 0; start < n; start += m.cfg.BatchSize {
			end := min(start+m.cfg.BatchSize, n)
			m.zeroGrads()
			for _, k := range idx[start:end] {
				pred, s1, s2 := m.forward(windows[k])
				diff := pred - labels[k]
				lossSum += diff * diff
				m.backward(2*diff/float64(end-start), s1, s2)
			}
			step++
			m.adamStep(step)
		}
		log.Printf("训练 epoch %d/%d, mse=%.6f", epoch+1, m.cfg.Epochs, lossSum/float64(n))
	}
}

// Predict 单窗口推理
func (m *Model) Predict(window []float64) float64 {
	pred, _, _ := m.forward(window)
	return pred
}

// PredictSeries 批量推理
func (m *Model) PredictSeries(windows [][]float64) []float64 {
	out := make([]float64, len(windows))
	for i, w := range windows {
		out[i] = m.Predict(w)
	}
	return out
}
