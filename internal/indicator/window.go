package indicator

import "math"

// window는 고정 크기 슬라이딩 윈도우 누적기입니다.
// 합계를 증분으로 유지하고, NaN이 윈도우 안에 있는 동안은 mean/variance가 NaN입니다.
type window struct {
	buf   []float64
	start int
	n     int
	sum   float64
	nans  int
	nz    int // 0이 아닌 유한값 개수
}

func newWindow(size int) *window {
	return &window{buf: make([]float64, size)}
}

// push는 값을 추가하고 윈도우가 가득 찬 경우 가장 오래된 값을 밀어냅니다
func (w *window) push(v float64) {
	size := len(w.buf)
	if w.n < size {
		w.buf[(w.start+w.n)%size] = v
		w.n++
		w.add(v)
		return
	}

	w.remove(w.buf[w.start])
	w.buf[w.start] = v
	w.add(v)
	w.start = (w.start + 1) % size

	// 한 바퀴마다 합계를 다시 계산해서 부동소수점 누적 오차를 끊는다
	if w.start == 0 {
		w.resync()
	}
}

func (w *window) add(v float64) {
	if math.IsNaN(v) {
		w.nans++
		return
	}
	if v != 0 {
		w.nz++
		w.sum += v
	}
}

func (w *window) remove(v float64) {
	if math.IsNaN(v) {
		w.nans--
		return
	}
	if v != 0 {
		w.nz--
		w.sum -= v
		// 남은 값이 모두 0이면 잔여 오차 없이 정확히 0
		if w.nz == 0 {
			w.sum = 0
		}
	}
}

func (w *window) resync() {
	w.sum, w.nans, w.nz = 0, 0, 0
	for _, v := range w.buf[:w.n] {
		w.add(v)
	}
}

func (w *window) full() bool {
	return w.n == len(w.buf)
}

func (w *window) mean() float64 {
	if !w.full() || w.nans > 0 {
		return math.NaN()
	}
	return w.sum / float64(w.n)
}

// variance는 모분산(분모 = 윈도우 크기)을 반환합니다
func (w *window) variance() float64 {
	m := w.mean()
	if math.IsNaN(m) {
		return m
	}
	acc := 0.0
	for _, v := range w.buf {
		d := v - m
		acc += d * d
	}
	return acc / float64(w.n)
}
