package interval

// WaitInterval does nothing for its duration. Use it to pad sequences.
type WaitInterval struct {
	name     string
	duration float64
	state    State
}

// Wait returns an interval that idles for duration seconds.
func Wait(duration float64) *WaitInterval {
	return &WaitInterval{name: defaultName("Wait"), duration: max(duration, 0)}
}

func (w *WaitInterval) Name() string      { return w.name }
func (w *WaitInterval) Duration() float64 { return w.duration }
func (w *WaitInterval) State() State      { return w.state }
func (w *WaitInterval) Reset()            { w.state = Initial }

func (w *WaitInterval) SetT(t float64) {
	if clampT(t, w.duration) >= w.duration {
		w.state = Final
	} else {
		w.state = Started
	}
}

// FuncInterval calls a function once when its timeline is reached.
type FuncInterval struct {
	name  string
	fn    func()
	state State
}

// Func returns a zero-duration interval that calls fn once per pass.
func Func(name string, fn func()) *FuncInterval {
	if name == "" {
		name = defaultName("Func")
	}
	return &FuncInterval{name: name, fn: fn}
}

func (f *FuncInterval) Name() string      { return f.name }
func (f *FuncInterval) Duration() float64 { return 0 }
func (f *FuncInterval) State() State      { return f.state }
func (f *FuncInterval) Reset()            { f.state = Initial }

func (f *FuncInterval) SetT(float64) {
	if f.state == Final {
		return
	}
	f.state = Final
	f.fn()
}
