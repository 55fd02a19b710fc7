package flow

// EaseFunc maps linear progress in [0,1] onto eased progress in [0,1].
// Every EaseFunc returns 0 for 0 and 1 for 1.
type EaseFunc func(t float64) float64

// Linear progresses at constant speed.
func Linear(t float64) float64 { return t }

// QuadraticIn starts slow and accelerates.
func QuadraticIn(t float64) float64 { return t * t }

// QuadraticOut starts fast and decelerates.
func QuadraticOut(t float64) float64 { return t * (2 - t) }

// QuadraticInOut accelerates until halfway and then decelerates.
func QuadraticInOut(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t
	}
	t--
	return -0.5 * (t*(t-2) - 1)
}

// EaseByName returns the easing function called name. The names are
// "linear", "quadratic-in", "quadratic-out" and "quadratic-in-out".
func EaseByName(name string) (EaseFunc, bool) {
	switch name {
	case "", "linear":
		return Linear, true
	case "quadratic-in":
		return QuadraticIn, true
	case "quadratic-out":
		return QuadraticOut, true
	case "quadratic-in-out":
		return QuadraticInOut, true
	}
	return nil, false
}
