package flow

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestTextureHeight(t *testing.T) {
	for _, test := range []struct {
		length float64
		want   int
	}{
		{0, 8},
		{1, 8},
		{3, 8},
		{4.5, 16},
		{20, 64},
		{64, 128},
		{8192, 16384},
	} {
		got := TextureHeight(test.length)
		if got != test.want {
			t.Errorf("length %g: got height %d, want %d", test.length, got, test.want)
		}
	}
}

func TestNewTexture(t *testing.T) {
	tex, err := NewTexture(20)
	if err != nil {
		t.Fatal(err)
	}
	b := tex.Bounds()
	if b.Dx() != TextureWidth || b.Dy() != 64 {
		t.Fatalf("unexpected bounds %v", b)
	}
	img := tex.Image()
	pulse := 0
	for y := 0; y < b.Dy(); y++ {
		c := img.RGBAAt(0, y)
		if c.A != 255 {
			t.Fatalf("row %d not opaque", y)
		}
		if c.R == 255 {
			pulse++
			if y < 62 {
				t.Errorf("pulse row %d outside last 3%%", y)
			}
		}
	}
	if pulse != 2 {
		t.Errorf("expected 2 pulse rows, got %d", pulse)
	}
}

func TestTextureTooLarge(t *testing.T) {
	_, err := NewTexture(10000)
	if !errors.Is(err, ErrTextureTooLarge) {
		t.Fatalf("expected ErrTextureTooLarge, got %v", err)
	}
	_, err = NewTexture(math.NaN())
	if err == nil {
		t.Fatal("expected error for NaN length")
	}
}

func TestTextureProgress(t *testing.T) {
	tex, err := NewTexture(100)
	if err != nil {
		t.Fatal(err)
	}
	// The pulse sits at the V coordinate equal to the progress.
	for _, p := range []float64{0, 0.25, 0.5, 0.9} {
		tex.SetProgress(p)
		if tex.Intensity(p+0.001) != 1 {
			t.Errorf("progress %g: no pulse at v=%g", p, p)
		}
		if tex.Intensity(p+0.2) != 0 {
			t.Errorf("progress %g: unexpected pulse at v=%g", p, p+0.2)
		}
	}
	tex.SetProgress(1.25)
	if math.Abs(tex.Offset()+0.25) > 1e-12 {
		t.Errorf("progress should wrap, got offset %g", tex.Offset())
	}
	tex.SetProgress(math.Inf(1))
	if math.Abs(tex.Offset()+0.25) > 1e-12 {
		t.Error("non finite progress should be ignored")
	}
}

func TestTextureFrame(t *testing.T) {
	tex, err := NewTexture(100) // 256 rows.
	if err != nil {
		t.Fatal(err)
	}
	h := tex.Bounds().Dy()
	for _, p := range []float64{0, 0.25, 0.5} {
		tex.SetProgress(p)
		frame := tex.Frame()
		for y := 0; y < h; y++ {
			v := 1 - (float64(y)+0.5)/float64(h)
			want := tex.At(0, v)
			if got := frame.RGBAAt(0, y); got != want {
				t.Fatalf("progress %g row %d: got %v want %v", p, y, got, want)
			}
		}
	}
}

func TestEase(t *testing.T) {
	for name, f := range map[string]EaseFunc{
		"linear":           Linear,
		"quadratic-in":     QuadraticIn,
		"quadratic-out":    QuadraticOut,
		"quadratic-in-out": QuadraticInOut,
	} {
		if f(0) != 0 || math.Abs(f(1)-1) > 1e-12 {
			t.Errorf("%s: bad endpoints %g %g", name, f(0), f(1))
		}
		prev := 0.0
		for i := 1; i <= 100; i++ {
			v := f(float64(i) / 100)
			if v < prev {
				t.Errorf("%s not monotonic at %d", name, i)
			}
			prev = v
		}
		got, ok := EaseByName(name)
		if !ok || got(0.3) != f(0.3) {
			t.Errorf("EaseByName(%q) mismatch", name)
		}
	}
	if math.Abs(QuadraticInOut(0.5)-0.5) > 1e-12 {
		t.Error("QuadraticInOut not symmetric")
	}
	if _, ok := EaseByName("bounce"); ok {
		t.Error("unknown ease accepted")
	}
}

func TestLoopWraps(t *testing.T) {
	l := NewLoop(time.Second, Linear)
	if got := l.Advance(100 * time.Millisecond); got != 0 {
		t.Fatalf("stopped loop advanced to %g", got)
	}
	l.Start()
	if got := l.Advance(250 * time.Millisecond); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("got phase %g, want 0.25", got)
	}
	if got := l.Advance(time.Second); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("full cycle should return to same phase, got %g", got)
	}
	if got := l.Advance(800 * time.Millisecond); math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("got phase %g, want 0.05", got)
	}
	l.Stop()
	if got := l.Advance(time.Hour); math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("stopped loop moved to %g", got)
	}
	l.Reset()
	if l.Phase() != 0 {
		t.Fatal("reset did not rewind")
	}
	var zero Loop
	zero.Start()
	if got := zero.Advance(DefaultDuration / 2); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("zero loop phase %g", got)
	}
}

func TestControllerRelease(t *testing.T) {
	tex, err := NewTexture(10)
	if err != nil {
		t.Fatal(err)
	}
	c := NewController(tex, NewLoop(time.Second, nil))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if err := c.Tick(500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if math.Abs(tex.Offset()+0.5) > 1e-12 {
		t.Fatalf("tick did not scroll texture, offset %g", tex.Offset())
	}
	c.Release()
	c.Release()
	if !c.Released() || c.Loop().Running() {
		t.Fatal("release should stop the loop")
	}
	if err := c.Tick(time.Second); !errors.Is(err, ErrReleased) {
		t.Errorf("Tick after release: %v", err)
	}
	if err := c.SetProgress(0.1); !errors.Is(err, ErrReleased) {
		t.Errorf("SetProgress after release: %v", err)
	}
	if err := c.Start(); !errors.Is(err, ErrReleased) {
		t.Errorf("Start after release: %v", err)
	}
	if math.Abs(tex.Offset()+0.5) > 1e-12 {
		t.Fatal("released controller modified texture")
	}
}
