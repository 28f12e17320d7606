package radiance

import (
	"encoding/json"
	"testing"
)

func TestColorUnmarshalJSONArrayForm(t *testing.T) {
	var c Color
	if err := json.Unmarshal([]byte(`[0.1, 0.2, 0.3]`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != (Color{0.1, 0.2, 0.3}) {
		t.Errorf("got %v", c)
	}
}

func TestColorUnmarshalJSONObjectForm(t *testing.T) {
	var c Color
	if err := json.Unmarshal([]byte(`{"R":0.5,"G":0.6,"B":0.7}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != (Color{0.5, 0.6, 0.7}) {
		t.Errorf("got %v", c)
	}
}

func TestSaturateNoOpAtOne(t *testing.T) {
	c := Color{0.2, 0.8, 0.4}
	if got := c.Saturate(1); got != c {
		t.Errorf("Saturate(1) changed the color: got %v, want %v", got, c)
	}
}

func TestSaturateZeroCollapsesToGray(t *testing.T) {
	c := Color{0.2, 0.8, 0.4}
	got := c.Saturate(0)
	l := c.Luminance()
	if diffF(got.R, l) > 1e-9 || diffF(got.G, l) > 1e-9 || diffF(got.B, l) > 1e-9 {
		t.Errorf("Saturate(0) = %v, want all channels at luminance %v", got, l)
	}
}

func diffF(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
