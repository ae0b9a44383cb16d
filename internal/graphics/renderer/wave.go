package renderer

import "math"

// WaveState animates the water distortion. Phase always stays in [0,1).
type WaveState struct {
	Phase float32
	Speed float32
}

// Advance moves the phase forward by Speed*dt and keeps the fractional part.
// For steps below one turn this is the same as subtracting 1. A non-finite
// phase or step resets the phase to 0.
func (w *WaveState) Advance(dt float64) float32 {
	// The explicit conversion rounds the product, so it is never fused with the add.
	step := float32(w.Speed * float32(dt))
	f := math.Mod(float64(w.Phase+step), 1)
	if f < 0 {
		f += 1
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	w.Phase = float32(f)
	// Rounding a tiny negative remainder up to float32 can land exactly on 1.
	if w.Phase >= 1 {
		w.Phase = 0
	}
	return w.Phase
}
