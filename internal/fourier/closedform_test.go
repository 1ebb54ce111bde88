package fourier

import (
	"math"
	"testing"
)

func TestClosedFormReferenceValues(t *testing.T) {
	t.Parallel()
	target := Target{Exponent: 1}
	tests := []struct {
		period float64
		k      int
		want   float64
	}{
		{4, 0, 666666.6666666666},
		{4, 1, -1019.2775363219484},
		{4, 2, 975.7371005812289},
		{4, 5, -769.6456996596163},
		{4, 20, -194.10633310389392},
		{8, 1, 8033.902427164674},
		{8, 5, 1312.7321447602487},
		{8, 20, 241.8563295656161},
		{128, 1, 20234.296204672602},
		{128, 2, -31572.506405930428},
		{128, 5, 25593.544838163456},
		{128, 20, 3419.980252235779},
	}
	for _, tt := range tests {
		got := ClosedForm(target, AngularFrequency(tt.period, tt.k))
		if math.Abs(got.Real-tt.want) > 1e-9*math.Max(1, math.Abs(tt.want)) {
			t.Errorf("T=%g k=%d: Real = %.17g, want %.17g", tt.period, tt.k, got.Real, tt.want)
		}
		if got.Imag != 0 {
			t.Errorf("T=%g k=%d: Imag = %g, want 0", tt.period, tt.k, got.Imag)
		}
	}
}

func TestClosedFormAtZeroIsL1Norm(t *testing.T) {
	t.Parallel()
	for n := 1; n <= 6; n++ {
		target := Target{Exponent: n}
		got := ClosedForm(target, 0).Real
		want := target.L1Norm()
		if math.Abs(got-want) > 1e-12*want {
			t.Errorf("n=%d: ClosedForm(0) = %g, want %g", n, got, want)
		}
	}
}

// The series and recurrence branches must agree where they meet.
func TestClosedFormBranchContinuity(t *testing.T) {
	t.Parallel()
	for _, m := range []int{2, 4, 8} {
		x := math.Max(2, float64(m))
		below := x * (1 - 1e-12)
		cs, _ := seriesMoments(m, below)
		cr, _ := unitMoments(m, x*(1+1e-12))
		if math.Abs(cs-cr) > 1e-7*math.Max(1e-3, math.Abs(cs)) {
			t.Errorf("m=%d: series %.15g vs recurrence %.15g at x=%g", m, cs, cr, x)
		}
	}
}

func TestClosedFormNonFinite(t *testing.T) {
	t.Parallel()
	got := ClosedForm(Target{Exponent: 1}, math.NaN())
	if got.IsFinite() {
		t.Errorf("ClosedForm(NaN) = %+v, want NaN components", got)
	}
}
