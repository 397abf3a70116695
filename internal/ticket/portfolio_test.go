package ticket

import (
	"math"
	"testing"
)

func makeTickets(weights ...float64) []Ticket {
	tickets := make([]Ticket, len(weights))
	for i, w := range weights {
		tickets[i] = Ticket{
			ID:          string(rune('a' + i)),
			Coverage:    []Coverage{FullCoverage, FullCoverage},
			StakeWeight: w,
		}
	}
	return tickets
}

func TestNormalizeWeights_SumToOne(t *testing.T) {
	weights, fallback := NormalizeWeights([]float64{2, 2, 0})
	if fallback {
		t.Fatalf("unexpected uniform fallback")
	}
	want := []float64{0.5, 0.5, 0}
	for i := range want {
		if math.Abs(weights[i]-want[i]) > 1e-9 {
			t.Errorf("weight %d = %g, want %g", i, weights[i], want[i])
		}
	}
}

func TestNormalizeWeights_ZeroSumFallsBackToUniform(t *testing.T) {
	weights, fallback := NormalizeWeights([]float64{0, 0, 0})
	if !fallback {
		t.Fatalf("expected uniform fallback")
	}
	for i, w := range weights {
		if math.Abs(w-1.0/3.0) > 1e-9 {
			t.Errorf("weight %d = %g, want 1/3", i, w)
		}
	}
}

func TestNormalizeWeights_NegativeTreatedAsZero(t *testing.T) {
	weights, fallback := NormalizeWeights([]float64{-5, 1, 1})
	if fallback {
		t.Fatalf("unexpected fallback")
	}
	if weights[0] != 0 {
		t.Errorf("negative weight should normalize to 0, got %g", weights[0])
	}
	if math.Abs(weights[1]-0.5) > 1e-9 {
		t.Errorf("weight 1 = %g, want 0.5", weights[1])
	}
}

func TestNewPortfolio_ShapeChecks(t *testing.T) {
	if _, err := NewPortfolio(nil, BinaryScheme(), 2); err == nil {
		t.Errorf("expected error for empty portfolio")
	}

	tickets := makeTickets(1, 1)
	if _, err := NewPortfolio(tickets, BinaryScheme(), 3); err == nil {
		t.Errorf("expected error for coverage length mismatch")
	}

	pf, err := NewPortfolio(tickets, BinaryScheme(), 2)
	if err != nil {
		t.Fatalf("NewPortfolio returned error: %v", err)
	}
	if pf.WeightFallback {
		t.Errorf("unexpected weight fallback")
	}
	if math.Abs(pf.Weights[0]-0.5) > 1e-9 {
		t.Errorf("weight 0 = %g, want 0.5", pf.Weights[0])
	}
}

func TestSchemeFromConfig(t *testing.T) {
	scheme, fell := SchemeFromConfig(map[string]float64{"14": 100, "13": 10})
	if fell {
		t.Fatalf("valid table should not fall back")
	}
	if scheme.IsBinary() {
		t.Fatalf("expected explicit table scheme")
	}
	if pay := scheme.Payout(13, 14); pay != 10 {
		t.Errorf("payout for 13 hits = %g, want 10", pay)
	}
	if pay := scheme.Payout(12, 14); pay != 0 {
		t.Errorf("payout for unlisted hits = %g, want 0", pay)
	}

	scheme, fell = SchemeFromConfig(map[string]float64{"bad": 1})
	if !fell || !scheme.IsBinary() {
		t.Errorf("malformed table should be discarded in favor of the binary scheme")
	}

	scheme, fell = SchemeFromConfig(nil)
	if fell || !scheme.IsBinary() {
		t.Errorf("absent table should mean binary scheme without fallback")
	}
}

func TestBinaryScheme_Payout(t *testing.T) {
	scheme := BinaryScheme()
	if pay := scheme.Payout(14, 14); pay != 1.0 {
		t.Errorf("full hit should pay 1.0, got %g", pay)
	}
	if pay := scheme.Payout(13, 14); pay != 0.0 {
		t.Errorf("partial hit should pay 0, got %g", pay)
	}
}
