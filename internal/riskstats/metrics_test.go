package riskstats

import (
	"errors"
	"math"
	"testing"

	"loteca-risk/internal/prob"
	"loteca-risk/internal/ticket"
)

func TestVarES_HandComputed(t *testing.T) {
	// 10 个等概率回报；损失升序为 [-6,-5,-4,-3,-2,-1,0,1,5,10]。
	// 插值秩 = 9*0.95 = 8.55 -> VaR = 5 + 0.55*(10-5) = 7.75，
	// 尾部 {10} 的均值 -> ES = 10。
	returns := []float64{-10, -5, -1, 0, 1, 2, 3, 4, 5, 6}

	varValue, esValue, err := VarES(returns, 0.95)
	if err != nil {
		t.Fatalf("VarES returned error: %v", err)
	}
	if math.Abs(varValue-7.75) > 1e-9 {
		t.Errorf("VaR = %g, want 7.75", varValue)
	}
	if math.Abs(esValue-10.0) > 1e-9 {
		t.Errorf("ES = %g, want 10", esValue)
	}
	if esValue < varValue {
		t.Errorf("ES (%g) must not be below VaR (%g)", esValue, varValue)
	}
}

func TestVarES_ESNotBelowVaR(t *testing.T) {
	returns := []float64{-3.2, 0.4, 1.1, -0.7, 2.5, -1.9, 0.0, 4.4, -2.2, 0.9, 1.7, -0.3}
	for _, alpha := range []float64{0.5, 0.9, 0.95, 0.99} {
		varValue, esValue, err := VarES(returns, alpha)
		if err != nil {
			t.Fatalf("alpha=%g: %v", alpha, err)
		}
		if esValue < varValue-1e-12 {
			t.Errorf("alpha=%g: ES (%g) below VaR (%g)", alpha, esValue, varValue)
		}
	}
}

func TestVarES_DegenerateDistribution(t *testing.T) {
	varValue, esValue, err := VarES([]float64{2, 2, 2, 2}, 0.95)
	if err != nil {
		t.Fatalf("VarES returned error: %v", err)
	}
	if varValue != -2 || esValue != -2 {
		t.Errorf("degenerate distribution: VaR=%g ES=%g, want -2/-2", varValue, esValue)
	}
}

func TestVarES_Errors(t *testing.T) {
	if _, _, err := VarES(nil, 0.95); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, _, err := VarES([]float64{1}, 0); err == nil {
		t.Errorf("expected error for alpha=0")
	}
	if _, _, err := VarES([]float64{1}, 1); err == nil {
		t.Errorf("expected error for alpha=1")
	}
}

func TestWinProbability(t *testing.T) {
	matrix, err := prob.NewMatrix([]prob.Row{
		{MatchID: "m1", P: [prob.NumOutcomes]float64{0.5, 0.3, 0.2}},
		{MatchID: "m2", P: [prob.NumOutcomes]float64{0.4, 0.3, 0.3}},
	})
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}

	coverage := []ticket.Coverage{
		ticket.CoverageOf(prob.Home),
		ticket.CoverageOf(prob.Home, prob.Draw),
	}
	p, err := WinProbability(matrix, coverage)
	if err != nil {
		t.Fatalf("WinProbability returned error: %v", err)
	}
	// 0.5 * (0.4+0.3) = 0.35
	if math.Abs(p-0.35) > 1e-9 {
		t.Errorf("win probability = %g, want 0.35", p)
	}

	full := []ticket.Coverage{ticket.FullCoverage, ticket.FullCoverage}
	p, err = WinProbability(matrix, full)
	if err != nil {
		t.Fatalf("WinProbability returned error: %v", err)
	}
	if math.Abs(p-1.0) > 1e-9 {
		t.Errorf("full coverage win probability = %g, want 1", p)
	}

	if _, err := WinProbability(matrix, full[:1]); err == nil {
		t.Errorf("expected error for coverage length mismatch")
	}
}

func TestKellyFraction(t *testing.T) {
	// f = (p(b+1)-1)/b = (0.6*2-1)/1 = 0.2
	if f := KellyFraction(0.6, 1); math.Abs(f-0.2) > 1e-9 {
		t.Errorf("Kelly(0.6,1) = %g, want 0.2", f)
	}
	if f := KellyFraction(0.2, 1); f != 0 {
		t.Errorf("negative-edge bet should clamp to 0, got %g", f)
	}
	if f := KellyFraction(0.9, 0); f != 0 {
		t.Errorf("b<=0 should yield 0, got %g", f)
	}
	if f := KellyFraction(1, 0.5); f != 1 {
		t.Errorf("certain win should clamp to 1, got %g", f)
	}
}
