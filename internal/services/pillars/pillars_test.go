package pillars

import (
	"math"
	"testing"
	"time"

	"PillarSight/internal/domain/models"
)

func fp(v float64) *float64 { return &v }

func baseSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Symbol:    "SPY",
		Timestamp: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		LastPrice: 100,
	}
}

func almost(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestTrendFullBullStack(t *testing.T) {
	s := baseSnapshot()
	s.LastPrice = 110
	s.DailyMA20 = fp(105)
	s.DailyMA50 = fp(100)
	s.DailyMA200 = fp(95)
	s.WeeklyMA10 = fp(104)
	s.WeeklyMA40 = fp(98)

	res, err := NewTrendEvaluator().Evaluate(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if res.Bias != models.BiasBullish {
		t.Fatalf("bias = %v, want BULLISH", res.Bias)
	}
}

func TestTrendFullBearStack(t *testing.T) {
	s := baseSnapshot()
	s.LastPrice = 90
	s.DailyMA20 = fp(95)
	s.DailyMA50 = fp(100)
	s.DailyMA200 = fp(105)
	s.WeeklyMA10 = fp(96)
	s.WeeklyMA40 = fp(102)

	res, err := NewTrendEvaluator().Evaluate(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("score = %v, want 0", res.Score)
	}
	if res.Bias != models.BiasBearish {
		t.Fatalf("bias = %v, want BEARISH", res.Bias)
	}
}

func TestTrendNoMovingAverages(t *testing.T) {
	if _, err := NewTrendEvaluator().Evaluate(baseSnapshot(), nil); err == nil {
		t.Fatal("expected error with no moving averages")
	}
}

func TestMomentumBothOscillators(t *testing.T) {
	cases := []struct {
		name      string
		rsi       float64
		macd      float64
		signal    float64
		wantScore float64
		wantBias  models.Bias
	}{
		{"strong both", 60, 1.2, 0.8, 100, models.BiasBullish},
		{"overbought rsi", 75, 1.2, 0.8, 80, models.BiasBullish},
		{"weak both", 40, -1.0, -0.5, 10, models.BiasBearish},
		{"mid rsi no cross", 48, -0.2, 0.1, 25, models.BiasBearish},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := baseSnapshot()
			s.RSI14 = fp(tc.rsi)
			s.MACD = fp(tc.macd)
			s.MACDSignal = fp(tc.signal)

			res, err := NewMomentumEvaluator().Evaluate(s, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almost(res.Score, tc.wantScore) {
				t.Fatalf("score = %v, want %v", res.Score, tc.wantScore)
			}
			if res.Bias != tc.wantBias {
				t.Fatalf("bias = %v, want %v", res.Bias, tc.wantBias)
			}
		})
	}
}

func TestMomentumSingleOscillatorDoubled(t *testing.T) {
	s := baseSnapshot()
	s.RSI14 = fp(60) // zone score 20, doubled to 40 of 40

	res, err := NewMomentumEvaluator().Evaluate(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if res.Metrics["macd_missing"] != 1 {
		t.Fatal("expected macd_missing flag")
	}
}

func TestMomentumNoOscillators(t *testing.T) {
	if _, err := NewMomentumEvaluator().Evaluate(baseSnapshot(), nil); err == nil {
		t.Fatal("expected error with neither oscillator")
	}
}

func TestVolatilityAllInputs(t *testing.T) {
	s := baseSnapshot()
	s.ATRPct = fp(2.0)
	s.BBWidthPct = fp(6.0)
	mkt := &models.MarketContext{Regime: models.RegimeSideways, VIX: 18}

	res, err := NewVolatilityEvaluator().Evaluate(s, mkt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 60*0.40 + 60*0.30 + 60*0.30 at full confidence
	if !almost(res.Score, 60.0) {
		t.Fatalf("score = %v, want 60.0", res.Score)
	}
	if res.Bias != models.BiasNeutral {
		t.Fatalf("bias = %v, want NEUTRAL", res.Bias)
	}
	if res.Metrics["confidence"] != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", res.Metrics["confidence"])
	}
}

func TestVolatilityMissingATRReweights(t *testing.T) {
	s := baseSnapshot()
	s.BBWidthPct = fp(6.0)
	mkt := &models.MarketContext{Regime: models.RegimeSideways, VIX: 18}

	res, err := NewVolatilityEvaluator().Evaluate(s, mkt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (60*0.45 + 60*0.30)/0.75 = 60, then * 0.80 confidence
	if !almost(res.Score, 48.0) {
		t.Fatalf("score = %v, want 48.0", res.Score)
	}
	if res.Metrics["atr_missing"] != 1 {
		t.Fatal("expected atr_missing flag")
	}
}

func TestVolatilityHighVIXBias(t *testing.T) {
	s := baseSnapshot()
	s.ATRPct = fp(2.0)
	mkt := &models.MarketContext{Regime: models.RegimeSideways, VIX: 30}

	res, err := NewVolatilityEvaluator().Evaluate(s, mkt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Bias != models.BiasVolatile {
		t.Fatalf("bias = %v, want VOLATILE", res.Bias)
	}
}

func TestVolatilityNoInputs(t *testing.T) {
	mkt := &models.MarketContext{Regime: models.RegimeSideways, VIX: 18}
	if _, err := NewVolatilityEvaluator().Evaluate(baseSnapshot(), mkt); err == nil {
		t.Fatal("expected error with no volatility inputs")
	}
}

func TestLiquidityComposite(t *testing.T) {
	s := baseSnapshot()
	s.SpreadPct = fp(0.08)
	s.BidDepth = fp(25000)
	s.AskDepth = fp(10000)
	s.ADOSC = fp(2500)

	res, err := NewLiquidityEvaluator().Evaluate(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 92*0.55 + 85*0.35 + 8 = 88.35
	if !almost(res.Score, 88.35) {
		t.Fatalf("score = %v, want 88.35", res.Score)
	}
	if res.Bias != models.BiasBullish {
		t.Fatalf("bias = %v, want BULLISH", res.Bias)
	}
}

func TestLiquidityEmptyBookSide(t *testing.T) {
	s := baseSnapshot()
	s.BidDepth = fp(500)
	s.AskDepth = fp(0)

	res, err := NewLiquidityEvaluator().Evaluate(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0 {
		t.Fatalf("score = %v, want 0 for empty book side", res.Score)
	}
	if res.Bias != models.BiasBearish {
		t.Fatalf("bias = %v, want BEARISH", res.Bias)
	}
}

func TestLiquiditySpreadFromQuote(t *testing.T) {
	s := baseSnapshot()
	s.BidPrice = fp(99.95)
	s.AskPrice = fp(100.05)

	res, err := NewLiquidityEvaluator().Evaluate(s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// derived spread = 0.10% -> 92; neutral depth stand-in 50
	want := 92*0.55 + 50*0.35
	if !almost(res.Score, want) {
		t.Fatalf("score = %v, want %v", res.Score, want)
	}
}

func TestLiquidityNoData(t *testing.T) {
	if _, err := NewLiquidityEvaluator().Evaluate(baseSnapshot(), nil); err == nil {
		t.Fatal("expected error with no liquidity data")
	}
}

func TestSentimentAdjustments(t *testing.T) {
	cases := []struct {
		name      string
		oi        *float64
		delta     *float64
		gamma     *float64
		wantScore float64
		wantBias  models.Bias
	}{
		{"strong build", fp(12), fp(0.35), nil, 85, models.BiasBullish},
		{"strong unwind", fp(-12), fp(-0.35), nil, 15, models.BiasBearish},
		{"flat", fp(0), fp(0), nil, 50, models.BiasNeutral},
		{"high gamma haircut", fp(12), fp(0.35), fp(0.15), 76.5, models.BiasBullish},
		{"oi only", fp(12), nil, nil, 70, models.BiasBullish},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := baseSnapshot()
			s.OIChangePct = tc.oi
			s.Delta = tc.delta
			s.Gamma = tc.gamma

			res, err := NewSentimentEvaluator().Evaluate(s, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almost(res.Score, tc.wantScore) {
				t.Fatalf("score = %v, want %v", res.Score, tc.wantScore)
			}
			if res.Bias != tc.wantBias {
				t.Fatalf("bias = %v, want %v", res.Bias, tc.wantBias)
			}
		})
	}
}

func TestSentimentNoDerivativesData(t *testing.T) {
	if _, err := NewSentimentEvaluator().Evaluate(baseSnapshot(), nil); err == nil {
		t.Fatal("expected error with no derivatives data")
	}
}

func TestRegimeScores(t *testing.T) {
	cases := []struct {
		name      string
		mkt       models.MarketContext
		wantScore float64
		wantBias  models.Bias
	}{
		{"bullish calm", models.MarketContext{Regime: models.RegimeBullish, VIX: 12}, 90, models.BiasBullish},
		{"bullish stressed", models.MarketContext{Regime: models.RegimeBullish, VIX: 30}, 75, models.BiasBullish},
		{"bearish calm", models.MarketContext{Regime: models.RegimeBearish, VIX: 12}, 20, models.BiasBearish},
		{"sideways", models.MarketContext{Regime: models.RegimeSideways, VIX: 18}, 50, models.BiasNeutral},
		{"volatile", models.MarketContext{Regime: models.RegimeVolatile, VIX: 28}, 50, models.BiasVolatile},
		{"percentile cap", models.MarketContext{Regime: models.RegimeBullish, VIX: 18, VIXPercentile: 90}, 60, models.BiasBullish},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewRegimeEvaluator().Evaluate(baseSnapshot(), &tc.mkt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almost(res.Score, tc.wantScore) {
				t.Fatalf("score = %v, want %v", res.Score, tc.wantScore)
			}
			if res.Bias != tc.wantBias {
				t.Fatalf("bias = %v, want %v", res.Bias, tc.wantBias)
			}
		})
	}
}

func TestRegimeUnknown(t *testing.T) {
	mkt := &models.MarketContext{Regime: "SOMETHING"}
	if _, err := NewRegimeEvaluator().Evaluate(baseSnapshot(), mkt); err == nil {
		t.Fatal("expected error for unknown regime")
	}
}

func TestPlaceholderFixedResult(t *testing.T) {
	res, err := NewPlaceholderEvaluator(models.PillarSentiment).Evaluate(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 50 || res.Bias != models.BiasNeutral {
		t.Fatalf("got score=%v bias=%v, want 50 NEUTRAL", res.Score, res.Bias)
	}
}

func TestForCalibrationCanonicalOrder(t *testing.T) {
	cal := models.DefaultCalibration()
	cal.PlaceholderPillars = []models.PillarName{models.PillarSentiment}

	evs := ForCalibration(cal)
	if len(evs) != 6 {
		t.Fatalf("len = %d, want 6", len(evs))
	}
	for i, p := range models.AllPillars() {
		if evs[i].Name() != p {
			t.Fatalf("evaluator %d = %s, want %s", i, evs[i].Name(), p)
		}
	}
	if _, ok := evs[4].(*PlaceholderEvaluator); !ok {
		t.Fatalf("sentiment evaluator is %T, want placeholder", evs[4])
	}
}
