package health

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMetricDefinitionProblem(t *testing.T) {
	ok := MetricDefinition{Code: "HK_HR_RESTING", DisplayName: "Resting HR", Category: CategoryVitals}
	if p := ok.Problem(); p != "" {
		t.Fatalf("unexpected problem: %s", p)
	}

	bad := ok
	bad.Category = "Astrology"
	if bad.Problem() == "" {
		t.Fatal("expected unknown category problem")
	}

	inverted := ok
	inverted.RefMin = decimal.NewNullDecimal(decimal.NewFromInt(100))
	inverted.RefMax = decimal.NewNullDecimal(decimal.NewFromInt(40))
	if inverted.Problem() == "" {
		t.Fatal("expected inverted range problem")
	}
}

func TestMetricDefinitionInRange(t *testing.T) {
	m := MetricDefinition{
		RefMin: decimal.NewNullDecimal(decimal.NewFromInt(40)),
		RefMax: decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	cases := map[string]bool{"39.99": false, "40": true, "72.5": true, "100": true, "100.01": false}
	for raw, want := range cases {
		if got := m.InRange(decimal.RequireFromString(raw)); got != want {
			t.Fatalf("InRange(%s)=%v want %v", raw, got, want)
		}
	}

	open := MetricDefinition{RefMin: decimal.NewNullDecimal(decimal.NewFromInt(0))}
	if !open.InRange(decimal.NewFromInt(1_000_000)) {
		t.Fatal("missing upper bound must be open")
	}
}
