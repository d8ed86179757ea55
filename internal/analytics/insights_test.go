package analytics

import (
	"math"
	"testing"
)

func findInsight(insights []Insight, kind string) *Insight {
	for i := range insights {
		if insights[i].Kind == kind {
			return &insights[i]
		}
	}
	return nil
}

func TestPositiveSentimentInsight(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"sentiment": {"positive": 70, "negative": 20, "neutral": 10, "average": 0.3}}`))

	// 0.3 is inclusive
	in := findInsight(BuildInsights(p), "sentiment")
	if in == nil {
		t.Fatal("expected sentiment insight at 0.3")
	}
	if math.Abs(in.Confidence-0.3) > 1e-9 {
		t.Errorf("expected confidence 0.3, got %v", in.Confidence)
	}

	p, _ = ParsePayload([]byte(`{"sentiment": {"positive": 70, "negative": 20, "neutral": 10, "average": 0.29}}`))
	if in := findInsight(BuildInsights(p), "sentiment"); in != nil {
		t.Errorf("expected no sentiment insight below 0.3, got %+v", in)
	}
}

func TestImbalanceInsight(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"sentiment": {"positive": 41, "negative": 20}}`))
	in := findInsight(BuildInsights(p), "imbalance")
	if in == nil {
		t.Fatal("expected imbalance insight when positive > 2x negative")
	}
	if in.Confidence != 0.8 {
		t.Errorf("expected fixed confidence 0.8, got %v", in.Confidence)
	}

	p, _ = ParsePayload([]byte(`{"sentiment": {"positive": 40, "negative": 20}}`))
	if in := findInsight(BuildInsights(p), "imbalance"); in != nil {
		t.Errorf("expected no imbalance insight at exactly 2x, got %+v", in)
	}
}

func TestEmergingTopicsInsight(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"trends": {"emerging": [{"name": "quantum"}, {"topic": "robotics"}]}}`))
	in := findInsight(BuildInsights(p), "trend")
	if in == nil {
		t.Fatal("expected trend insight for emerging topics")
	}
	if in.Confidence != 0.7 {
		t.Errorf("expected fixed confidence 0.7, got %v", in.Confidence)
	}
}

func TestProcessingAlertInsight(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"ai_processing": {"success_rate": 0.75}}`))
	in := findInsight(BuildInsights(p), "alert")
	if in == nil {
		t.Fatal("expected alert insight below 0.9 success rate")
	}
	if math.Abs(in.Confidence-0.25) > 1e-9 {
		t.Errorf("expected confidence 0.25, got %v", in.Confidence)
	}

	p, _ = ParsePayload([]byte(`{"ai_processing": {"success_rate": 0.95}}`))
	if in := findInsight(BuildInsights(p), "alert"); in != nil {
		t.Errorf("expected no alert at 0.95 success rate, got %+v", in)
	}
}

func TestInsightRulesAreIndependent(t *testing.T) {
	p, _ := ParsePayload([]byte(`{
		"sentiment": {"positive": 80, "negative": 10, "average": 0.5},
		"trends": {"emerging": [{"name": "fusion"}]},
		"ai_processing": {"success_rate": 0.6}
	}`))

	insights := BuildInsights(p)
	if len(insights) != 4 {
		t.Fatalf("expected all 4 rules to fire, got %d: %+v", len(insights), insights)
	}
}

func TestInsightsEmptyPayload(t *testing.T) {
	if insights := BuildInsights(&Payload{}); len(insights) != 0 {
		t.Errorf("expected no insights for empty payload, got %+v", insights)
	}
	if insights := BuildInsights(nil); insights != nil {
		t.Errorf("expected nil insights for nil payload, got %+v", insights)
	}
}
