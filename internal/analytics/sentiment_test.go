package analytics

import "testing"

func TestBuildSentimentSummary(t *testing.T) {
	p, err := ParsePayload([]byte(`{"sentiment": {
		"positive": 70, "negative": 20, "neutral": 10, "average": 0.3,
		"distribution": {"optimistic": 40, "critical": 15}
	}}`))
	if err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}

	summary := BuildSentimentSummary(p)
	if summary == nil {
		t.Fatal("expected summary")
	}
	if summary.Positive != 70 || summary.Negative != 20 || summary.Neutral != 10 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if summary.Total != 100 {
		t.Errorf("expected total 100, got %d", summary.Total)
	}
	if summary.Score != 0.3 {
		t.Errorf("expected score 0.3, got %v", summary.Score)
	}
	if summary.ByLabel["optimistic"] != 40 {
		t.Errorf("expected 40 optimistic, got %d", summary.ByLabel["optimistic"])
	}
}

func TestBuildSentimentSummaryAbsentSection(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"trends": {}}`))
	if BuildSentimentSummary(p) != nil {
		t.Error("expected nil summary when sentiment section is absent")
	}
	if BuildSentimentSummary(nil) != nil {
		t.Error("expected nil summary for nil payload")
	}
}

func TestBuildSentimentSummaryMissingCounts(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"sentiment": {"positive": 3, "average": "bad"}}`))
	summary := BuildSentimentSummary(p)
	if summary == nil {
		t.Fatal("expected summary")
	}
	if summary.Negative != 0 || summary.Neutral != 0 {
		t.Errorf("expected missing counts to default to 0, got %+v", summary)
	}
	if summary.Total != 3 {
		t.Errorf("expected total 3, got %d", summary.Total)
	}
	if summary.Score != 0 {
		t.Errorf("expected malformed average to coerce to 0, got %v", summary.Score)
	}
}

func TestBuildSentimentSummaryClampsScore(t *testing.T) {
	p, _ := ParsePayload([]byte(`{"sentiment": {"positive": 1, "average": 3.5}}`))
	summary := BuildSentimentSummary(p)
	if summary.Score != 1 {
		t.Errorf("expected score clamped to 1, got %v", summary.Score)
	}
}
