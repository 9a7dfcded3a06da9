package lexical

import (
	"context"
	"testing"
)

func TestExtractPicksOverlappingSentence(t *testing.T) {
	passage := "Bananas are yellow. Paris is the capital of France. Berlin is in Germany"
	out, err := New().Extract(context.Background(), "What is the capital of France?", passage)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out.Answer != "Paris is the capital of France." {
		t.Fatalf("unexpected answer %q", out.Answer)
	}
	if out.Score <= 0 || out.Score > 1 {
		t.Fatalf("score %f outside (0,1]", out.Score)
	}
}

func TestExtractUsesTrailingFragment(t *testing.T) {
	out, _ := New().Extract(context.Background(), "where is berlin", "Bananas are yellow. Berlin is in Germany")
	if out.Answer != "Berlin is in Germany" {
		t.Fatalf("unexpected answer %q", out.Answer)
	}
}

func TestExtractNoOverlap(t *testing.T) {
	out, err := New().Extract(context.Background(), "quantum chromodynamics", "Bananas are yellow.")
	if err != nil || out.Answer != "" || out.Score != 0 {
		t.Fatalf("expected empty extraction, got %+v %v", out, err)
	}
}

func TestExtractEmptyContext(t *testing.T) {
	out, err := New().Extract(context.Background(), "anything", "")
	if err != nil || out.Answer != "" || out.Score != 0 {
		t.Fatalf("expected empty extraction, got %+v %v", out, err)
	}
}
