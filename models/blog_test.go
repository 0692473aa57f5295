package models

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Beauty ", "Lifestyle", "beauty", "Beauty", "", "  ", "Health"})

	want := []string{"Beauty", "Lifestyle", "beauty", "Health"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestNormalizeTagsEmptyInput(t *testing.T) {
	if got := NormalizeTags(nil); len(got) != 0 {
		t.Fatalf("expected no tags for nil input, got %v", got)
	}
	if got := NormalizeTags([]string{"", "   "}); len(got) != 0 {
		t.Fatalf("expected no tags for blank input, got %v", got)
	}
}
