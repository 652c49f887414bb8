package preamble

import (
	"testing"
	"time"
)

func TestGetT0ParsesPLMForm(t *testing.T) {
	got := GetT0("/PLM_2024-03-05-14-30-00.gdat:")
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("GetT0() = %v, want %v", got, want)
	}
}

func TestGetT0ParsesFallbackForm(t *testing.T) {
	got := GetT0("/2024-03-05-14-30-00.gdat:")
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("GetT0() = %v, want %v", got, want)
	}
}

func TestGetT0FallsBackToEpochOnParseFailure(t *testing.T) {
	got := GetT0("not a preamble")
	if !got.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("GetT0() = %v, want Unix epoch", got)
	}
}
