package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2024-03-09" {
		t.Fatalf("unexpected date %s", d)
	}

	if _, err := ParseDate("09/03/2024"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
	}
	if err := json.Unmarshal([]byte(`{"start":"2024-03-09T12:00:00.000Z","end":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Start.String() != "2024-03-09" {
		t.Fatalf("timestamp not truncated: %s", payload.Start)
	}
	if payload.End != nil {
		t.Fatalf("expected nil end date")
	}

	out, err := json.Marshal(payload.Start)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-03-09"` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 7, 4, 15, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2024-07-04" {
		t.Fatalf("unexpected date %s", d)
	}
	if err := d.Scan([]byte("2023-12-31")); err != nil || d.String() != "2023-12-31" {
		t.Fatalf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := map[string]string{
		"09:30":    "09:30:00",
		"23:59:58": "23:59:58",
	}
	for in, want := range cases {
		got, err := NormalizeClock(in)
		if err != nil || got != want {
			t.Fatalf("NormalizeClock(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := NormalizeClock("25:00"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStatus_Toggle(t *testing.T) {
	if StatusActive.Toggle() != StatusInactive {
		t.Fatalf("ACTIVO should toggle to INACTIVO")
	}
	if StatusActive.Toggle().Toggle() != StatusActive {
		t.Fatalf("double toggle should restore")
	}
}
