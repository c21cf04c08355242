package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/arbeitszeit/internal/breaks"
)

func newBreakCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "add"}
	cmd.Flags().String("start", "", "")
	cmd.Flags().String("end", "", "")
	cmd.Flags().IntP("duration", "d", 30, "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("Parse(%v) unexpected error: %v", args, err)
	}
	return cmd
}

func TestBreakFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		kind    breaks.Kind
		minutes int
		wantErr bool
	}{
		{"default planned", nil, breaks.KindPlanned, 30, false},
		{"planned duration", []string{"-d", "45"}, breaks.KindPlanned, 45, false},
		{"start and end", []string{"--start", "12:00", "--end", "12:40"}, breaks.KindConcrete, 40, false},
		{"start and duration", []string{"--start", "12:00", "-d", "15"}, breaks.KindConcrete, 15, false},
		{"end only", []string{"--end", "12:00"}, 0, 0, true},
		{"bad time", []string{"--start", "noon", "--end", "13:00"}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := breakFromFlags(newBreakCmd(t, tt.args...))
			if tt.wantErr {
				if err == nil {
					t.Errorf("breakFromFlags(%v) err = nil, want error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("breakFromFlags(%v) unexpected error: %v", tt.args, err)
			}
			if b.Kind() != tt.kind || b.Minutes() != tt.minutes {
				t.Errorf("breakFromFlags(%v) = %s %d min, want %s %d min", tt.args, b.Kind(), b.Minutes(), tt.kind, tt.minutes)
			}
		})
	}
}

func TestBreakIndex(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"3", 2, false},
		{"0", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		got, err := breakIndex(tt.arg)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("breakIndex(%q) = %d, %v, want %d (error %v)", tt.arg, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestHM(t *testing.T) {
	if got := hm(485); got != "8h 05m" {
		t.Errorf("hm(485) = %q, want %q", got, "8h 05m")
	}
}
