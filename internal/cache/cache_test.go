package cache

import (
	"context"
	"testing"
	"time"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"wrong-scheme", "http://localhost:6379", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := New(t.Context(), "redis://localhost:59999", time.Minute)
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}

func TestKey(t *testing.T) {
	if got := Key("report", "c1", "ch", "t1"); got != "coachreports:report:c1:ch:t1" {
		t.Errorf("Key() = %q", got)
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	var v int
	found, err := c.Get(ctx, "k", &v)
	if err != nil || found {
		t.Errorf("Get() = %v, %v; want miss", found, err)
	}
}
