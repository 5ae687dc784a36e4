package main

import (
	"context"
	"testing"

	"hearthfield/internal/bootstrap"
	"hearthfield/internal/config"
)

func TestNewServer_RegistersGameRoutes(t *testing.T) {
	cfg := config.Default()
	cfg.Game.Seed = 1
	a, err := bootstrap.Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.Close()

	s := newServer(a, "127.0.0.1:0")
	got := map[string]bool{}
	for _, r := range s.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/game/action",
		"POST /api/game/tech/unlock",
		"GET /api/game/tech",
		"POST /api/game/tick",
		"GET /api/game/status",
		"POST /api/game/stats/reset",
		"GET /api/game/replay",
		"GET /ops/kpi",
	} {
		if !got[want] {
			t.Fatalf("route %q not registered; have %v", want, got)
		}
	}
}
