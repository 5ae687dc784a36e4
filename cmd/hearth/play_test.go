package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"hearthfield/internal/bootstrap"
	"hearthfield/internal/config"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		verb string
		args []string
	}{
		{"harvest rocks", "harvest", []string{"rocks"}},
		{"  Unlock   discoverFire ", "unlock", []string{"discoverFire"}},
		{"tick 20", "tick", []string{"20"}},
		{"status", "status", []string{}},
	}
	for _, tc := range cases {
		got, err := parseCommand(tc.line)
		if err != nil {
			t.Fatalf("%q: %v", tc.line, err)
		}
		if got.verb != tc.verb || strings.Join(got.args, ",") != strings.Join(tc.args, ",") {
			t.Fatalf("%q: got %+v", tc.line, got)
		}
	}
	if _, err := parseCommand("   "); !errors.Is(err, errEmptyCommand) {
		t.Fatalf("expected errEmptyCommand, got %v", err)
	}
}

func TestCountArg(t *testing.T) {
	if n, err := countArg(nil); err != nil || n != 1 {
		t.Fatalf("default count: n=%d err=%v", n, err)
	}
	if n, err := countArg([]string{"20"}); err != nil || n != 20 {
		t.Fatalf("explicit count: n=%d err=%v", n, err)
	}
	for _, bad := range [][]string{{"0"}, {"x"}, {"1", "2"}} {
		if _, err := countArg(bad); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}

func newTestPlayer(t *testing.T) (*player, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Game.Seed = 1
	a, err := bootstrap.Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	var out bytes.Buffer
	return &player{game: a.Game, replay: a.Replay, out: &out}, &out
}

func TestPlayer_ScriptedSession(t *testing.T) {
	p, out := newTestPlayer(t)
	script := strings.Join([]string{
		"harvest rocks",
		"harvset rocks",
		"unlock potery",
		"unlock pottery",
		"tick 3",
		"status",
		"techs",
		"stats",
		"log 1",
		"quit",
		"harvest rocks",
	}, "\n")

	if err := p.run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"harvest_rocks",
		`did you mean "harvest"?`,
		`did you mean "pottery"?`,
		"pottery: not unlocked (prerequisites_unmet)",
		"Tick 3.",
		"Tick 3, hunger 99/100",
		"unlockWildWheat",
		"harvest rocks: 1 attempted",
		"technology_rejected pottery",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "Hunger ") != 1 {
		t.Fatalf("commands after quit should not run:\n%s", got)
	}
}

func TestPlayer_ResetStats(t *testing.T) {
	p, out := newTestPlayer(t)
	script := "harvest rocks\nreset-stats\nstats\n"

	if err := p.run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "No interactions recorded.") {
		t.Fatalf("expected empty stats after reset:\n%s", out.String())
	}
}

func TestPlayer_UsageErrors(t *testing.T) {
	p, out := newTestPlayer(t)
	script := "harvest\nunlock\ntick x\n"

	if err := p.run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(out.String(), "error: "); got != 3 {
		t.Fatalf("expected 3 errors, got %d:\n%s", got, out.String())
	}
}
