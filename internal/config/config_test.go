package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load(nil) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{"-grid-width=64", "-grid-height=32", "-agents=10"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GridWidth != 64 || cfg.GridHeight != 32 || cfg.AgentCount != 10 {
		t.Errorf("Load flags = %+v, want GridWidth=64 GridHeight=32 AgentCount=10", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"-grid-width=0"}},
		{"negative height", []string{"-grid-height=-1"}},
		{"zero split-min-cell-side", []string{"-split-min-cell-side=0"}},
		{"negative agents", []string{"-agents=-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.args); err == nil {
				t.Errorf("Load(%v): want error, got nil", tc.args)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRIDSERVER_LISTEN", ":9090")
	t.Setenv("GRIDSERVER_GRID_WIDTH", "128")
	t.Setenv("GRIDSERVER_AGENTS", "7")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if cfg.ListenAddr != ":9090" || cfg.GridWidth != 128 || cfg.AgentCount != 7 {
		t.Errorf("Load with env overrides = %+v, want ListenAddr=:9090 GridWidth=128 AgentCount=7", cfg)
	}
}

func TestSplitStopper(t *testing.T) {
	cfg := Config{SplitMinCellSide: 2, SplitMaxObjects: 1}
	stop := cfg.SplitStopper()

	cases := []struct {
		name     string
		w, h, n  int
		wantStop bool
	}{
		{"small rect stops regardless of population", 2, 2, 100, true},
		{"low population stops regardless of size", 50, 50, 1, true},
		{"large rect with high population keeps splitting", 50, 50, 100, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stop(tc.w, tc.h, tc.n); got != tc.wantStop {
				t.Errorf("stop(%d,%d,%d) = %v, want %v", tc.w, tc.h, tc.n, got, tc.wantStop)
			}
		})
	}
}
