package config

import (
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			want: Default(),
		},
		{
			name: "env overrides defaults",
			env: map[string]string{
				"SIMPLECHESS_ADDR":                 ":8080",
				"SIMPLECHESS_DATA_DIR":             "/tmp/chess",
				"SIMPLECHESS_MATCHMAKING_INTERVAL": "250ms",
			},
			want: Config{
				Addr:                ":8080",
				AllowOrigins:        "http://localhost:5173",
				DataDir:             "/tmp/chess",
				MatchmakingInterval: 250 * time.Millisecond,
			},
		},
		{
			name: "flags override env",
			args: []string{"-addr", ":9000", "-allow-origins", "*"},
			env:  map[string]string{"SIMPLECHESS_ADDR": ":8080"},
			want: Config{
				Addr:                ":9000",
				AllowOrigins:        "*",
				MatchmakingInterval: time.Second,
			},
		},
		{
			name:    "bad env duration",
			env:     map[string]string{"SIMPLECHESS_MATCHMAKING_INTERVAL": "soon"},
			wantErr: true,
		},
		{
			name:    "non-positive interval",
			args:    []string{"-matchmaking-interval", "0s"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args, env(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got config %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
