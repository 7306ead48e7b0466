package common

import (
	"context"
	"testing"
)

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "explicit account",
			args: map[string]interface{}{"account": "work"},
			want: "work",
		},
		{
			name: "missing account",
			args: map[string]interface{}{},
			want: "default",
		},
		{
			name: "empty account",
			args: map[string]interface{}{"account": ""},
			want: "default",
		},
		{
			name: "non-string account",
			args: map[string]interface{}{"account": 42},
			want: "default",
		},
		{
			name: "nil args",
			args: nil,
			want: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAccountFromArgs(tt.args); got != tt.want {
				t.Errorf("GetAccountFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetSessionIDWithoutSession(t *testing.T) {
	// No MCP session in the context: stdio transport, single client.
	if got := GetSessionID(context.Background()); got != "default" {
		t.Errorf("expected default session, got %q", got)
	}
}
