package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", "x"},
			allowed: []string{"--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next token looks like a flag",
			args:    []string{"-c", "-b"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "several allowed flags keep order",
			args:    []string{"-a", "http://h:1/api", "-z", "-b=false", "-c", "f.json"},
			allowed: []string{"-a", "-b", "-c"},
			want:    []string{"-a", "http://h:1/api", "-b=false", "-c", "f.json"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/tmp/a.json"}
		assert.Equal(t, "/tmp/a.json", ConfigFileFlag())
	})
	t.Run("long", func(t *testing.T) {
		os.Args = []string{"bin", "-config", "/tmp/b.json", "-a", "x"}
		assert.Equal(t, "/tmp/b.json", ConfigFileFlag())
	})
	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/tmp/1.json", "-config", "/tmp/2.json"}
		assert.Equal(t, "/tmp/2.json", ConfigFileFlag())
	})
	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"bin", "-x", "1"}
		assert.Empty(t, ConfigFileFlag())
	})
}

func TestEnvFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"bin", "-env", "dev.env", "-c", "x.json"}
	assert.Equal(t, "dev.env", EnvFileFlag())

	os.Args = []string{"bin"}
	assert.Empty(t, EnvFileFlag())
}
