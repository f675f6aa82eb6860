package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var clientFlags = []string{"-a", "-host", "-db", "-c", "-config"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate values are kept with their flag",
			args: []string{"-a", "http://localhost:8000/api/v1", "login", "bob@uni.edu"},
			want: []string{"-a", "http://localhost:8000/api/v1"},
		},
		{
			name: "equals form",
			args: []string{"-db=session.db", "leaderboard"},
			want: []string{"-db=session.db"},
		},
		{
			name: "subcommand flags are ignored",
			args: []string{"register", "--email", "a@b.c", "-host", "campus.local"},
			want: []string{"-host", "campus.local"},
		},
		{
			name: "flag followed by another flag has no value",
			args: []string{"-c", "-db", "x.db"},
			want: []string{"-c", "-db", "x.db"},
		},
		{
			name: "arguments after -- are never claimed",
			args: []string{"report", "--", "-a", "value"},
			want: []string{},
		},
		{
			name: "empty",
			args: []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, clientFlags))
		})
	}
}

func TestStripArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "client flags removed, command kept",
			args: []string{"-a", "http://x/api/v1", "login", "bob@uni.edu"},
			want: []string{"login", "bob@uni.edu"},
		},
		{
			name: "equals form removed",
			args: []string{"matches", "-db=s.db", "--user", "3"},
			want: []string{"matches", "--user", "3"},
		},
		{
			name: "nothing to strip",
			args: []string{"leaderboard"},
			want: []string{"leaderboard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripArgs(tt.args, clientFlags))
		})
	}
}

func TestFilterAndStripPartitionArgs(t *testing.T) {
	args := []string{"-c", "cfg.yaml", "upload", "--user", "2", "-host=localhost", "photo.png"}

	kept := FilterArgs(args, clientFlags)
	rest := StripArgs(args, clientFlags)

	assert.Equal(t, len(args), len(kept)+len(rest))
	assert.Equal(t, []string{"-c", "cfg.yaml", "-host=localhost"}, kept)
	assert.Equal(t, []string{"upload", "--user", "2", "photo.png"}, rest)
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c", func(t *testing.T) {
		os.Args = []string{"ecosync", "-c", "/etc/ecosync.yaml", "leaderboard"}
		assert.Equal(t, "/etc/ecosync.yaml", ConfigFileFlag())
	})

	t.Run("long -config", func(t *testing.T) {
		os.Args = []string{"ecosync", "-config", "/etc/ecosync.json"}
		assert.Equal(t, "/etc/ecosync.json", ConfigFileFlag())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"ecosync", "-a", "http://x", "whoami"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"ecosync", "-c", "one.json", "-config", "two.json"}
		assert.Equal(t, "two.json", ConfigFileFlag())
	})
}
