package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"git init", InitCommand{}},
		{"init", InitCommand{}},
		{"  git   commit  ", CommitCommand{}},
		{"git commit -m fix", CommitCommand{Message: "fix"}},
		{`git commit -m "fix the bug"`, CommitCommand{Message: "fix the bug"}},
		{"git branch", BranchListCommand{}},
		{"git branch feature", BranchCreateCommand{Name: "feature"}},
		{"branch feature/login", BranchCreateCommand{Name: "feature/login"}},
		{"git checkout dev", CheckoutCommand{Name: "dev"}},
		{"git checkout -b dev", CheckoutNewCommand{Name: "dev"}},
		{"git checkout -b release-1.2_rc", CheckoutNewCommand{Name: "release-1.2_rc"}},
		{"git merge master", MergeCommand{Name: "master"}},
		{"help", HelpCommand{}},
		{"git help", HelpCommand{}},
		{"clear", ClearCommand{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	lines := []string{
		"git",
		"git push",
		"Git init",
		"git INIT",
		"git init now",
		"git checkout",
		"git checkout -b",
		"git checkout -b a b",
		"git merge",
		"git merge a b",
		"git branch a b",
		"git branch -d feature",
		"git commit -m",
		"ls -la",
		"git branch <b>",
		"git branch a&b",
		"git branch .hidden",
		"git branch feature/",
		"git branch a..b",
		"git checkout -b x.y.",
		"git merge /master",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.Nil(t, cmd)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownCommand)
			assert.Equal(t, "Is not implemented or is not a git command. See 'help'.", err.Error())
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "checkout -b", Name(CheckoutNewCommand{Name: "x"}))
	assert.Equal(t, "branch", Name(BranchListCommand{}))
	assert.Equal(t, "branch", Name(BranchCreateCommand{Name: "x"}))
	assert.Equal(t, "unknown", Name(nil))
}
