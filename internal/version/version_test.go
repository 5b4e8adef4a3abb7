package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	defer func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	}()

	Version = "1.2.3"
	Commit = "abc1234"
	BuildTime = "2024-07-31T16:00:00Z"

	want := "consensus-export 1.2.3 (abc1234) built 2024-07-31T16:00:00Z"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUserAgent(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "0.4.0"
	if got := UserAgent(); got != "consensus-export/0.4.0" {
		t.Errorf("UserAgent() = %q, want %q", got, "consensus-export/0.4.0")
	}

	Version = "dev"
	if !strings.HasSuffix(UserAgent(), "/dev") {
		t.Errorf("UserAgent() = %q, should end with /dev", UserAgent())
	}
}
