package version

import "fmt"

// These variables are overridden at build time using -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Dirty   string `json:"dirty"`
}

func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Dirty: Dirty}
}

func (i Info) String() string {
	s := fmt.Sprintf("level-up %s (commit %s", i.Version, i.Commit)
	if i.Date != "" {
		s += ", built " + i.Date
	}
	if i.Dirty == "true" {
		s += ", dirty"
	}
	return s + ")"
}
