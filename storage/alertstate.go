package storage

import (
	"os"
	"strings"
	"time"
)

// AlertState carries the last-alert timestamp across runs. It is loaded
// before a run and saved after notifications go out, so the heartbeat logic
// works on an explicit value rather than a file touched ad hoc.
type AlertState struct {
	LastAlert time.Time
}

// LoadAlertState reads the persisted state. A missing or unparseable file
// yields the zero state, which simply means "never alerted".
func LoadAlertState(path string) AlertState {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AlertState{}
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return AlertState{}
	}
	return AlertState{LastAlert: t}
}

func SaveAlertState(path string, s AlertState) error {
	return os.WriteFile(path, []byte(s.LastAlert.Format(time.RFC3339)+"\n"), 0644)
}
