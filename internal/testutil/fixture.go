package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// EventsCSV is a small dielectron-shaped table: three runs with three, two
// and one rows. Column 2 is E1 and column 10 is E2, so the default axis
// selections resolve to E1 vs E2.
const EventsCSV = `Run,Event,E1,px1,py1,pz1,pt1,eta1,phi1,Q1,E2,M
147115,366239,58.71,-7.31,10.53,-57.29,12.82,-2.22,2.18,1,11.28,8.94
147115,366239,6.61,-4.15,-0.58,-5.11,4.19,-1.03,-3.0,-1,17.15,15.89
147115,366240,25.54,-11.48,2.04,22.73,11.66,1.42,2.97,1,15.82,38.39
146436,1011,65.39,7.51,11.89,63.83,14.06,2.22,1.01,-1,25.12,3.72
146436,1012,61.45,2.95,-17.22,58.91,17.47,1.93,-1.4,1,13.88,2.74
148031,22011,9.76,1.46,-3.02,-9.17,3.36,-1.7,-1.12,-1,40.08,19.6
`

// EventsRuns lists the runs of EventsCSV in first-occurrence order.
var EventsRuns = []string{"147115", "146436", "148031"}

// WriteFile writes data to name inside a fresh temp dir and returns the path.
func WriteFile(t testing.TB, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteEventsCSV writes EventsCSV to a temp file and returns its path.
func WriteEventsCSV(t testing.TB) string {
	t.Helper()
	return WriteFile(t, "events.csv", EventsCSV)
}
