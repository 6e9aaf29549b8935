package logstore

import (
	"log/slog"
	"strings"
)

// Diff compares the active branch against the named branch and returns a
// report of the messages past their first point of disagreement: one "+"
// line per remaining message on the active branch, then one "-" line per
// remaining message on the other. The second return is false when there is
// nothing to report, either because the branch is unknown (logged as a
// warning) or because the logs are identical.
func (m *Manager) Diff(branch string) (string, bool) {
	other, ok := m.branches.get(branch)
	if !ok {
		slog.Warn("branch does not exist", "branch", branch)
		return "", false
	}

	cur := m.Log()
	longest := cur.Len()
	if other.Len() > longest {
		longest = other.Len()
	}

	// Walk both logs in lockstep, treating a missing position on the
	// shorter log as a mismatch.
	diffIndex := -1
	for i := 0; i < longest; i++ {
		inCur := i < cur.Len()
		inOther := i < other.Len()
		if inCur != inOther || !cur.At(i).Equal(other.At(i)) {
			diffIndex = i
			break
		}
	}
	if diffIndex < 0 {
		return "", false
	}

	var lines []string
	for i := diffIndex; i < cur.Len(); i++ {
		lines = append(lines, "+ "+cur.At(i).Format())
	}
	for i := diffIndex; i < other.Len(); i++ {
		lines = append(lines, "- "+other.At(i).Format())
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
