package probe

import (
	"strconv"
	"strings"
)

// porcelainStatus is the raw parse of `git status --porcelain=v2 --branch`.
type porcelainStatus struct {
	branch   string
	detached bool
	upstream string // e.g. "origin/main", empty when no upstream configured
	hasAB    bool   // branch.ab header present (upstream ref resolvable)
	ahead    int
	behind   int

	staged    int
	modified  int
	untracked int
	unmerged  int
}

func parsePorcelainV2(output string) *porcelainStatus {
	ps := &porcelainStatus{}

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			parseHeaderLine(line, ps)

		// Tracked file changes (ordinary or renamed)
		case strings.HasPrefix(line, "1 ") || strings.HasPrefix(line, "2 "):
			parseChangeLine(line, ps)

		case strings.HasPrefix(line, "? "):
			ps.untracked++

		case strings.HasPrefix(line, "u "):
			ps.unmerged++
		}
		// "! " ignored entries are skipped
	}

	return ps
}

func parseHeaderLine(line string, ps *porcelainStatus) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return
	}

	switch parts[1] {
	case "branch.head":
		if parts[2] == "(detached)" {
			ps.detached = true
		} else {
			ps.branch = parts[2]
		}
	case "branch.upstream":
		ps.upstream = parts[2]
	case "branch.ab":
		// Format: "+N -M"
		ps.hasAB = true
		for _, p := range strings.Fields(parts[2]) {
			if strings.HasPrefix(p, "+") {
				ps.ahead, _ = strconv.Atoi(p[1:])
			} else if strings.HasPrefix(p, "-") {
				ps.behind, _ = strconv.Atoi(p[1:])
			}
		}
	}
}

func parseChangeLine(line string, ps *porcelainStatus) {
	// Format: "1 XY ..." where X = index status, Y = worktree status
	if len(line) < 4 {
		return
	}

	xy := line[2:4]

	if xy[0] != '.' && xy[0] != '?' {
		ps.staged++
	}
	if xy[1] != '.' && xy[1] != '?' {
		ps.modified++
	}
}
