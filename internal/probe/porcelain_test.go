package probe

import "testing"

func TestParsePorcelainV2Headers(t *testing.T) {
	output := `# branch.oid 1234567890abcdef
# branch.head main
# branch.upstream origin/main
# branch.ab +2 -3
`
	ps := parsePorcelainV2(output)

	if ps.branch != "main" {
		t.Errorf("branch = %q, want main", ps.branch)
	}
	if ps.detached {
		t.Error("detached should be false")
	}
	if ps.upstream != "origin/main" {
		t.Errorf("upstream = %q, want origin/main", ps.upstream)
	}
	if !ps.hasAB {
		t.Error("hasAB should be true")
	}
	if ps.ahead != 2 || ps.behind != 3 {
		t.Errorf("ahead/behind = %d/%d, want 2/3", ps.ahead, ps.behind)
	}
}

func TestParsePorcelainV2DetachedHead(t *testing.T) {
	output := `# branch.oid 1234567890abcdef
# branch.head (detached)
`
	ps := parsePorcelainV2(output)

	if !ps.detached {
		t.Error("detached should be true")
	}
	if ps.branch != "" {
		t.Errorf("branch = %q, want empty", ps.branch)
	}
}

func TestParsePorcelainV2ChangeLines(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		staged    int
		modified  int
		untracked int
		unmerged  int
	}{
		{
			name:     "modified in worktree",
			output:   "1 .M N... 100644 100644 100644 abc def file.txt\n",
			modified: 1,
		},
		{
			name:   "staged only",
			output: "1 M. N... 100644 100644 100644 abc def file.txt\n",
			staged: 1,
		},
		{
			name:     "staged and modified",
			output:   "1 MM N... 100644 100644 100644 abc def file.txt\n",
			staged:   1,
			modified: 1,
		},
		{
			name:   "renamed counts as staged",
			output: "2 R. N... 100644 100644 100644 abc def R100 new.txt\told.txt\n",
			staged: 1,
		},
		{
			name:      "untracked",
			output:    "? junk.txt\n? more.txt\n",
			untracked: 2,
		},
		{
			name:     "unmerged",
			output:   "u UU N... 100644 100644 100644 100644 abc def ghi conflicted.txt\n",
			unmerged: 1,
		},
		{
			name:   "ignored entries skipped",
			output: "! build/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := parsePorcelainV2(tt.output)
			if ps.staged != tt.staged {
				t.Errorf("staged = %d, want %d", ps.staged, tt.staged)
			}
			if ps.modified != tt.modified {
				t.Errorf("modified = %d, want %d", ps.modified, tt.modified)
			}
			if ps.untracked != tt.untracked {
				t.Errorf("untracked = %d, want %d", ps.untracked, tt.untracked)
			}
			if ps.unmerged != tt.unmerged {
				t.Errorf("unmerged = %d, want %d", ps.unmerged, tt.unmerged)
			}
		})
	}
}

func TestParsePorcelainV2NoUpstream(t *testing.T) {
	output := `# branch.oid 1234567890abcdef
# branch.head feature
`
	ps := parsePorcelainV2(output)

	if ps.upstream != "" {
		t.Errorf("upstream = %q, want empty", ps.upstream)
	}
	if ps.hasAB {
		t.Error("hasAB should be false without branch.ab")
	}
}

func TestParsePorcelainV2EmptyOutput(t *testing.T) {
	ps := parsePorcelainV2("")
	if ps.staged != 0 || ps.modified != 0 || ps.untracked != 0 || ps.unmerged != 0 {
		t.Errorf("empty output should yield zero counts: %+v", ps)
	}
}
