package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/busygit/busygit/internal/model"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
			strings.Join(sections, "\n"))
	}

	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderFooter())

	view := lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		strings.Join(sections, "\n"))

	if len(m.toasts) > 0 {
		toast := m.renderToasts()
		tw := lipgloss.Width(toast)
		th := lipgloss.Height(toast)
		x := m.width - tw - 2
		y := m.height - th - 2
		view = placeOverlay(x, y, toast, view)
	}

	return view
}

func (m *Model) renderHeader() string {
	title := styleTitle.Render("busygit")

	var spinner string
	switch m.phase {
	case PhaseRefreshing:
		spinner = "  " + renderSpinner(m.spinnerFrame) + " Probing..."
	case PhaseFetching:
		target := "all"
		if m.fetchTarget != "" {
			for _, r := range m.records {
				if r.Path == m.fetchTarget {
					target = r.DisplayName()
					break
				}
			}
		}
		spinner = "  " + renderSpinner(m.spinnerFrame) + " Fetching " + target + "..."
	}

	s := m.summary
	bold := lipgloss.NewStyle().Bold(true)
	stats := styleDim.Render("repos ") + bold.Foreground(colorSelFg).Render(fmt.Sprintf("%d", s.Total))
	if s.Conflicted > 0 {
		stats += "  " + styleDim.Render("conflict ") + bold.Foreground(colorCriticalRd).Render(fmt.Sprintf("%d", s.Conflicted))
	}
	if s.Dirty > 0 {
		stats += "  " + styleDim.Render("dirty ") + bold.Foreground(colorDirtyAmber).Render(fmt.Sprintf("%d", s.Dirty))
	}
	if s.Ahead > 0 {
		stats += "  " + styleDim.Render("ahead ") + bold.Foreground(colorCyan).Render(fmt.Sprintf("%d", s.Ahead))
	}
	if s.Behind > 0 {
		stats += "  " + styleDim.Render("behind ") + bold.Foreground(colorDangerRed).Render(fmt.Sprintf("%d", s.Behind))
	}
	if s.InSync > 0 {
		stats += "  " + styleDim.Render("synced ") + bold.Foreground(colorCleanGreen).Render(fmt.Sprintf("%d", s.InSync))
	}
	stats += "  " + styleDim.Render("sort ") + bold.Foreground(colorCyan).Render(m.sortMode.String())

	left := title + spinner
	if m.filterMode {
		left += "  " + m.filterInput.View()
	} else if m.filterText != "" {
		left += "  " + styleDim.Render("filter: "+m.filterText)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(stats)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + stats
	sep := styleDim.Render(strings.Repeat("─", m.width))
	return line + "\n" + sep
}

func (m *Model) renderTable() string {
	if len(m.rows) == 0 {
		msg := "No repositories found"
		if m.filterText != "" {
			msg = "No repositories match the filter"
		} else if m.phase == PhaseRefreshing {
			msg = "Scanning..."
		} else if len(m.eng.DiscoveryErrors()) > 0 {
			msg = fmt.Sprintf("No repositories found (%d path errors, see log)", len(m.eng.DiscoveryErrors()))
		}
		return lipgloss.Place(m.width, m.visibleRows()+1, lipgloss.Center, lipgloss.Center,
			styleDim.Render(msg))
	}

	nameW := 24
	branchW := 22
	localW := 10
	remoteW := 18
	ageW := 8

	header := "   " +
		styleTableHdr.Render(padRight("NAME", nameW)) +
		styleTableHdr.Render(padRight("BRANCH", branchW)) +
		styleTableHdr.Render(padRight("LOCAL", localW)) +
		styleTableHdr.Render(padRight("REMOTE", remoteW)) +
		styleTableHdr.Render(padRight("AGE", ageW)) +
		styleTableHdr.Render("NOTE")

	visible := m.visibleRows()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}

	end := m.scrollOffset + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var lines []string
	lines = append(lines, header)
	for i := m.scrollOffset; i < end; i++ {
		lines = append(lines, m.renderRow(&m.rows[i], i == m.cursor, nameW, branchW, localW, remoteW, ageW))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r *model.Record, selected bool, nameW, branchW, localW, remoteW, ageW int) string {
	icon := statusIcon(r)

	name := truncateWithEllipsis(r.DisplayName(), nameW-2)
	branch := r.Branch
	if r.Detached {
		branch = "(detached)"
	}
	branch = truncateWithEllipsis(branch, branchW-2)

	note := r.LastErr

	line := " " + icon + " " +
		styleRepoName.Render(padRight(name, nameW)) +
		styleBranch.Render(padRight(iconBranch+" "+branch, branchW)) +
		localCell(r.Local, localW) +
		remoteCell(r.Remote, remoteW) +
		styleDim.Render(padRight(ageLabel(r.LastProbed), ageW)) +
		styleDim.Render(truncateWithEllipsis(note, m.width-nameW-branchW-localW-remoteW-ageW-4))

	if selected {
		return lipgloss.NewStyle().
			Background(colorSelBg).
			Foreground(colorSelFg).
			Width(m.width).
			Render(ansi.Strip(line))
	}
	return line
}

func statusIcon(r *model.Record) string {
	switch r.Local {
	case model.LocalConflicted:
		return styleConflict.Render(iconConflict)
	case model.LocalDirty:
		if r.IsWorktree {
			return styleAmber.Render(iconDirtyWt)
		}
		return styleAmber.Render(iconDirty)
	case model.LocalClean:
		if r.IsWorktree {
			return styleCleanTxt.Render(iconCleanWt)
		}
		return styleCleanTxt.Render(iconClean)
	default:
		return styleDim.Render(iconUnknown)
	}
}

func localCell(s model.LocalStatus, width int) string {
	switch s {
	case model.LocalClean:
		return styleCleanTxt.Render(padRight("clean", width))
	case model.LocalDirty:
		return styleAmber.Render(padRight("dirty", width))
	case model.LocalConflicted:
		return styleConflict.Render(padRight("conflict", width))
	default:
		return styleDim.Render(padRight("unknown", width))
	}
}

func remoteCell(r model.RemoteStatus, width int) string {
	switch r.State {
	case model.RemoteUpToDate:
		return styleCleanTxt.Render(padRight("synced", width))
	case model.RemoteAhead:
		return styleAhead.Render(padRight(fmt.Sprintf("%s%d", iconAhead, r.Ahead), width))
	case model.RemoteBehind:
		return styleBehind.Render(padRight(fmt.Sprintf("%s%d", iconBehind, r.Behind), width))
	case model.RemoteDiverged:
		return styleBehind.Render(padRight(fmt.Sprintf("%s%d %s%d", iconAhead, r.Ahead, iconBehind, r.Behind), width))
	case model.RemoteNoUpstream:
		return styleDim.Render(padRight("no remote", width))
	case model.RemoteUnreachable:
		return styleConflict.Render(padRight("unreachable", width))
	default:
		return styleDim.Render(padRight("unknown", width))
	}
}

func ageLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

func (m *Model) renderFooter() string {
	sep := styleDim.Render(strings.Repeat("─", m.width))

	parts := []string{
		styleKey.Render("/") + " filter",
		styleKey.Render("r") + " refresh",
		styleKey.Render("R") + " rescan",
		styleKey.Render("f") + " fetch",
		styleKey.Render("s") + " sort:" + m.sortMode.String(),
		styleKey.Render("e") + " editor",
		styleKey.Render("v") + " git client",
		styleKey.Render("?") + " help",
		styleKey.Render("q") + " quit",
	}

	return sep + "\n " + truncateWithEllipsis(strings.Join(parts, "  "), m.width-2)
}

func (m *Model) renderToasts() string {
	var toastStrs []string
	for _, t := range m.toasts {
		var bc lipgloss.Color
		var icon string
		switch t.Level {
		case ToastSuccess:
			bc = colorGold
		case ToastError:
			bc = colorDangerRed
			icon = iconConflict + " "
		default:
			bc = colorCyan
		}
		box := styleToastBox.BorderForeground(bc).Render(icon + t.Message)
		toastStrs = append(toastStrs, box)
	}
	return strings.Join(toastStrs, "\n")
}

func (m *Model) renderHelp() string {
	content := m.keys.helpText()

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(colorCyan).
		Padding(1, 2).
		Width(50).
		Render(styleTitle.Render("HELP") + "\n\n" + content + "\n\n" + styleDim.Render("press any key to close"))

	availH := m.height - 4
	if availH < 10 {
		availH = 10
	}
	return lipgloss.Place(m.width, availH, lipgloss.Center, lipgloss.Center, box)
}

// --- Layout utilities ---

// placeOverlay writes fg on top of bg at the given column (x) and row (y).
// It handles ANSI-styled strings correctly using ansi.Cut.
func placeOverlay(x, y int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for i, fgLine := range fgLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLine := bgLines[bgIdx]
		fgW := ansi.StringWidth(fgLine)
		bgW := ansi.StringWidth(bgLine)

		if x < 0 {
			x = 0
		}
		if x >= bgW {
			bgLines[bgIdx] = bgLine + strings.Repeat(" ", x-bgW) + fgLine
			continue
		}

		left := ansi.Cut(bgLine, 0, x)
		var right string
		if x+fgW < bgW {
			right = ansi.Cut(bgLine, x+fgW, bgW)
		}
		bgLines[bgIdx] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}
