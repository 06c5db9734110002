package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func (r *Root) headerText() string {
	width := max(1, r.cols-1)
	parts := []string{"Stargazer", r.screenTitle()}
	if r.settings.MusicOn {
		if r.ascii {
			parts = append(parts, "music on")
		} else {
			parts = append(parts, "♪ music")
		}
	}
	parts = append(parts, fmt.Sprintf("%d/%d achievements", r.home.Unlocked, max(r.home.Total, 1)))
	txt := trimForWidth(strings.Join(parts, " | "), width)
	if r.debug {
		txt = trimForWidth(fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout), width)
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) screenTitle() string {
	switch r.screen {
	case ScreenCatalog:
		return "Explore the sky"
	case ScreenDetail:
		if r.detail.Name != "" {
			return r.detail.Name
		}
		return "Object"
	case ScreenAchievements:
		return "Achievements"
	case ScreenNotes:
		return "My Constellation"
	case ScreenSettings:
		return "Settings"
	case ScreenIntro:
		return "Welcome"
	default:
		return "Home"
	}
}

func (r *Root) statusText() string {
	keys := r.help.View(r.helpKeys())
	if r.busy {
		keys += " | " + r.theme.Accent.Render(strings.TrimSpace(r.spin.View())+" Working...")
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) bodyHeight() int {
	return max(3, r.rows-2)
}

// columns splits the body into a list pane and a detail pane. Medium layouts
// stack nothing and give the whole width to the list.
func (r *Root) columns() (left, right int) {
	if r.layout == LayoutWide {
		left = r.cols * 2 / 5
		return left, r.cols - left
	}
	return r.cols, 0
}

func joinColumns(left, right string) string {
	if right == "" {
		return left
	}
	ll := strings.Split(left, "\n")
	rl := strings.Split(right, "\n")
	n := max(len(ll), len(rl))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		var a, b string
		if i < len(ll) {
			a = ll[i]
		}
		if i < len(rl) {
			b = rl[i]
		}
		out[i] = a + b
	}
	return strings.Join(out, "\n")
}

func (r *Root) cursor(selected bool) string {
	if !selected {
		return "  "
	}
	if r.ascii {
		return "> "
	}
	return "▸ "
}

func (r *Root) renderTooSmall() string {
	lines := []string{
		"Terminal too small.",
		fmt.Sprintf("Need at least 60x16, have %dx%d.", r.cols, r.rows),
		"Resize the window or press q to quit.",
	}
	return r.drawPanel("Stargazer", lines, r.cols, r.bodyHeight())
}

type introSlide struct {
	title  string
	text   string
	button string
}

var introSlides = []introSlide{
	{
		title:  "Welcome to the Silent Sky",
		text:   "Join a celestial journey where each star tells a story. We will explore the night sky like never before.",
		button: "next",
	},
	{
		title:  "Your Telescope Guide",
		text:   "Learn what to watch, when to look, and how to spot planets, stars and constellations with your telescope.",
		button: "got it",
	},
	{
		title:  "Earn Achievements",
		text:   "Read articles, observe the sky and track your discoveries. Every step brings you closer to becoming a true skywatcher.",
		button: "begin",
	},
}

func (r *Root) renderIntro() string {
	i := clampIndex(r.introIndex, len(introSlides))
	slide := introSlides[i]
	width := min(r.cols, 72)
	lines := []string{"", r.theme.Unlocked.Render(slide.title), ""}
	lines = append(lines, wrapText(slide.text, max(10, width-4))...)
	dots := make([]string, len(introSlides))
	for j := range introSlides {
		switch {
		case j == i && r.ascii:
			dots[j] = "*"
		case j == i:
			dots[j] = "●"
		case r.ascii:
			dots[j] = "."
		default:
			dots[j] = "○"
		}
	}
	lines = append(lines, "", strings.Join(dots, " "))
	return r.drawPanel("Stargazer", lines, width, r.bodyHeight())
}

func (r *Root) renderHome() string {
	h := r.bodyHeight()
	left, right := r.columns()
	menu := make([]string, 0, len(homeMenu)+2)
	menu = append(menu, "")
	for i, entry := range homeMenu {
		line := r.cursor(i == r.homeIndex) + entry.label
		if i == r.homeIndex {
			line = r.theme.Selected.Render(line)
		}
		menu = append(menu, line)
	}
	summary := r.homeSummary(max(10, right-4))
	if right == 0 {
		menu = append(menu, "")
		menu = append(menu, summary...)
		return r.drawPanel("Menu", menu, left, h)
	}
	return joinColumns(
		r.drawPanel("Menu", menu, left, h),
		r.drawPanel("Your sky", summary, right, h),
	)
}

func (r *Root) homeSummary(width int) []string {
	s := r.home
	r.completion.SetWidth(min(32, max(10, width-12)))
	pct := float64(s.Completion) / 100
	lines := []string{
		fmt.Sprintf("Objects viewed:   %d", s.Viewed),
		fmt.Sprintf("Observed:         %d of %d", s.Observed, s.CatalogSize),
		fmt.Sprintf("Rated:            %d", s.Rated),
		fmt.Sprintf("Quizzes passed:   %d", s.Quizzes),
		"",
		"Completion " + r.completion.ViewAs(pct),
		r.theme.Unlocked.Render(fmt.Sprintf("Unlocked %d of %d", s.Unlocked, max(s.Total, 1))),
		"",
		fmt.Sprintf("Favourites: %d   Notes: %d", s.FavoriteCount, s.NoteCount),
	}
	if s.Tip != "" {
		lines = append(lines, "", r.theme.Muted.Render(trimForWidth("Tip: "+s.Tip, width)))
	}
	return lines
}

func (r *Root) renderCatalog() string {
	h := r.bodyHeight()
	left, right := r.columns()

	tabs := make([]string, 0, len(r.catalog.Filters))
	for _, f := range r.catalog.Filters {
		if f == r.catalog.Filter {
			tabs = append(tabs, r.theme.Accent.Render("["+f+"]"))
		} else {
			tabs = append(tabs, r.theme.Muted.Render(" "+f+" "))
		}
	}
	lines := []string{strings.Join(tabs, " "), ""}
	rows := r.catalog.Rows
	if len(rows) == 0 {
		lines = append(lines, r.theme.Muted.Render("Nothing here yet."))
	}
	visible := max(1, h-4)
	start := 0
	if r.catalogIndex >= visible {
		start = r.catalogIndex - visible + 1
	}
	for i := start; i < len(rows) && i < start+visible; i++ {
		lines = append(lines, r.objectLine(rows[i], i == r.catalogIndex, left-4))
	}
	list := r.drawPanel("Catalog", lines, left, h)
	if right == 0 || len(rows) == 0 {
		return list
	}
	sel := rows[clampIndex(r.catalogIndex, len(rows))]
	info := []string{
		r.theme.PanelTitle.Render(sel.Name),
		r.theme.Muted.Render(sel.Kind),
		"",
		"Observed: " + yesNo(sel.Observed),
		"Rating:   " + r.stars(sel.Rating),
		"Favourite: " + yesNo(sel.Favorite),
		"",
		"Press enter for details.",
	}
	return joinColumns(list, r.drawPanel("Selected", info, right, h))
}

func (r *Root) objectLine(row ObjectRow, selected bool, width int) string {
	fav := "  "
	if row.Favorite {
		fav = r.glyph("★ ", "* ")
	}
	seen := "  "
	if row.Observed {
		seen = r.glyph("✓ ", "v ")
	}
	line := r.cursor(selected) + fav + seen + row.Name
	if row.Kind != "" {
		line += "  " + r.theme.Muted.Render(row.Kind)
	}
	line = trimForWidth(line, max(1, width))
	if selected {
		return r.theme.Selected.Render(line)
	}
	return line
}

func (r *Root) glyph(unicode, ascii string) string {
	if r.ascii {
		return ascii
	}
	return unicode
}

func (r *Root) stars(rating int) string {
	full, empty := r.glyph("★", "*"), r.glyph("☆", ".")
	rating = max(0, min(rating, 5))
	return strings.Repeat(full, rating) + strings.Repeat(empty, 5-rating)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (r *Root) renderMarkdown(width int) []string {
	if r.mdFor != r.detail.ID || r.mdOut == "" {
		out := r.detail.Markdown
		if r.markdown != nil && out != "" {
			if rendered, err := r.markdown.Render(out); err == nil {
				out = rendered
			} else {
				r.logger.Warn("ui.markdown_render", "object", r.detail.ID, "err", err)
			}
		}
		r.mdFor = r.detail.ID
		r.mdOut = out
	}
	lines := strings.Split(strings.Trim(r.mdOut, "\n"), "\n")
	for i, l := range lines {
		lines[i] = truncateCells(l, width)
	}
	return lines
}

func (r *Root) renderDetail() string {
	h := r.bodyHeight()
	if r.detail.ID == "" {
		return r.drawPanel("Object", []string{r.theme.Muted.Render("Loading...")}, r.cols, h)
	}
	left, right := r.columns()
	if right == 0 {
		left = r.cols
	}
	info := r.renderMarkdown(max(1, left-2))
	panels := r.observationLines()
	panels = append(panels, "")
	panels = append(panels, r.quizLines()...)
	if right == 0 {
		lines := append(info, "")
		lines = append(lines, panels...)
		return r.drawPanel(r.detail.Name, lines, left, h)
	}
	return joinColumns(
		r.drawPanel(r.detail.Name, info, left, h),
		r.drawPanel("Observation", panels, right, h),
	)
}

func (r *Root) observationLines() []string {
	d := r.detail.Draft
	check := "[ ]"
	if d.Observed {
		check = "[x]"
	}
	fav := "no"
	if r.detail.Favorite {
		fav = r.glyph("★ yes", "* yes")
	}
	lines := []string{
		"Observed:  " + check,
		"Rating:    " + r.stars(d.Rating),
		"Favourite: " + fav,
	}
	if r.editingObs {
		lines = append(lines, "Note:", r.obsNote.View())
	} else if d.Note != "" {
		lines = append(lines, "Note: "+d.Note)
	} else {
		lines = append(lines, r.theme.Muted.Render("Note: (press n)"))
	}
	if !r.detail.Saved {
		lines = append(lines, r.theme.Muted.Render("Not saved yet"))
	}
	return lines
}

func (r *Root) quizLines() []string {
	q := r.detail.Quiz
	if q == nil {
		return nil
	}
	lines := []string{r.theme.PanelTitle.Render("Quiz"), q.Question}
	for _, c := range q.Choices {
		line := fmt.Sprintf("  %s) %s", c.Key, c.Text)
		if c.Key == q.Selected {
			line = r.cursor(true) + fmt.Sprintf("%s) %s", c.Key, c.Text)
		}
		lines = append(lines, line)
	}
	switch {
	case q.Message != "" && q.Correct:
		lines = append(lines, r.theme.Pass.Render(q.Message))
	case q.Message != "":
		lines = append(lines, r.theme.Fail.Render(q.Message))
	case q.Passed:
		lines = append(lines, r.theme.Pass.Render("Already passed"))
	}
	return lines
}

func (r *Root) flashing(title string) bool {
	if !r.flashOn || r.flashLeft <= 0 {
		return false
	}
	for _, t := range r.achievements.Flash {
		if t == title {
			return true
		}
	}
	return false
}

func (r *Root) renderAchievements() string {
	h := r.bodyHeight()
	s := r.achievements
	label := "all"
	if r.unlockedOnly {
		label = "unlocked only"
	}
	lines := []string{
		r.theme.Unlocked.Render(fmt.Sprintf("Unlocked %d of %d", s.Unlocked, max(s.Total, len(s.Rows)))) +
			r.theme.Muted.Render("  showing "+label),
		"",
	}
	rows := r.visibleAchievements()
	if len(rows) == 0 {
		lines = append(lines, r.theme.Muted.Render("No achievements unlocked yet. Keep looking up!"))
	}
	for i, row := range rows {
		icon := r.glyph("○ ", "[ ] ")
		style := r.theme.Locked
		if row.Unlocked {
			icon = r.glyph("✦ ", "[*] ")
			style = r.theme.Unlocked
		}
		title := row.Title
		switch {
		case r.flashing(row.Title):
			title = r.theme.Flash.Render(title)
		default:
			title = style.Render(title)
		}
		line := r.cursor(i == r.achIndex) + icon + title
		if r.layout == LayoutWide {
			line += "  " + r.theme.Muted.Render(row.Caption)
		}
		lines = append(lines, line)
	}
	if r.layout != LayoutWide && len(rows) > 0 {
		sel := rows[clampIndex(r.achIndex, len(rows))]
		lines = append(lines, "", r.theme.Muted.Render(sel.Caption))
	}
	return r.drawPanel("Achievements", lines, r.cols, h)
}

func (r *Root) renderNotes() string {
	h := r.bodyHeight()
	left, right := r.columns()
	lines := make([]string, 0, len(r.notes)+2)
	if len(r.notes) == 0 {
		lines = append(lines, r.theme.Muted.Render("No notes yet. Press a to add one."))
	}
	for i, n := range r.notes {
		photo := ""
		if n.ImageURI != "" {
			photo = r.glyph(" ▣", " [photo]")
		}
		line := trimForWidth(r.cursor(i == r.notesIndex)+n.Text, max(1, left-12)) + photo
		if i == r.notesIndex {
			line = r.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	if r.editing {
		lines = append(lines, "", r.noteEditorTitle())
		lines = append(lines, "Text:  "+r.noteText.View())
		lines = append(lines, "Photo: "+r.notePhoto.View())
	}
	list := r.drawPanel("My Constellation", lines, left, h)
	if right == 0 {
		return list
	}
	n, ok := r.selectedNote()
	if !ok {
		return joinColumns(list, r.drawPanel("Note", nil, right, h))
	}
	detail := wrapText(n.Text, max(10, right-4))
	detail = append(detail, "", r.theme.Muted.Render("Updated "+n.Updated))
	if n.ImageURI != "" {
		detail = append(detail, r.theme.Muted.Render("Photo "+n.ImageURI))
	}
	return joinColumns(list, r.drawPanel("Note", detail, right, h))
}

func (r *Root) noteEditorTitle() string {
	if r.editNoteID == "" {
		return r.theme.PanelTitle.Render("New note")
	}
	return r.theme.PanelTitle.Render("Edit note")
}

func (r *Root) renderSettings() string {
	toggle := func(on bool) string {
		if on {
			return r.theme.Pass.Render("on")
		}
		return r.theme.Muted.Render("off")
	}
	items := []string{
		"Background music: " + toggle(r.settings.MusicOn),
		"Vibration:        " + toggle(r.settings.VibrationOn),
	}
	lines := []string{""}
	for i, item := range items {
		lines = append(lines, r.cursor(i == r.settingsIndex)+item)
	}
	lines = append(lines, "", r.theme.Muted.Render("Theme: "+r.styleVariant))
	return r.drawPanel("Settings", lines, r.cols, r.bodyHeight())
}

func (r *Root) renderOverlay() string {
	spec, ok := r.overlaySpec()
	if !ok {
		return ""
	}
	return r.drawPanel(spec.title, spec.lines, spec.width, spec.height)
}

type overlaySpec struct {
	title  string
	lines  []string
	width  int
	height int
}

func (r *Root) overlaySpec() (overlaySpec, bool) {
	var title, question string
	switch r.confirm {
	case confirmReset:
		title = "Reset achievements"
		question = "Clear every unlocked achievement? Counters stay."
	case confirmDeleteNote:
		title = "Delete note"
		question = "Delete the selected note and its photo?"
	default:
		return overlaySpec{}, false
	}
	lines := []string{question, ""}
	for i, label := range []string{"Cancel", "Confirm"} {
		lines = append(lines, r.cursor(i == r.confirmIndex)+label)
	}
	w := min(max(40, len(question)+4), r.cols)
	return overlaySpec{title: title, lines: lines, width: w, height: len(lines) + 2}, true
}

func wrapText(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && ansi.StringWidth(line)+1+ansi.StringWidth(word) > width {
				out = append(out, line)
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		out = append(out, line)
	}
	return out
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + ansi.Strip(title) + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padCells(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

// padCells pads or cuts s to exactly width terminal cells, keeping styling.
func padCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = truncateCells(strings.ReplaceAll(s, "\t", "    "), width)
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func truncateCells(s string, width int) string {
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "")
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	ow := 1
	for _, line := range overlayLines {
		if lw := len([]rune(line)); lw > ow {
			ow = lw
		}
	}
	ow = min(ow, cols)
	oh := min(len(overlayLines), rows)
	startRow := (rows - oh) / 2
	startCol := max(0, (cols-ow)/2)

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
