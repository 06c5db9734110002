package ui

import "charm.land/lipgloss/v2"

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Overlay     lipgloss.Style
	Accent      lipgloss.Style
	Selected    lipgloss.Style
	Unlocked    lipgloss.Style
	Locked      lipgloss.Style
	Flash       lipgloss.Style
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Muted       lipgloss.Style
}

const (
	StyleNightSky = "night_sky"
	StyleAurora   = "aurora"
	StyleRedLight = "red_light"
)

func DefaultTheme() Theme {
	return ThemeForVariant(StyleNightSky)
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case StyleAurora:
		return auroraTheme()
	case StyleRedLight:
		return redLightTheme()
	default:
		return nightSkyTheme()
	}
}

func nightSkyTheme() Theme {
	sky := lipgloss.Color("#4D96FF")
	coral := lipgloss.Color("#FF6B6B")
	lemon := lipgloss.Color("#FFE66D")
	ink := lipgloss.Color("#0B1026")
	slate := lipgloss.Color("#1C2547")
	white := lipgloss.Color("#FFFFFF")
	border := lipgloss.Color("#3A4A7A")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(lemon).
			Bold(true).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(white).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(sky).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(border),
		PanelBody: lipgloss.NewStyle().
			Foreground(white),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lemon).
			Background(ink).
			Foreground(white).
			Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(sky).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(ink).Background(sky),
		Unlocked: lipgloss.NewStyle().Foreground(lemon).Bold(true),
		Locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7899")),
		Flash:    lipgloss.NewStyle().Foreground(ink).Background(lemon).Bold(true),
		Pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6BFFB8")).Bold(true),
		Fail:     lipgloss.NewStyle().Foreground(coral).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),
	}
}

func auroraTheme() Theme {
	green := lipgloss.Color("#7CF2B0")
	violet := lipgloss.Color("#B48CFF")
	rose := lipgloss.Color("#FF7AA8")
	night := lipgloss.Color("#0A1A1F")
	teal := lipgloss.Color("#163A40")
	paper := lipgloss.Color("#E8FFF6")

	return Theme{
		Header:      lipgloss.NewStyle().Background(night).Foreground(green).Bold(true).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(teal).Foreground(paper).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(violet).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(teal),
		PanelBody:   lipgloss.NewStyle().Foreground(paper),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(violet).
			Background(night).
			Foreground(paper).
			Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(green).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(night).Background(green),
		Unlocked: lipgloss.NewStyle().Foreground(violet).Bold(true),
		Locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4F7A73")),
		Flash:    lipgloss.NewStyle().Foreground(night).Background(violet).Bold(true),
		Pass:     lipgloss.NewStyle().Foreground(green).Bold(true),
		Fail:     lipgloss.NewStyle().Foreground(rose).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8FB8AE")),
	}
}

// redLightTheme keeps everything in dim reds so night vision survives.
func redLightTheme() Theme {
	red := lipgloss.Color("#C62828")
	dim := lipgloss.Color("#7A1A1A")
	deep := lipgloss.Color("#120404")
	glow := lipgloss.Color("#FF5C5C")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Bold(true).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(deep).Foreground(red).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(glow).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(dim),
		PanelBody:   lipgloss.NewStyle().Foreground(red),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(red).
			Background(deep).
			Foreground(red).
			Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(glow).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(deep).Background(red),
		Unlocked: lipgloss.NewStyle().Foreground(glow).Bold(true),
		Locked:   lipgloss.NewStyle().Foreground(dim),
		Flash:    lipgloss.NewStyle().Foreground(deep).Background(glow).Bold(true),
		Pass:     lipgloss.NewStyle().Foreground(glow).Bold(true),
		Fail:     lipgloss.NewStyle().Foreground(glow).Underline(true),
		Muted:    lipgloss.NewStyle().Foreground(dim),
	}
}
