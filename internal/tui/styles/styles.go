package styles

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

type Theme struct {
	Name string

	Primary   color.Color
	Secondary color.Color
	FgBase    color.Color
	FgMuted   color.Color
	FgSubtle  color.Color
	BgSubtle  color.Color
	Border    color.Color
	Error     color.Color
	Warning   color.Color
	Info      color.Color

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style
	Title  lipgloss.Style

	Placeholder lipgloss.Style

	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style

	Status      lipgloss.Style
	StatusError lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusInfo  lipgloss.Style
}

// S returns the styles derived from the theme colors.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),
		Title:  base.Foreground(t.Primary).Bold(true),

		Placeholder: base.Foreground(t.FgSubtle).Faint(true),

		ScrollbarThumb: base.Foreground(t.Secondary),
		ScrollbarTrack: base.Foreground(t.Border),

		Status:      base.Foreground(t.FgMuted).Background(t.BgSubtle).Padding(0, 1),
		StatusError: base.Foreground(t.FgBase).Background(t.Error).Padding(0, 1),
		StatusWarn:  base.Foreground(t.BgSubtle).Background(t.Warning).Padding(0, 1),
		StatusInfo:  base.Foreground(t.BgSubtle).Background(t.Info).Padding(0, 1),
	}
}

var (
	current *Theme
	mu      sync.RWMutex
)

func CurrentTheme() *Theme {
	mu.RLock()
	t := current
	mu.RUnlock()
	if t != nil {
		return t
	}
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = NewCharmtoneTheme()
	}
	return current
}

func SetTheme(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

func NewCharmtoneTheme() *Theme {
	return &Theme{
		Name:      "charmtone",
		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		FgBase:    charmtone.Ash,
		FgMuted:   charmtone.Squid,
		FgSubtle:  charmtone.Oyster,
		BgSubtle:  charmtone.Charcoal,
		Border:    charmtone.Charcoal,
		Error:     charmtone.Sriracha,
		Warning:   charmtone.Zest,
		Info:      charmtone.Malibu,
	}
}
