package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

type keyHelp struct {
	key  string
	desc string
}

func bindingsHelp(bindings ...key.Binding) []keyHelp {
	out := make([]keyHelp, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, keyHelp{key: h.Key, desc: h.Desc})
	}
	return out
}

// renderHelpContent renders the full help text shown in the pager
func renderHelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(10)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("itemlist Help"))
	help.WriteString("\n")

	sections := []struct {
		name     string
		bindings []keyHelp
	}{
		{"Navigation", bindingsHelp(keys.Up, keys.Down)},
		{"Selection", bindingsHelp(keys.Toggle, keys.All, keys.Clear)},
		{"Items", bindingsHelp(keys.Add, keys.Remove)},
		{"Other", bindingsHelp(keys.Hide, keys.Confirm, keys.Help, keys.Quit)},
	}
	for _, section := range sections {
		help.WriteString(sectionStyle.Render(section.name))
		help.WriteString("\n")
		for _, b := range section.bindings {
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.key), descStyle.Render(b.desc)))
		}
	}

	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  New items: type id=label, or just a label to get a generated id"))
	help.WriteString("\n")

	return help.String()
}

// pagerCommand shows text in the ov pager; it satisfies tea.ExecCommand
type pagerCommand struct {
	content string
}

var _ tea.ExecCommand = (*pagerCommand)(nil)

// ov opens the terminal itself, so the streams bubbletea hands over are unused
func (c *pagerCommand) SetStdin(io.Reader)  {}
func (c *pagerCommand) SetStdout(io.Writer) {}
func (c *pagerCommand) SetStderr(io.Writer) {}

func (c *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showHelpInPager releases the terminal to ov and resumes when the pager exits
func showHelpInPager(content string) tea.Cmd {
	return tea.Exec(&pagerCommand{content: content}, func(err error) tea.Msg {
		return helpPagerMsg{err: err}
	})
}
