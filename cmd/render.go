package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentchat/agentchat/pkg/chat"
	"github.com/agentchat/agentchat/pkg/config"
)

// renderer turns the grouped transcript into styled terminal output using the
// configured theme colors.
type renderer struct {
	user     lipgloss.Style
	agent    lipgloss.Style
	system   lipgloss.Style
	activity lipgloss.Style
	accent   lipgloss.Style
	label    lipgloss.Style
}

func newRenderer(theme config.ThemeConfig) *renderer {
	return &renderer{
		user:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.UserColor)).Bold(true),
		agent:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.AgentColor)),
		system:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ErrorColor)),
		activity: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ActivityColor)).Faint(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.AccentColor)).Bold(true),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ActivityColor)).Bold(true),
	}
}

func (r *renderer) banner() string {
	return r.accent.Render("agentchat") + r.activity.Render("  /restart to reset, /quit to leave")
}

func (r *renderer) prompt() string {
	return r.accent.Render("> ")
}

func (r *renderer) errorLine(text string) string {
	return r.system.Render(text)
}

func (r *renderer) printTranscript(w io.Writer, t chat.Transcript) {
	fmt.Fprintln(w)
	for _, entry := range chat.GroupMessages(t) {
		if entry.IsGroup() {
			r.printGroup(w, entry)
			continue
		}
		r.printMessage(w, entry.Message)
	}
}

func (r *renderer) printMessage(w io.Writer, msg chat.Message) {
	switch {
	case msg.IsUser():
		fmt.Fprintln(w, r.user.Render("You: ")+msg.Content)
	case msg.IsSystem():
		fmt.Fprintln(w, r.system.Render(msg.Content))
	default:
		fmt.Fprintln(w, r.accent.Render("Assistant: ")+r.agent.Render(msg.Content))
	}
	fmt.Fprintln(w)
}

func (r *renderer) printGroup(w io.Writer, entry chat.Entry) {
	fmt.Fprintln(w, r.label.Render("· "+entry.StatusText(false)))
	for _, msg := range entry.Activity {
		switch msg.Kind {
		case chat.KindThought:
			fmt.Fprintln(w, r.activity.Render(indent("reasoning: "+msg.Content)))
		case chat.KindToolCall:
			name := "tool"
			args := ""
			if msg.Tool != nil {
				name = msg.Tool.Name
				if raw, err := json.Marshal(msg.Tool.Args); err == nil {
					args = " " + string(raw)
				}
			}
			fmt.Fprintln(w, r.activity.Render(indent("call: "+name+args)))
		case chat.KindToolResult:
			fmt.Fprintln(w, r.activity.Render(indent("result: "+msg.Content)))
		}
	}
	fmt.Fprintln(w)
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
