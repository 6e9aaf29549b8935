// Package display renders messages for the console.
package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/chatlog/internal/models"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	contentStyle   = lipgloss.NewStyle()
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

func roleStyle(role models.Role) lipgloss.Style {
	switch role {
	case models.RoleUser:
		return userStyle
	case models.RoleAssistant:
		return assistantStyle
	default:
		return systemStyle
	}
}

// FormatMessage renders a single message. With oneline the content is
// collapsed and shortened.
func FormatMessage(msg models.Message, oneline bool) string {
	label := roleStyle(msg.Role).Render(string(msg.Role) + ":")
	content := msg.Content
	if oneline {
		content = models.Shorten(content, 100)
	}
	body := contentStyle.Render(content)
	if msg.Hide {
		body = dimStyle.Render(content)
	}
	return label + " " + body
}

// PrintMessage writes one message to stdout.
func PrintMessage(msg models.Message) {
	fmt.Println(FormatMessage(msg, false))
}

// PrintMessages writes a sequence of messages, skipping hidden ones unless
// showHidden is set.
func PrintMessages(msgs []models.Message, showHidden bool) {
	for _, msg := range msgs {
		if msg.Hide && !showHidden {
			continue
		}
		PrintMessage(msg)
	}
}
