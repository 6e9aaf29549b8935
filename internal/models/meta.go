package models

import (
	"fmt"
	"time"
)

// ConversationMeta describes a stored conversation as seen by the catalog.
type ConversationMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
	Messages  int       `json:"messages"`
	Branches  int       `json:"branches"`
	Workspace string    `json:"workspace,omitempty"`
}

// Format renders the conversation metadata for display.
func (c ConversationMeta) Format(metadata bool) string {
	out := fmt.Sprintf("%s (id: %s)", c.Name, c.ID)
	if metadata {
		out += fmt.Sprintf("\nMessages: %d", c.Messages)
		out += fmt.Sprintf("\nCreated:  %s", c.Created.Format("2006-01-02 15:04"))
		out += fmt.Sprintf("\nModified: %s", c.Modified.Format("2006-01-02 15:04"))
		if c.Branches > 1 {
			out += fmt.Sprintf("\n(%d branches)", c.Branches)
		}
	}
	return out
}
