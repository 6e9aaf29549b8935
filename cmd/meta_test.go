package cmd

import (
	"testing"

	"github.com/pders01/chatlog/internal/testutil"
)

func TestMetaShowsConversation(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat", testutil.UserMsg("a"), testutil.AssistantMsg("b"))

	// Reset flags
	metaJSON = false
	metaToon = false

	err := runMeta(nil, []string{"chat"})
	if err != nil {
		t.Fatalf("meta command failed: %v", err)
	}
}

func TestMetaJSON(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat", testutil.UserMsg("a"))

	metaJSON = true
	metaToon = false

	err := runMeta(nil, []string{"chat"})
	if err != nil {
		t.Fatalf("meta command failed: %v", err)
	}

	metaJSON = false
}

func TestMetaMissingConversation(t *testing.T) {
	setupStore(t)

	metaJSON = false
	metaToon = false

	err := runMeta(nil, []string{"no-such-chat"})
	if err == nil {
		t.Error("expected error for missing conversation")
	}
}
