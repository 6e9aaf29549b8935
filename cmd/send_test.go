package cmd

import (
	"testing"

	"github.com/pders01/chatlog/internal/logstore"
	"github.com/pders01/chatlog/internal/models"
	"github.com/pders01/chatlog/internal/testutil"
)

func resetSendFlags() {
	sendRole = "user"
	sendBranch = ""
	sendQuiet = false
	sendHide = false
	sendFiles = []string{}
}

func TestSendAppendsMessage(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat")

	resetSendFlags()
	sendQuiet = true

	err := runSend(nil, []string{"chat", "hello there"})
	if err != nil {
		t.Fatalf("send command failed: %v", err)
	}

	msgs := store.ReadBranch("chat", logstore.MainBranch)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Content != "hello there" {
		t.Errorf("expected content hello there, got %s", msgs[0].Content)
	}
	if msgs[0].Role != models.RoleUser {
		t.Errorf("expected role user, got %s", msgs[0].Role)
	}
}

func TestSendWithRoleAndFlags(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat")

	resetSendFlags()
	sendRole = "system"
	sendQuiet = true
	sendHide = true
	sendFiles = []string{"main.go"}

	err := runSend(nil, []string{"chat", "internal note"})
	if err != nil {
		t.Fatalf("send command failed: %v", err)
	}

	msgs := store.ReadBranch("chat", logstore.MainBranch)
	if msgs[0].Role != models.RoleSystem {
		t.Errorf("expected role system, got %s", msgs[0].Role)
	}
	if !msgs[0].Hide {
		t.Error("expected hide flag to be set")
	}
	if len(msgs[0].Files) != 1 || msgs[0].Files[0] != "main.go" {
		t.Errorf("expected files [main.go], got %v", msgs[0].Files)
	}

	resetSendFlags()
}

func TestSendInvalidRole(t *testing.T) {
	setupStore(t)

	resetSendFlags()
	sendRole = "robot"

	err := runSend(nil, []string{"chat", "beep"})
	if err == nil {
		t.Error("expected error with invalid role")
	}

	resetSendFlags()
}

func TestSendMissingConversation(t *testing.T) {
	setupStore(t)

	resetSendFlags()
	sendQuiet = true

	err := runSend(nil, []string{"no-such-chat", "hello"})
	if err == nil {
		t.Error("expected error for missing conversation")
	}
}

func TestSendToBranch(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat", testutil.UserMsg("base"))

	branchFrom = ""
	if err := runBranch(nil, []string{"chat", "side"}); err != nil {
		t.Fatalf("branch command failed: %v", err)
	}

	resetSendFlags()
	sendBranch = "side"
	sendQuiet = true

	err := runSend(nil, []string{"chat", "branch only"})
	if err != nil {
		t.Fatalf("send command failed: %v", err)
	}

	side := store.ReadBranch("chat", "side")
	if len(side) != 2 {
		t.Errorf("expected 2 messages on side branch, got %d", len(side))
	}

	main := store.ReadBranch("chat", logstore.MainBranch)
	if len(main) != 1 {
		t.Errorf("expected main to stay at 1 message, got %d", len(main))
	}

	resetSendFlags()
}
