package cmd

import (
	"os"
	"testing"

	"github.com/pders01/chatlog/internal/logstore"
	"github.com/pders01/chatlog/internal/testutil"
)

func TestForkCopiesConversation(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat", testutil.UserMsg("hello"))

	err := runFork(nil, []string{"chat", "chat-v2"})
	if err != nil {
		t.Fatalf("fork command failed: %v", err)
	}

	if !store.BranchExists("chat-v2", logstore.MainBranch) {
		t.Fatal("expected forked conversation to exist")
	}

	copied := store.ReadBranch("chat-v2", logstore.MainBranch)
	if len(copied) != 1 || copied[0].Content != "hello" {
		t.Errorf("expected copied messages, got %+v", copied)
	}

	// Original untouched
	original := store.ReadBranch("chat", logstore.MainBranch)
	if len(original) != 1 {
		t.Errorf("expected original to keep 1 message, got %d", len(original))
	}
}

func TestForkGeneratesID(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat", testutil.UserMsg("hello"))

	err := runFork(nil, []string{"chat"})
	if err != nil {
		t.Fatalf("fork command failed: %v", err)
	}

	entries, err := os.ReadDir(store.Root)
	if err != nil {
		t.Fatalf("failed to read logs root: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 conversation directories, got %d", len(entries))
	}
}

func TestForkExistingDestination(t *testing.T) {
	store := setupStore(t)
	store.WriteConversation("chat", testutil.UserMsg("hello"))
	store.WriteConversation("taken", testutil.UserMsg("occupied"))

	err := runFork(nil, []string{"chat", "taken"})
	if err == nil {
		t.Error("expected error forking onto an existing conversation")
	}
}
