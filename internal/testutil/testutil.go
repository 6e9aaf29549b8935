package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pders01/chatlog/internal/logstore"
	"github.com/pders01/chatlog/internal/models"
)

// TempStore creates a temporary logs root for testing
type TempStore struct {
	Root string
	T    *testing.T
}

// NewTempStore creates a new temporary logs root
func NewTempStore(t *testing.T) *TempStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "chatlog-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	return &TempStore{
		Root: tmpDir,
		T:    t,
	}
}

// Cleanup removes the temporary logs root
func (s *TempStore) Cleanup() {
	s.T.Helper()
	if err := os.RemoveAll(s.Root); err != nil {
		s.T.Errorf("failed to cleanup temp store: %v", err)
	}
}

// ConversationDir returns the directory for a conversation id
func (s *TempStore) ConversationDir(id string) string {
	return filepath.Join(s.Root, id)
}

// WriteConversation creates a conversation directory with the given messages
func (s *TempStore) WriteConversation(id string, msgs ...models.Message) string {
	s.T.Helper()

	dir := s.ConversationDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.T.Fatalf("failed to create conversation dir: %v", err)
	}
	if err := logstore.NewLog(msgs).WriteJSONL(filepath.Join(dir, logstore.MainLogFile)); err != nil {
		s.T.Fatalf("failed to write conversation: %v", err)
	}
	return dir
}

// ReadBranch reads a branch log from a conversation directory
func (s *TempStore) ReadBranch(id, branch string) []models.Message {
	s.T.Helper()

	dir := s.ConversationDir(id)
	path := filepath.Join(dir, logstore.MainLogFile)
	if branch != logstore.MainBranch {
		path = filepath.Join(dir, logstore.BranchesDir, branch+".jsonl")
	}
	log, err := logstore.ReadJSONL(path, 0)
	if err != nil {
		s.T.Fatalf("failed to read branch %s: %v", branch, err)
	}
	return log.Messages()
}

// BranchExists checks if a branch file exists for a conversation
func (s *TempStore) BranchExists(id, branch string) bool {
	s.T.Helper()

	dir := s.ConversationDir(id)
	path := filepath.Join(dir, logstore.MainLogFile)
	if branch != logstore.MainBranch {
		path = filepath.Join(dir, logstore.BranchesDir, branch+".jsonl")
	}
	_, err := os.Stat(path)
	return err == nil
}

// UserMsg builds a user message with a fixed timestamp
func UserMsg(content string) models.Message {
	return timedMsg(models.RoleUser, content)
}

// AssistantMsg builds an assistant message with a fixed timestamp
func AssistantMsg(content string) models.Message {
	return timedMsg(models.RoleAssistant, content)
}

// SystemMsg builds a system message with a fixed timestamp
func SystemMsg(content string) models.Message {
	return timedMsg(models.RoleSystem, content)
}

func timedMsg(role models.Role, content string) models.Message {
	return models.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
