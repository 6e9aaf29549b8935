package logstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pders01/chatlog/internal/models"
)

func tempManager(t *testing.T, initial ...models.Message) *Manager {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "test-conversation")
	m, err := New(initial, Options{Dir: dir})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestAppendPersistsImmediately(t *testing.T) {
	m := tempManager(t)

	if err := m.Append(testMsg(models.RoleUser, "hello")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	got, err := ReadJSONL(filepath.Join(m.Dir(), MainLogFile), 0)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if got.Len() != 1 || got.At(0).Content != "hello" {
		t.Errorf("expected persisted message, got %+v", got.Messages())
	}
}

func TestOpenMissingConversation(t *testing.T) {
	root := t.TempDir()

	_, err := Open("does-not-exist", OpenOptions{Root: root})
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("expected ErrLogNotFound, got %v", err)
	}
}

func TestOpenCreatesWhenRequested(t *testing.T) {
	root := t.TempDir()

	m, err := Open("fresh", OpenOptions{Root: root, Create: true})
	if err != nil {
		t.Fatalf("failed to open with create: %v", err)
	}
	defer m.Close()

	if _, err := os.Stat(filepath.Join(root, "fresh", MainLogFile)); err != nil {
		t.Errorf("expected main log file to exist: %v", err)
	}
	if m.Log().Len() != 0 {
		t.Errorf("expected empty log, got %d messages", m.Log().Len())
	}
}

func TestOpenSeedsEmptyLogWithInitial(t *testing.T) {
	root := t.TempDir()

	seed := []models.Message{testMsg(models.RoleSystem, "you are helpful")}
	m, err := Open("seeded", OpenOptions{Root: root, Create: true, Initial: seed})
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer m.Close()

	if m.Log().Len() != 1 || m.Log().At(0).Content != "you are helpful" {
		t.Errorf("expected initial messages to seed the empty log, got %+v", m.Log().Messages())
	}
}

func TestOpenByLogFilePath(t *testing.T) {
	root := t.TempDir()

	m, err := Open("by-file", OpenOptions{Root: root, Create: true})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if err := m.Append(testMsg(models.RoleUser, "hi")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	logfile := m.LogFile()
	m.Close()

	reopened, err := Open(logfile, OpenOptions{Root: root})
	if err != nil {
		t.Fatalf("failed to reopen by file path: %v", err)
	}
	defer reopened.Close()

	if reopened.ID() != "by-file" {
		t.Errorf("expected id by-file, got %s", reopened.ID())
	}
	if reopened.Log().Len() != 1 {
		t.Errorf("expected 1 message, got %d", reopened.Log().Len())
	}
}

func TestLockConflict(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locked-conversation")

	first, err := New(nil, Options{Dir: dir})
	if err != nil {
		t.Fatalf("failed to create first manager: %v", err)
	}
	defer first.Close()

	_, err = New(nil, Options{Dir: dir})
	if !errors.Is(err, ErrConversationInUse) {
		t.Errorf("expected ErrConversationInUse, got %v", err)
	}
}

func TestLockReleasedOnClose(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "relock-conversation")

	first, err := New(nil, Options{Dir: dir})
	if err != nil {
		t.Fatalf("failed to create first manager: %v", err)
	}
	first.Close()

	second, err := New(nil, Options{Dir: dir})
	if err != nil {
		t.Fatalf("expected lock to be reacquirable after close: %v", err)
	}
	second.Close()
}

func TestNoLockSkipsLocking(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "unlocked-conversation")

	first, err := New(nil, Options{Dir: dir, NoLock: true})
	if err != nil {
		t.Fatalf("failed to create first manager: %v", err)
	}
	defer first.Close()

	second, err := New(nil, Options{Dir: dir, NoLock: true})
	if err != nil {
		t.Fatalf("expected no lock conflict with NoLock: %v", err)
	}
	second.Close()
}

func TestUndoCreatesBackupBranch(t *testing.T) {
	m := tempManager(t,
		testMsg(models.RoleUser, "A"),
		testMsg(models.RoleAssistant, "B"),
		testMsg(models.RoleUser, "C"),
	)

	if err := m.Undo(1, true); err != nil {
		t.Fatalf("failed to undo: %v", err)
	}
	if err := m.Write(true); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}

	if m.Log().Len() != 2 {
		t.Errorf("expected 2 messages after undo, got %d", m.Log().Len())
	}

	backup, ok := m.BranchLog("main-undo-0")
	if !ok {
		t.Fatal("expected backup branch main-undo-0")
	}
	if backup.Len() != 3 {
		t.Errorf("expected backup to hold 3 messages, got %d", backup.Len())
	}

	// Backup must be on disk too
	backupFile := filepath.Join(m.Dir(), BranchesDir, "main-undo-0.jsonl")
	if _, err := os.Stat(backupFile); err != nil {
		t.Errorf("expected backup branch file to exist: %v", err)
	}
}

func TestUndoMultiple(t *testing.T) {
	m := tempManager(t,
		testMsg(models.RoleUser, "A"),
		testMsg(models.RoleAssistant, "B"),
		testMsg(models.RoleUser, "C"),
	)

	if err := m.Undo(2, true); err != nil {
		t.Fatalf("failed to undo: %v", err)
	}

	if m.Log().Len() != 1 || m.Log().At(0).Content != "A" {
		t.Errorf("expected only A to remain, got %+v", m.Log().Messages())
	}
}

func TestUndoDropsTrailingUndoCommand(t *testing.T) {
	m := tempManager(t,
		testMsg(models.RoleUser, "A"),
		testMsg(models.RoleAssistant, "B"),
		testMsg(models.RoleUser, "/undo"),
	)

	if err := m.Undo(1, true); err != nil {
		t.Fatalf("failed to undo: %v", err)
	}

	// The /undo command is dropped first, then one real message
	if m.Log().Len() != 1 || m.Log().At(0).Content != "A" {
		t.Errorf("expected only A to remain, got %+v", m.Log().Messages())
	}
}

func TestUndoSkipsBackupForCommandMessage(t *testing.T) {
	m := tempManager(t,
		testMsg(models.RoleUser, "A"),
		testMsg(models.RoleUser, "/help"),
	)

	if err := m.Undo(1, true); err != nil {
		t.Fatalf("failed to undo: %v", err)
	}

	if _, ok := m.BranchLog("main-undo-0"); ok {
		t.Error("expected no backup branch when last message is a command")
	}
	if m.Log().Len() != 1 {
		t.Errorf("expected 1 message after undo, got %d", m.Log().Len())
	}
}

func TestUndoEmptyLog(t *testing.T) {
	m := tempManager(t)

	if err := m.Undo(1, true); err != nil {
		t.Fatalf("undo on empty log should not fail: %v", err)
	}
	if m.Log().Len() != 0 {
		t.Errorf("expected log to stay empty, got %d messages", m.Log().Len())
	}
}

func TestEditCreatesBackupBranch(t *testing.T) {
	m := tempManager(t, testMsg(models.RoleUser, "A"))

	replacement := NewLog([]models.Message{
		testMsg(models.RoleUser, "X"),
		testMsg(models.RoleAssistant, "Y"),
	})
	if err := m.Edit(replacement); err != nil {
		t.Fatalf("failed to edit: %v", err)
	}

	if !m.Log().Equal(replacement) {
		t.Errorf("expected replacement content, got %+v", m.Log().Messages())
	}

	backup, ok := m.BranchLog("main-edit-0")
	if !ok {
		t.Fatal("expected backup branch main-edit-0")
	}
	if backup.Len() != 1 || backup.At(0).Content != "A" {
		t.Errorf("expected backup to hold the original message, got %+v", backup.Messages())
	}
}

func TestConsecutiveEditsGetFreshIndices(t *testing.T) {
	m := tempManager(t, testMsg(models.RoleUser, "A"))

	if err := m.Edit(NewLog([]models.Message{testMsg(models.RoleUser, "B")})); err != nil {
		t.Fatalf("first edit failed: %v", err)
	}
	if err := m.Edit(NewLog([]models.Message{testMsg(models.RoleUser, "C")})); err != nil {
		t.Fatalf("second edit failed: %v", err)
	}

	first, ok := m.BranchLog("main-edit-0")
	if !ok {
		t.Fatal("expected backup branch main-edit-0")
	}
	second, ok := m.BranchLog("main-edit-1")
	if !ok {
		t.Fatal("expected backup branch main-edit-1")
	}

	if first.At(0).Content != "A" {
		t.Errorf("expected first backup to hold A, got %s", first.At(0).Content)
	}
	if second.At(0).Content != "B" {
		t.Errorf("expected second backup to hold B, got %s", second.At(0).Content)
	}
}

func TestBranchSwitchPreservesData(t *testing.T) {
	m := tempManager(t, testMsg(models.RoleUser, "shared"))

	if err := m.Branch("experiment"); err != nil {
		t.Fatalf("failed to branch: %v", err)
	}
	if m.CurrentBranch() != "experiment" {
		t.Errorf("expected current branch experiment, got %s", m.CurrentBranch())
	}

	if err := m.Append(testMsg(models.RoleUser, "only-here")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	if err := m.Branch(MainBranch); err != nil {
		t.Fatalf("failed to switch back: %v", err)
	}

	if m.Log().Len() != 1 {
		t.Errorf("expected main to still have 1 message, got %d", m.Log().Len())
	}
	experiment, _ := m.BranchLog("experiment")
	if experiment.Len() != 2 {
		t.Errorf("expected experiment to have 2 messages, got %d", experiment.Len())
	}
}

func TestBranchesReloadedOnOpen(t *testing.T) {
	root := t.TempDir()

	m, err := Open("reload", OpenOptions{Root: root, Create: true})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if err := m.Append(testMsg(models.RoleUser, "hi")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	if err := m.Branch("side"); err != nil {
		t.Fatalf("failed to branch: %v", err)
	}
	if err := m.Write(true); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}
	m.Close()

	reopened, err := Open("reload", OpenOptions{Root: root})
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer reopened.Close()

	names := reopened.BranchNames()
	found := false
	for _, name := range names {
		if name == "side" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected branch side to be reloaded, got %v", names)
	}
}

func TestForkCopiesConversation(t *testing.T) {
	root := t.TempDir()

	m, err := Open("original", OpenOptions{Root: root, Create: true})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	defer m.Close()

	if err := m.Append(testMsg(models.RoleUser, "hi")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	if err := m.Branch("side"); err != nil {
		t.Fatalf("failed to branch: %v", err)
	}

	if err := m.Fork("copy"); err != nil {
		t.Fatalf("failed to fork: %v", err)
	}

	if m.ID() != "copy" {
		t.Errorf("expected manager to rebind to copy, got %s", m.ID())
	}
	if m.Dir() != filepath.Join(root, "copy") {
		t.Errorf("expected dir %s, got %s", filepath.Join(root, "copy"), m.Dir())
	}

	// Original stays intact
	if _, err := os.Stat(filepath.Join(root, "original", MainLogFile)); err != nil {
		t.Errorf("expected original main log to survive: %v", err)
	}
	// Copy has main log and branch file
	if _, err := os.Stat(filepath.Join(root, "copy", MainLogFile)); err != nil {
		t.Errorf("expected copied main log: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "copy", BranchesDir, "side.jsonl")); err != nil {
		t.Errorf("expected copied branch file: %v", err)
	}
}

func TestForkExistingDestination(t *testing.T) {
	root := t.TempDir()

	m, err := Open("source", OpenOptions{Root: root, Create: true})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	defer m.Close()

	if err := os.MkdirAll(filepath.Join(root, "taken"), 0755); err != nil {
		t.Fatalf("failed to create destination: %v", err)
	}

	if err := m.Fork("taken"); err == nil {
		t.Error("expected error forking onto an existing conversation")
	}
}

func TestSnapshot(t *testing.T) {
	m := tempManager(t, testMsg(models.RoleUser, "hi"))

	if err := m.Branch("side"); err != nil {
		t.Fatalf("failed to branch: %v", err)
	}
	if err := m.Branch(MainBranch); err != nil {
		t.Fatalf("failed to switch back: %v", err)
	}

	snapshot := m.Snapshot(true)

	if snapshot["id"] != m.ID() {
		t.Errorf("expected id %s, got %v", m.ID(), snapshot["id"])
	}
	if _, ok := snapshot["branches"]; !ok {
		t.Error("expected branches in snapshot")
	}

	plain := m.Snapshot(false)
	if _, ok := plain["branches"]; ok {
		t.Error("expected no branches without includeBranches")
	}
}

func TestPrinterSignaledOnAppend(t *testing.T) {
	var printed []models.Message
	dir := filepath.Join(t.TempDir(), "printed-conversation")
	m, err := New(nil, Options{
		Dir:     dir,
		Printer: func(msg models.Message) { printed = append(printed, msg) },
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	defer m.Close()

	if err := m.Append(testMsg(models.RoleUser, "visible")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	quiet := testMsg(models.RoleSystem, "silent")
	quiet.Quiet = true
	if err := m.Append(quiet); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	if len(printed) != 1 || printed[0].Content != "visible" {
		t.Errorf("expected only the visible message to be printed, got %+v", printed)
	}
}
