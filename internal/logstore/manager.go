package logstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pders01/chatlog/internal/models"
)

const (
	// MainBranch is the branch every conversation has.
	MainBranch = "main"
	// MainLogFile is the filename backing the main branch.
	MainLogFile = "conversation.jsonl"
	// BranchesDir holds the non-main branch files.
	BranchesDir = "branches"
)

// Printer displays a message to the user. The display implementation lives
// outside this package; the manager only signals it.
type Printer func(models.Message)

// Manager owns the branches of a single conversation: the mapping of branch
// name to Log, the active branch pointer, and the storage directory they
// persist to. It is not safe for concurrent use; cross-process exclusivity
// comes from the directory lock.
type Manager struct {
	dir      string
	id       string
	current  string
	branches *branchSet
	lock     *DirLock
	printer  Printer
}

// Options configures the in-memory constructor.
type Options struct {
	// Dir is the storage directory. When empty a temporary directory is
	// created.
	Dir string
	// Branch is the initial branch name, defaulting to main.
	Branch string
	// NoLock skips lock acquisition, giving up cross-process exclusivity.
	NoLock bool
	// Printer receives appended messages unless they are quiet.
	Printer Printer
}

// OpenOptions configures loading a conversation from storage.
type OpenOptions struct {
	// Root is the logs root directory; a bare conversation id is resolved
	// against it.
	Root string
	// Branch selects the branch to load, defaulting to main.
	Branch string
	// Create writes an empty log file when the branch file is missing.
	Create bool
	// Initial seeds the branch when the loaded file is empty.
	Initial []models.Message
	NoLock  bool
	Printer Printer
}

// New creates a manager seeded with initial messages on the given branch,
// then picks up any logs already persisted in the directory. The caller must
// Close the manager to release the directory lock.
func New(initial []models.Message, opts Options) (*Manager, error) {
	branch := opts.Branch
	if branch == "" {
		branch = MainBranch
	}

	dir := opts.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "chatlog-*")
		if err != nil {
			return nil, fmt.Errorf("create temporary log directory: %w", err)
		}
		slog.Warn("no log directory specified, using temporary directory", "dir", tmp)
		dir = tmp
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	m := &Manager{
		dir:      dir,
		id:       filepath.Base(dir),
		current:  branch,
		branches: newBranchSet(),
		printer:  opts.Printer,
	}

	if !opts.NoLock {
		lock, err := AcquireDirLock(dir)
		if err != nil {
			return nil, err
		}
		m.lock = lock
	}

	m.branches.set(branch, NewLog(initial))
	if err := m.loadPersisted(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// Open loads a conversation from storage. Path may be the storage directory,
// a direct path to a log file, or a bare id resolved against opts.Root. The
// target branch file must exist unless opts.Create is set.
func Open(path string, opts OpenOptions) (*Manager, error) {
	branch := opts.Branch
	if branch == "" {
		branch = MainBranch
	}

	dir := path
	if strings.HasSuffix(dir, ".jsonl") {
		dir = filepath.Dir(dir)
	}
	if opts.Root != "" && !strings.Contains(dir, opts.Root) {
		dir = filepath.Join(opts.Root, dir)
	}

	logfile := filepath.Join(dir, MainLogFile)
	if branch != MainBranch {
		logfile = filepath.Join(dir, BranchesDir, branch+".jsonl")
	}

	if _, err := os.Stat(logfile); os.IsNotExist(err) {
		if !opts.Create {
			return nil, fmt.Errorf("%s: %w", logfile, ErrLogNotFound)
		}
		if err := NewLog(nil).WriteJSONL(logfile); err != nil {
			return nil, err
		}
	}

	log, err := ReadJSONL(logfile, 0)
	if err != nil {
		return nil, err
	}
	msgs := log.Messages()
	if len(msgs) == 0 {
		msgs = opts.Initial
	}
	return New(msgs, Options{
		Dir:     dir,
		Branch:  branch,
		NoLock:  opts.NoLock,
		Printer: opts.Printer,
	})
}

// loadPersisted reads the main log and any branch files, without displacing
// branches already present in memory. A branch file named like the
// conversation id itself is skipped.
func (m *Manager) loadPersisted() error {
	mainFile := filepath.Join(m.dir, MainLogFile)
	if _, err := os.Stat(mainFile); err == nil && !m.branches.has(MainBranch) {
		log, err := ReadJSONL(mainFile, 0)
		if err != nil {
			return err
		}
		m.branches.set(MainBranch, log)
	}

	files, err := filepath.Glob(filepath.Join(m.dir, BranchesDir, "*.jsonl"))
	if err != nil {
		return fmt.Errorf("scan branches in %s: %w", m.dir, err)
	}
	for _, file := range files {
		if filepath.Base(file) == m.id {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), ".jsonl")
		if m.branches.has(name) {
			continue
		}
		log, err := ReadJSONL(file, 0)
		if err != nil {
			return err
		}
		m.branches.set(name, log)
	}
	return nil
}

// Close releases the directory lock. Safe to call more than once.
func (m *Manager) Close() {
	m.lock.Release()
}

// ID returns the conversation id (the storage directory name).
func (m *Manager) ID() string { return m.id }

// Dir returns the storage directory.
func (m *Manager) Dir() string { return m.dir }

// CurrentBranch returns the active branch name.
func (m *Manager) CurrentBranch() string { return m.current }

// BranchNames returns all branch names in insertion order.
func (m *Manager) BranchNames() []string { return m.branches.names() }

// Log returns the active branch's log.
func (m *Manager) Log() Log {
	log, _ := m.branches.get(m.current)
	return log
}

// BranchLog returns the named branch's log.
func (m *Manager) BranchLog(name string) (Log, bool) {
	return m.branches.get(name)
}

func (m *Manager) setLog(l Log) {
	m.branches.set(m.current, l)
}

// LogFile returns the file backing the active branch.
func (m *Manager) LogFile() string {
	if m.current == MainBranch {
		return filepath.Join(m.dir, MainLogFile)
	}
	return filepath.Join(m.dir, BranchesDir, m.current+".jsonl")
}

// Name returns the display name from the chat config, falling back to the id.
func (m *Manager) Name() string {
	cfg, err := models.LoadChatConfig(m.dir)
	if err != nil {
		slog.Warn("failed to load chat config", "dir", m.dir, "err", err)
	}
	if cfg.Name != "" {
		return cfg.Name
	}
	return m.id
}

// Workspace returns the conversation's workspace path, resolving the
// workspace symlink when present.
func (m *Manager) Workspace() string {
	path := filepath.Join(m.dir, "workspace")
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// Append adds msg to the active branch, persists the conversation, and
// signals the printer unless the message is quiet.
func (m *Manager) Append(msg models.Message) error {
	m.setLog(m.Log().Append(msg))
	if err := m.Write(true); err != nil {
		return err
	}
	if !msg.Quiet && m.printer != nil {
		m.printer(msg)
	}
	return nil
}

// Write persists the active branch to its file and, when includeBranches is
// set, every branch except main to its own file under branches/. Note that
// main is not flushed while another branch is active; every mutating
// operation routes through here, so main's file always reflects its state as
// of the last write made while main was current.
func (m *Manager) Write(includeBranches bool) error {
	if err := m.Log().WriteJSONL(m.LogFile()); err != nil {
		return err
	}
	if !includeBranches {
		return nil
	}
	for _, name := range m.branches.names() {
		if name == MainBranch {
			continue
		}
		log, _ := m.branches.get(name)
		path := filepath.Join(m.dir, BranchesDir, name+".jsonl")
		if err := log.WriteJSONL(path); err != nil {
			return err
		}
	}
	return nil
}

// saveBackupBranch copies the active branch's current content to a new
// branch named {branch}-{kind}-{n}. The counter is recomputed from the
// branch names present at call time so indices are never reused.
func (m *Manager) saveBackupBranch(kind string) error {
	prefix := fmt.Sprintf("%s-%s-", m.current, kind)
	n := 0
	for _, name := range m.branches.names() {
		if strings.HasPrefix(name, prefix) {
			n++
		}
	}
	m.branches.set(prefix+strconv.Itoa(n), m.Log())
	return m.Write(true)
}

// Edit replaces the active branch's content with newLog, preserving the old
// content on an edit backup branch.
func (m *Manager) Edit(newLog Log) error {
	if err := m.saveBackupBranch("edit"); err != nil {
		return err
	}
	m.setLog(newLog)
	return m.Write(true)
}

// Undo removes the last n messages from the active branch. A trailing /undo
// command is dropped first so it is not counted as content, and no backup
// branch is created when the last message is itself a command.
func (m *Manager) Undo(n int, quiet bool) error {
	if last, ok := m.Log().Last(); ok && strings.HasPrefix(last.Content, "/undo") {
		m.setLog(m.Log().Pop())
	}

	if last, ok := m.Log().Last(); ok && !strings.HasPrefix(last.Content, "/") {
		if err := m.saveBackupBranch("undo"); err != nil {
			return err
		}
	}

	if m.Log().Len() == 0 {
		fmt.Println("Nothing to undo.")
		return nil
	}

	if !quiet {
		fmt.Println("Undoing messages:")
	}
	for i := 0; i < n; i++ {
		last, ok := m.Log().Last()
		if !ok {
			break
		}
		m.setLog(m.Log().Pop())
		if !quiet {
			fmt.Printf("  %s: %s\n", last.Role, models.Shorten(strings.TrimSpace(last.Content), 50))
		}
	}
	return nil
}

// Branch switches to the named branch, creating it as a copy of the active
// branch's log when it does not exist. The previous branch is flushed first
// and its data is never discarded.
func (m *Manager) Branch(name string) error {
	if err := m.Write(true); err != nil {
		return err
	}
	if !m.branches.has(name) {
		slog.Info("creating new branch", "name", name)
		m.branches.set(name, m.Log())
	}
	m.current = name
	return nil
}

// Fork copies the whole conversation directory to a sibling directory named
// newID and rebinds the manager to it. The original directory is left
// untouched. The copy is not transactional; an interruption can leave a
// partial destination.
func (m *Manager) Fork(newID string) error {
	if err := m.Write(true); err != nil {
		return err
	}
	dest := filepath.Join(filepath.Dir(m.dir), newID)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("conversation %s already exists", newID)
	}
	if err := copyTree(m.dir, dest); err != nil {
		return fmt.Errorf("fork %s to %s: %w", m.id, newID, err)
	}
	m.dir = dest
	m.id = newID
	return m.Write(true)
}

// Snapshot returns a structured view of the conversation: id, display name,
// the active branch's messages and its file path. With includeBranches it
// also carries every branch's full message list, in branch insertion order.
func (m *Manager) Snapshot(includeBranches bool) map[string]any {
	d := map[string]any{
		"id":      m.id,
		"name":    m.Name(),
		"log":     m.Log().Messages(),
		"logfile": m.LogFile(),
	}
	if includeBranches {
		type branchDump struct {
			Name string           `json:"name"`
			Log  []models.Message `json:"log"`
		}
		dumps := make([]branchDump, 0, len(m.branches.names()))
		for _, name := range m.branches.names() {
			log, _ := m.branches.get(name)
			dumps = append(dumps, branchDump{Name: name, Log: log.Messages()})
		}
		d["branches"] = dumps
	}
	return d
}

// branchSet is an insertion-ordered branch map. Order is observable through
// write-all and snapshot operations, so a plain map will not do.
type branchSet struct {
	order []string
	logs  map[string]Log
}

func newBranchSet() *branchSet {
	return &branchSet{logs: make(map[string]Log)}
}

func (b *branchSet) set(name string, l Log) {
	if _, ok := b.logs[name]; !ok {
		b.order = append(b.order, name)
	}
	b.logs[name] = l
}

func (b *branchSet) get(name string) (Log, bool) {
	l, ok := b.logs[name]
	return l, ok
}

func (b *branchSet) has(name string) bool {
	_, ok := b.logs[name]
	return ok
}

func (b *branchSet) names() []string {
	cp := make([]string, len(b.order))
	copy(cp, b.order)
	return cp
}

// copyTree recursively copies a directory, preserving symlinks (the
// workspace link in particular) and file modes.
func copyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		switch {
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return err
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return err
			}
		case entry.IsDir():
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
