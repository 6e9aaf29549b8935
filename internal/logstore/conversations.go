package logstore

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pders01/chatlog/internal/models"
)

// Conversations scans root for stored conversations and returns their
// metadata, newest first by modification time. Conversations whose main log
// cannot be read are skipped with a warning.
func Conversations(root string) ([]models.ConversationMeta, error) {
	files, err := filepath.Glob(filepath.Join(root, "*", MainLogFile))
	if err != nil {
		return nil, fmt.Errorf("scan conversations in %s: %w", root, err)
	}

	var metas []models.ConversationMeta
	for _, file := range files {
		meta, err := conversationMeta(file)
		if err != nil {
			slog.Warn("skipping unreadable conversation", "path", file, "err", err)
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Modified.After(metas[j].Modified)
	})
	return metas, nil
}

// UserConversations filters out conversations used for testing and evals.
func UserConversations(root string) ([]models.ConversationMeta, error) {
	metas, err := Conversations(root)
	if err != nil {
		return nil, err
	}
	var out []models.ConversationMeta
	for _, meta := range metas {
		if strings.HasPrefix(meta.ID, "tmp") || strings.HasPrefix(meta.ID, "test-") {
			continue
		}
		if strings.Contains(meta.ID, "-evals-") {
			continue
		}
		out = append(out, meta)
	}
	return out, nil
}

// ListConversations returns at most limit conversations.
func ListConversations(root string, limit int, includeTest bool) ([]models.ConversationMeta, error) {
	var metas []models.ConversationMeta
	var err error
	if includeTest {
		metas, err = Conversations(root)
	} else {
		metas, err = UserConversations(root)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(metas) > limit {
		metas = metas[:limit]
	}
	return metas, nil
}

// conversationMeta builds catalog metadata for one conversation from a
// directory scan plus a peek at the first record.
func conversationMeta(logfile string) (models.ConversationMeta, error) {
	dir := filepath.Dir(logfile)
	id := filepath.Base(dir)

	info, err := os.Stat(logfile)
	if err != nil {
		return models.ConversationMeta{}, err
	}
	modified := info.ModTime()

	peek, err := ReadJSONL(logfile, 1)
	if err != nil {
		return models.ConversationMeta{}, err
	}
	created := modified
	if peek.Len() > 0 {
		created = peek.At(0).Timestamp
	}

	count, err := countRecords(logfile)
	if err != nil {
		return models.ConversationMeta{}, err
	}

	branchFiles, _ := filepath.Glob(filepath.Join(dir, BranchesDir, "*.jsonl"))

	cfg, err := models.LoadChatConfig(dir)
	if err != nil {
		slog.Warn("failed to load chat config", "dir", dir, "err", err)
	}
	name := cfg.Name
	if name == "" {
		name = id
	}

	workspace := cfg.Workspace
	if workspace == "" {
		link := filepath.Join(dir, "workspace")
		if resolved, err := filepath.EvalSymlinks(link); err == nil {
			workspace = resolved
		}
	}

	return models.ConversationMeta{
		ID:        id,
		Name:      name,
		Path:      logfile,
		Created:   created,
		Modified:  modified,
		Messages:  count,
		Branches:  1 + len(branchFiles),
		Workspace: workspace,
	}, nil
}

// countRecords counts non-empty lines without decoding every record.
func countRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			count++
		}
	}
	return count, scanner.Err()
}
