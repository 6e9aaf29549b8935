// Package logstore implements the directory-backed, branchable conversation
// log store: the immutable Log container, the JSONL codec, the advisory
// directory lock and the branch-aware Manager on top of them.
package logstore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/chatlog/internal/models"
)

// ErrLogNotFound is returned when a requested log file does not exist and
// creation was not requested.
var ErrLogNotFound = errors.New("log file not found")

// Log is an immutable, ordered sequence of messages. The zero value is an
// empty log. Append and Pop return new values and never alias the receiver's
// backing slice, so a Log can be shared freely between branches.
type Log struct {
	msgs []models.Message
}

// NewLog builds a log from msgs, copying the slice.
func NewLog(msgs []models.Message) Log {
	if len(msgs) == 0 {
		return Log{}
	}
	cp := make([]models.Message, len(msgs))
	copy(cp, msgs)
	return Log{msgs: cp}
}

// Len returns the number of messages.
func (l Log) Len() int { return len(l.msgs) }

// At returns the message at index i.
func (l Log) At(i int) models.Message { return l.msgs[i] }

// Last returns the final message, if any.
func (l Log) Last() (models.Message, bool) {
	if len(l.msgs) == 0 {
		return models.Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// Slice returns a new log holding the messages in [from, to).
func (l Log) Slice(from, to int) Log {
	return NewLog(l.msgs[from:to])
}

// Messages returns a copy of the backing sequence.
func (l Log) Messages() []models.Message {
	cp := make([]models.Message, len(l.msgs))
	copy(cp, l.msgs)
	return cp
}

// Append returns a new log with msg added at the end.
func (l Log) Append(msg models.Message) Log {
	cp := make([]models.Message, len(l.msgs)+1)
	copy(cp, l.msgs)
	cp[len(l.msgs)] = msg
	return Log{msgs: cp}
}

// Pop returns a new log with the last message removed. Popping an empty log
// returns an empty log.
func (l Log) Pop() Log {
	if len(l.msgs) == 0 {
		return Log{}
	}
	cp := make([]models.Message, len(l.msgs)-1)
	copy(cp, l.msgs[:len(l.msgs)-1])
	return Log{msgs: cp}
}

// Equal reports whether both logs hold equal messages in the same order.
func (l Log) Equal(other Log) bool {
	if len(l.msgs) != len(other.msgs) {
		return false
	}
	for i := range l.msgs {
		if !l.msgs[i].Equal(other.msgs[i]) {
			return false
		}
	}
	return true
}

// ReadJSONL reads a log from path, decoding at most limit records (0 reads
// everything). Any malformed record aborts the whole read.
func ReadJSONL(path string, limit int) (Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return Log{}, fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()

	var msgs []models.Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg models.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			return Log{}, fmt.Errorf("parse %s line %d: %w", path, lineNo, err)
		}
		msgs = append(msgs, msg)
		if limit > 0 && len(msgs) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Log{}, fmt.Errorf("read log %s: %w", path, err)
	}
	return Log{msgs: msgs}, nil
}

// WriteJSONL writes the log to path, one record per line, in order. The file
// is written atomically via a temp file and rename.
func (l Log) WriteJSONL(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, msg := range l.msgs {
		if err := enc.Encode(msg); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode message: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush log file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close log file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename log file: %w", err)
	}
	return nil
}
