package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one parsed log line with its structured fields.
type Entry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	AgentID   string         `json:"agent_id,omitempty"`
	ChainID   string         `json:"chain_id,omitempty"`
	Attrs     map[string]any `json:"-"`
}

// Filter defines criteria for selecting log entries.
type Filter struct {
	// Level keeps entries at or above this level. Empty keeps all.
	Level string

	// AgentID keeps entries carrying this agent. Empty keeps all.
	AgentID string

	// Since keeps entries at or after this time. Zero keeps all.
	Since time.Time

	// Contains keeps entries whose message contains this substring.
	Contains string
}

// levelOrder orders levels for threshold filtering.
var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseEntry parses one JSON log line. Fields beyond the standard set
// land in Attrs.
func ParseEntry(line []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(line, &entry); err != nil {
		return Entry{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err == nil {
		delete(raw, "time")
		delete(raw, "level")
		delete(raw, "msg")
		delete(raw, "agent_id")
		delete(raw, "chain_id")
		if len(raw) > 0 {
			entry.Attrs = raw
		}
	}
	return entry, nil
}

// ReadEntries parses the accordo log in dir, oldest entry first.
// Malformed lines are skipped; a log half-written by a dying process
// should not make history unreadable.
func ReadEntries(dir string) ([]Entry, error) {
	path := filepath.Join(dir, FileName)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		entry, err := ParseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}
	return entries, nil
}

// FilterEntries returns the entries matching every set criterion.
func FilterEntries(entries []Entry, f Filter) []Entry {
	threshold, filterLevel := levelOrder[strings.ToUpper(f.Level)]

	var out []Entry
	for _, e := range entries {
		if filterLevel && levelOrder[strings.ToUpper(e.Level)] < threshold {
			continue
		}
		if f.AgentID != "" && e.AgentID != f.AgentID {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if f.Contains != "" && !strings.Contains(e.Message, f.Contains) {
			continue
		}
		out = append(out, e)
	}
	return out
}
