package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hersh/blockstack/internal/engine"
)

const (
	MaxEntries     = 10
	MaxNameLength  = 14
	DefaultName    = "GUEST"
	scoresFileName = "scores.json"
)

var ErrInvalidResult = errors.New("leaderboard: result not eligible")

type Entry struct {
	Username    string `json:"username"`
	Value       int64  `json:"value"`
	IsTimeValue bool   `json:"isTimeValue"`
	When        string `json:"when"`
}

// FileStore keeps the best MaxEntries results per mode in one JSON file.
// It is safe for concurrent use.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
	now    func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.Default(),
		now:    time.Now,
	}
}

// DefaultPath returns scores.json under the user config directory.
func DefaultPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "blockstack", scoresFileName), nil
}

func (f *FileStore) Path() string {
	return f.path
}

// Report adds r, logging failures. Ineligible results are skipped silently.
func (f *FileStore) Report(r engine.Result) {
	if err := f.Add(r); err != nil && !errors.Is(err, ErrInvalidResult) {
		f.logger.Printf("leaderboard: save %s result: %v", r.Mode, err)
	}
}

// Add records r if it ranks in the top MaxEntries for its mode.
func (f *FileStore) Add(r engine.Result) error {
	if r.Mode == "" || (r.IsTimeValue && !r.Completed) {
		return ErrInvalidResult
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	board, err := f.load()
	if err != nil {
		return err
	}
	entry := Entry{
		Username:    normalizeName(r.Username),
		Value:       r.Value,
		IsTimeValue: r.IsTimeValue,
		When:        f.now().UTC().Format(time.RFC3339),
	}
	board[r.Mode] = insert(board[r.Mode], entry)
	return f.save(board)
}

// Top returns the ranked entries for mode, best first.
func (f *FileStore) Top(mode string) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	board, err := f.load()
	if err != nil {
		return nil, err
	}
	return board[mode], nil
}

func (f *FileStore) load() (map[string][]Entry, error) {
	board := make(map[string][]Entry)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return board, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("decode scores %s: %w", f.path, err)
	}
	return board, nil
}

func (f *FileStore) save(board map[string][]Entry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create scores dir: %w", err)
	}
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// insert places e by rank: lower is better for times, higher for scores.
// Equal values keep the earlier entry first.
func insert(entries []Entry, e Entry) []Entry {
	entries = append(entries, e)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Value == b.Value:
			return 0
		case (a.Value < b.Value) == e.IsTimeValue:
			return -1
		default:
			return 1
		}
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if r := []rune(name); len(r) > MaxNameLength {
		return string(r[:MaxNameLength])
	}
	return name
}
