package words

import (
	"encoding/csv"
	"errors"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
)

var (
	ErrEmptyWord     = errors.New("word cannot be empty")
	ErrDuplicateWord = errors.New("word already in the pool")
)

// fallback keeps the game playable when no word file is configured.
var fallback = []string{
	"lighthouse", "volcano", "submarine", "orchestra", "labyrinth",
	"avalanche", "telescope", "carousel", "scarecrow", "hurricane",
}

// Repository is the secret-word pool, loaded from a one-word-per-line
// CSV file. Additions are persisted back to the same file.
type Repository struct {
	mu    sync.RWMutex
	path  string
	words []string
}

// Load reads the word file. A missing or empty file yields the
// built-in fallback list, with a warning rather than a failed boot.
func Load(path string) *Repository {
	repo := &Repository{path: path}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("[WORDS] cannot open %s (%v), using built-in list", path, err)
		repo.words = append(repo.words, fallback...)
		return repo
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		log.Printf("[WORDS] cannot parse %s (%v), using built-in list", path, err)
		repo.words = append(repo.words, fallback...)
		return repo
	}
	for _, record := range records {
		for _, field := range record {
			if w := strings.TrimSpace(field); w != "" {
				repo.words = append(repo.words, w)
			}
		}
	}
	if len(repo.words) == 0 {
		log.Printf("[WORDS] %s is empty, using built-in list", path)
		repo.words = append(repo.words, fallback...)
		return repo
	}
	log.Printf("[WORDS] loaded %d words from %s", len(repo.words), path)
	return repo
}

// NewFromList builds an in-memory repository, mainly for tests.
func NewFromList(list []string) *Repository {
	return &Repository{words: append([]string(nil), list...)}
}

// Random returns a uniformly random word from the pool.
func (r *Repository) Random() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.words) == 0 {
		return ""
	}
	return r.words[rand.Intn(len(r.words))]
}

// All returns a copy of the pool.
func (r *Repository) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.words...)
}

// Count returns the pool size.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.words)
}

// Add appends a word to the pool and, when the repository is file
// backed, to the file. A word already in the pool is rejected.
func (r *Repository) Add(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyWord
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.words {
		if strings.EqualFold(existing, word) {
			return ErrDuplicateWord
		}
	}
	r.words = append(r.words, word)

	if r.path == "" {
		return nil
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{word}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
