// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrCatalogueLoad reports a word list that is missing, unreadable, or empty.
var ErrCatalogueLoad = errors.New("word list not found or empty")

// Catalogue holds the candidate words for typing targets.
type Catalogue []string

// Load reads one word per line from the provided file path. Lines are trimmed
// and lowercased; blank lines are skipped.
func Load(path string) (Catalogue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogueLoad, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words Catalogue
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogueLoad, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s has no words", ErrCatalogueLoad, path)
	}
	return words, nil
}
