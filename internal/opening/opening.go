// Package opening provides the opening-book FEN source consumed by the
// orchestrator: a thread-safe iterator over a file of starting positions,
// either walked in file order or by a pre-shuffled index.
package opening

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
)

// Book is a thread-safe FEN iterator. The zero value is not usable; use
// Open.
type Book struct {
	mu    sync.Mutex
	lines []string
	order []int
	next  int
}

// Open reads path as one FEN per line (blank lines and lines starting with
// "#" are ignored) and returns a Book. If random is true, the iteration
// order is shuffled once using seed; otherwise openings are served in file
// order, wrapping around once exhausted.
func Open(path string, random bool, seed int64) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opening book %v: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read opening book %v: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("opening book %v has no openings", path)
	}

	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	if random {
		rand.New(rand.NewSource(seed)).Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	return &Book{lines: lines, order: order}, nil
}

// Next returns the next FEN in the book, advancing the shared cursor. The
// worker ID is not used; openings are handed out strictly in cursor order so that the same book replayed
// with the same seed produces the same FEN sequence regardless of which
// worker happens to ask first.
func (b *Book) Next(workerID int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	fen := b.lines[b.order[b.next%len(b.order)]]
	b.next++
	return fen
}
