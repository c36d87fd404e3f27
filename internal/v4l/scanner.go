package v4l

import (
	"cmp"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"v4lnode/internal/logging"
)

// readBatchSize bounds each directory read so one failing batch only loses
// the entries that had not been listed yet.
const readBatchSize = 64

// Scanner enumerates device nodes under a device directory.
type Scanner struct {
	roots  Roots
	logger *slog.Logger
}

// NewScanner returns a scanner for roots. A nil logger discards output.
func NewScanner(roots Roots, logger *slog.Logger) *Scanner {
	return &Scanner{
		roots:  roots.withDefaults(),
		logger: logging.NewComponentLogger(logger, "v4l-scanner"),
	}
}

// Enumerate lists the nodes under the default /dev directory.
func Enumerate() []Node {
	return NewScanner(DefaultRoots(), nil).Scan()
}

// Roots returns the locations the scanner reads.
func (s *Scanner) Roots() Roots {
	return s.roots
}

// Scan lists the device directory and returns one Node per capture device
// or sub-device entry, in directory order. It never fails: an unreadable
// directory yields an empty slice and unreadable entries are skipped.
func (s *Scanner) Scan() []Node {
	nodes := make([]Node, 0)

	dir, err := os.Open(s.roots.DevDir)
	if err != nil {
		s.logger.Debug("device directory unavailable",
			logging.String("dir", s.roots.DevDir),
			logging.Error(err),
		)
		return nodes
	}
	defer dir.Close()

	for {
		entries, err := dir.ReadDir(readBatchSize)
		for _, entry := range entries {
			name := entry.Name()
			if !utf8.ValidString(name) {
				s.logger.Debug("skipping entry with undecodable name",
					logging.String("dir", s.roots.DevDir),
					logging.String("entry", name),
				)
				continue
			}
			if _, ok := MatchName(name); !ok {
				continue
			}
			nodes = append(nodes, NewNodeWithRoots(filepath.Join(s.roots.DevDir, name), s.roots))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("device directory listing interrupted",
					logging.String("dir", s.roots.DevDir),
					logging.Int("listed", len(nodes)),
					logging.Error(err),
				)
			}
			break
		}
		if len(entries) == 0 {
			break
		}
	}

	s.logger.Debug("device scan complete",
		logging.String("dir", s.roots.DevDir),
		logging.Int("nodes", len(nodes)),
	)
	return nodes
}

// SortNodes orders nodes by kind and then index. Within a kind, nodes whose
// index cannot be derived follow the indexed ones, ordered by path.
func SortNodes(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
			return c
		}
		ai, aerr := a.Index()
		bi, berr := b.Index()
		switch {
		case aerr != nil && berr != nil:
			return cmp.Compare(a.Path(), b.Path())
		case aerr != nil:
			return 1
		case berr != nil:
			return -1
		}
		return cmp.Compare(ai, bi)
	})
}
