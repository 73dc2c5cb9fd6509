package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one transaction as read from a source document, before it gets an id or a
// dedup key. SourceIdentity plus ExternalID is what makes it unique across imports.
type Record struct {
	SourceIdentity string
	ExternalID     string
	AccountHint    string
	Timestamp      time.Time
	Amount         decimal.Decimal
	Memo           string
	Ref            string
}

// Parser converts a whole source document into records. A malformed element fails the
// whole document with an apperrors.ImportFormatError.
type Parser interface {
	Parse(r io.Reader) ([]Record, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// NormalizeFormat lower-cases a format name and turns spaces into dashes, so
// "Amazon CSV" and "amazon-csv" name the same parser.
func NormalizeFormat(format string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(format)), " ", "-")
}

// Register adds a parser. A format can only be registered once.
func (r *Registry) Register(p Parser) error {
	key := NormalizeFormat(p.Format())
	if key == "" {
		return fmt.Errorf("parser has an empty format name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parsers[key]; ok {
		return fmt.Errorf("duplicate parser format: %s", key)
	}
	r.parsers[key] = p
	return nil
}

// Get returns the parser for format.
func (r *Registry) Get(format string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[NormalizeFormat(format)]
	return p, ok
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []Parser{&OFXParser{}, &AmazonCSVParser{}} {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// maskAccountNumber strips leading zeros and hides all but the last four digits.
func maskAccountNumber(number string) string {
	number = strings.TrimLeft(strings.TrimSpace(number), "0")
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("X", len(number)-4) + number[len(number)-4:]
}

// parseAmount accepts plain decimals as well as "$1,234.50" style values.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return amount, nil
}
