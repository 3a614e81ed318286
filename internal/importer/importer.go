// Package importer ingests bank statement CSVs as pending transactions.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moisesuailab/finance-app/internal/ledger"
	"github.com/moisesuailab/finance-app/internal/model"
)

// Line is one parsed statement row. A negative amount is money out
// (expense), a positive amount money in (income).
type Line struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Parser converts a statement file into Lines.
type Parser interface {
	Parse(r io.Reader) ([]Line, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CardParser{})
	return r
}

// Importer turns parsed statement lines into pending ledger transactions.
// Imported rows never touch balances until the user completes them.
type Importer struct {
	ledger   *ledger.Service
	registry *Registry
	log      *slog.Logger
}

// New creates an Importer using the default parser registry.
func New(svc *ledger.Service, log *slog.Logger) *Importer {
	return &Importer{ledger: svc, registry: DefaultRegistry(), log: log}
}

// ImportFile parses one statement file and creates a pending transaction per
// line, targeting the given account and category. Returns the number of
// transactions created.
func (im *Importer) ImportFile(ctx context.Context, path, format string, accountID, categoryID int64) (int, error) {
	p := im.registry.Get(format)
	if p == nil {
		return 0, fmt.Errorf("unknown import format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	lines, err := p.Parse(f)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	created := 0
	for i, line := range lines {
		typ := model.TypeExpense
		if line.Amount.IsPositive() {
			typ = model.TypeIncome
		}

		_, err := im.ledger.CreateTransaction(ctx, ledger.CreateTransactionInput{
			AccountID:   accountID,
			CategoryID:  categoryID,
			Type:        typ,
			Status:      model.StatusPending,
			Amount:      line.Amount.Abs(),
			Description: line.Description,
			Date:        line.Date,
		})
		if err != nil {
			return created, fmt.Errorf("line %d (%s): %w", i+1, line.Description, err)
		}
		created++
	}

	im.log.Info("imported statement", "file", filepath.Base(path), "transactions", created)
	return created, nil
}

// importDir is the subdirectory of the data dir scanned for statements.
const importDir = "import"

// processedDir receives statements after ingestion.
const processedDir = "import/processed"

// Scan returns CSV files waiting in <dataDir>/import/.
func Scan(dataDir string) ([]string, error) {
	dir := filepath.Join(dataDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// MarkProcessed moves a statement from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, importDir, fileName)
	dstDir := filepath.Join(dataDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
