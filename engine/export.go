package engine

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/model"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// exportTimestamp names export directories, e.g. bookkeeper_export_20180125093000.
const exportTimestamp = "20060102150405"

// Export writes tab-separated files into a new timestamped directory below
// dir and returns that directory. It writes accounts.tsv with the chart of
// accounts, one acc_<name>.tsv per asset account with its transactions, and
// one budget_<start>_<end>.tsv per budget. dir is created when missing.
func (e *Engine) Export(ctx context.Context, dir string) (string, error) {
	ctx, timer := telemetry.StartTimer(ctx, "export")
	defer timer.End()

	exportDir := filepath.Join(dir, "bookkeeper_export_"+e.now().Format(exportTimestamp))
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	accounts, err := e.store.Accounts(ctx)
	if err != nil {
		return "", err
	}

	if err := writeTSV(filepath.Join(exportDir, "accounts.tsv"), []string{"type", "number", "name"}, func(w *tsvWriter) {
		for _, a := range accounts {
			w.row(a.Type.String(), a.Number, a.Name)
		}
	}); err != nil {
		return "", err
	}

	used := make(map[string]bool)
	for _, a := range accounts {
		if a.Type != model.AccountTypeAsset {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := e.exportAccount(ctx, filepath.Join(exportDir, accountFileName(a, used)), a); err != nil {
			return "", err
		}
	}

	budgets, err := e.store.Budgets(ctx)
	if err != nil {
		return "", err
	}
	for _, b := range budgets {
		name := fmt.Sprintf("budget_%s_%s.tsv", model.FormatDate(b.StartDate), model.FormatDate(b.EndDate))
		if err := writeTSV(filepath.Join(exportDir, name), []string{"account", "amount", "carryover", "notes"}, func(w *tsvWriter) {
			for _, a := range accounts {
				entry, ok := b.Entry(a.ID)
				if !ok {
					continue
				}
				w.row(a.String(), model.FormatAmount(entry.Amount), model.FormatAmount(entry.Carryover), entry.Notes)
			}
		}); err != nil {
			return "", err
		}
	}

	e.log.Info().Str("dir", exportDir).Int("accounts", len(accounts)).Int("budgets", len(budgets)).Msg("export written")
	return exportDir, nil
}

func (e *Engine) exportAccount(ctx context.Context, path string, account *model.Account) error {
	txns, err := e.store.Transactions(ctx, account.ID)
	if err != nil {
		return err
	}

	header := []string{"date", "type", "description", "amount", "transfer_account"}
	return writeTSV(path, header, func(w *tsvWriter) {
		for _, txn := range txns {
			split, _ := txn.Split(account.ID)
			w.row(model.FormatDate(txn.Date), txn.Type, txn.Description, model.FormatAmount(split.Amount), ledger.Categories(txn.Splits, account))
		}
	})
}

// asciiFold decomposes text and drops what is left outside ASCII, so "Café"
// becomes "Cafe".
func asciiFold() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
}

// accountFileName derives acc_<name>.tsv from the lower-cased ASCII folding
// of the account name, falling back to the id when the name folds to nothing
// or was already used.
func accountFileName(a *model.Account, used map[string]bool) string {
	name, _, err := transform.String(asciiFold(), strings.ToLower(a.Name))
	name = strings.TrimSpace(name)
	if err != nil || name == "" || used[name] {
		name = strings.TrimSpace(name + fmt.Sprintf(" %d", a.ID))
	}
	used[name] = true
	return "acc_" + strings.ReplaceAll(name, string(filepath.Separator), "_") + ".tsv"
}

type tsvWriter struct {
	w   *bufio.Writer
	err error
}

// row writes one line. Tabs inside fields are escaped as \t.
func (t *tsvWriter) row(fields ...string) {
	if t.err != nil {
		return
	}
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, "\t", `\t`)
	}
	_, t.err = t.w.WriteString(strings.Join(fields, "\t") + "\n")
}

func writeTSV(path string, header []string, fill func(w *tsvWriter)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := &tsvWriter{w: bufio.NewWriter(f)}
	w.row(header...)
	fill(w)
	if w.err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), w.err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
