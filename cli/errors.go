package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/bookkeeper/model"
	"github.com/robinvdvleuten/bookkeeper/storage"
)

var errHintStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})

// RenderError formats err for the terminal. Aggregated validation errors are
// listed one per line, and integrity errors get a hint about what to change.
func RenderError(err error) string {
	var validation *model.ValidationErrors
	if errors.As(err, &validation) {
		var buf strings.Builder
		buf.WriteString(errorStyle.Render("invalid input:"))
		for _, e := range validation.Errors {
			buf.WriteString("\n   ")
			buf.WriteString(errorSymbol + " " + e.Error())
		}
		return buf.String()
	}

	var integrity *storage.IntegrityError
	if errors.As(err, &integrity) {
		msg := errorStyle.Render(err.Error())
		if hint := integrityHint(integrity.Kind); hint != "" {
			msg += "\n   " + errHintStyle.Render(hint)
		}
		return msg
	}

	return errorStyle.Render(err.Error())
}

func integrityHint(kind storage.IntegrityKind) string {
	switch kind {
	case storage.IntegrityForeignKey:
		return "the record is referenced by transactions, budgets or child accounts, or refers to one that doesn't exist"
	case storage.IntegrityUnique:
		return "a record with the same name or number already exists"
	case storage.IntegrityCheck, storage.IntegrityNotNull:
		return "a value is missing or out of range"
	}
	return ""
}
