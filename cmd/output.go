package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/translate"
)

var errBadCredentials = errors.New("invalid username or password")

// patronSession carries the authenticated patron through one command.
type patronSession struct {
	patron *model.Patron
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// formatAmount renders integer minor currency units as a decimal
// string.
func formatAmount(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func message(key string) string {
	return translate.Default(key)
}

func printHolding(h *model.Holding) {
	if h.Summary {
		fmt.Printf("%d of %d available\n", h.AvailableCount, h.TotalCount)
		return
	}
	line := fmt.Sprintf("%-24s %-14s %s", h.LocationText, h.CallNumber, message(h.Status.Key()))
	if h.DueDate != nil {
		line += " (due " + formatDate(h.DueDate) + ")"
	}
	if h.Enumeration != "" {
		line += " " + h.Enumeration
	}
	fmt.Println(line)
}
