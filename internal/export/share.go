// Package export renders the shopping list for the outside world: a
// plain-text share format for messaging apps and a Google Sheets report.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/larder-dev/larder/internal/model"
	"github.com/larder-dev/larder/internal/viewmodel"
)

// urgencyRank orders shopping entries for sharing. Critical first.
var urgencyRank = map[model.Urgency]int{
	model.UrgencyCritical:  0,
	model.UrgencyAttention: 1,
	model.UrgencyLearning:  2,
	model.UrgencyOK:        3,
}

// urgencyMarker is the emoji prefix used in the shared text.
var urgencyMarker = map[model.Urgency]string{
	model.UrgencyCritical:  "🔴",
	model.UrgencyAttention: "🟡",
}

// shareTitles keys the share header by language preference.
var shareTitles = map[string]string{
	"pt": "🛒 Lista de Compras",
	"en": "🛒 Shopping List",
}

// emptyListLines keys the empty-list message by language preference.
var emptyListLines = map[string]string{
	"pt": "Nada a comprar. Tudo em estoque!",
	"en": "Nothing to buy. Everything is stocked!",
}

// ShareText renders the shopping list as a message ready to paste into a
// chat. The list is sorted most-urgent first; entries that need nothing
// are left out.
func ShareText(entries []model.ShoppingListEntry, language string) string {
	title, ok := shareTitles[language]
	if !ok {
		title = shareTitles["pt"]
	}

	needed := make([]model.ShoppingListEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Needed > 0 {
			needed = append(needed, entry)
		}
	}

	if len(needed) == 0 {
		empty, ok := emptyListLines[language]
		if !ok {
			empty = emptyListLines["pt"]
		}
		return title + "\n\n" + empty
	}

	sort.SliceStable(needed, func(i, j int) bool {
		return urgencyRank[needed[i].Urgency] < urgencyRank[needed[j].Urgency]
	})

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	for _, entry := range needed {
		b.WriteString("\n")
		if marker, ok := urgencyMarker[entry.Urgency]; ok {
			b.WriteString(marker)
			b.WriteString(" ")
		} else {
			b.WriteString("• ")
		}
		b.WriteString(fmt.Sprintf("%s: %s %s",
			entry.Name, viewmodel.FormatQuantity(entry.Needed), entry.Unit))
	}

	return b.String()
}
