package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusVocabulary(t *testing.T) {
	for _, status := range TicketStatuses {
		assert.True(t, IsValidStatus(status), string(status))
	}
	assert.False(t, IsValidStatus(TicketStatus("escalated")))
	assert.False(t, IsValidStatus(TicketStatus("")))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, TicketStatusResolved.IsTerminal())
	assert.True(t, TicketStatusClosed.IsTerminal())
	assert.False(t, TicketStatusUnassigned.IsTerminal())
	assert.False(t, TicketStatusInProgress.IsTerminal())
	assert.False(t, TicketStatusOnHold.IsTerminal())
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryBilling, NormalizeCategory(CategoryBilling))
	assert.Equal(t, CategoryGeneral, NormalizeCategory(Category("spam")))
	assert.Equal(t, CategoryGeneral, NormalizeCategory(Category("")))
}

func TestEveryCategoryHasLabel(t *testing.T) {
	for _, category := range Categories {
		assert.NotEmpty(t, CategoryLabels[category], string(category))
	}
}
