package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusUnassigned TicketStatus = "unassigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists the full status vocabulary.
var TicketStatuses = []TicketStatus{
	TicketStatusUnassigned,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusOnHold,
	TicketStatusClosed,
}

// IsValidStatus reports whether s belongs to the status vocabulary.
func IsValidStatus(s TicketStatus) bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the ticket's active life.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Category labels a ticket with one taxonomy member.
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryProduct   Category = "product"
	CategoryTechnical Category = "technical"
	CategoryBilling   Category = "billing"
	CategoryComplaint Category = "complaint"
	CategoryFeature   Category = "feature"
)

// Categories lists the taxonomy. The order of the non-general entries is
// the classifier's scoring and tie-break order; do not reorder.
var Categories = []Category{
	CategoryGeneral,
	CategoryProduct,
	CategoryTechnical,
	CategoryBilling,
	CategoryComplaint,
	CategoryFeature,
}

// IsValidCategory reports whether c is a taxonomy member.
func IsValidCategory(c Category) bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unrecognized values to general.
func NormalizeCategory(c Category) Category {
	if IsValidCategory(c) {
		return c
	}
	return CategoryGeneral
}

// CategoryLabels holds the human-readable channel descriptions per category.
var CategoryLabels = map[Category]string{
	CategoryGeneral:   "一般的な質問",
	CategoryProduct:   "製品に関する質問",
	CategoryTechnical: "技術的な問題",
	CategoryBilling:   "請求に関する問い合わせ",
	CategoryComplaint: "苦情・クレーム",
	CategoryFeature:   "機能リクエスト",
}

// PlatformX is the only inbound source currently wired.
const PlatformX = "X"

// Ticket is the unit of support work ingested from the social platform.
// The ID (Q001, Q002, ...) is assigned by the store at append time and is
// immutable afterwards.
type Ticket struct {
	ID         string
	ReceivedAt time.Time
	Platform   string
	Author     string
	AuthorID   string
	Content    string
	Category   Category
	Status     TicketStatus
	Assignee   *string
	Response   *string
	ResolvedAt *time.Time
	SourceID   string
	SourceURL  string
}
