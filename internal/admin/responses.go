package admin

import (
	"time"

	"memento/internal/notify"
	releasemodels "memento/internal/release/models"
)

// DashboardResponse is the HTTP response DTO for GET /admin/dashboard.
type DashboardResponse struct {
	ReportsByStatus      map[string]int `json:"reports_by_status"`
	DeliverablesReleased int            `json:"deliverables_released"`
	NotificationsLogged  int            `json:"notifications_logged"`
	LedgerEntries        int            `json:"release_ledger_entries"`
}

// NotificationResponse describes one delivery attempt. The message body is
// never returned.
type NotificationResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Recipient   string    `json:"recipient"`
	AccountID   string    `json:"account_id,omitempty"`
	Subject     string    `json:"subject"`
	Outcome     string    `json:"outcome"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

type NotificationsListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int                     `json:"total"`
}

type LedgerEntryResponse struct {
	ID                     string    `json:"id"`
	DeliverableID          string    `json:"deliverable_id"`
	OwnerAccountID         string    `json:"owner_account_id"`
	Policy                 string    `json:"release_policy"`
	ReleasedAt             time.Time `json:"released_at"`
	NotificationDispatched bool      `json:"notification_dispatched"`
}

type LedgerListResponse struct {
	Entries []*LedgerEntryResponse `json:"entries"`
	Total   int                    `json:"total"`
}

func toDashboardResponse(d *Dashboard) *DashboardResponse {
	counts := make(map[string]int, len(d.ReportsByStatus))
	for status, n := range d.ReportsByStatus {
		counts[string(status)] = n
	}
	return &DashboardResponse{
		ReportsByStatus:      counts,
		DeliverablesReleased: d.DeliverablesReleased,
		NotificationsLogged:  d.NotificationsLogged,
		LedgerEntries:        d.LedgerEntries,
	}
}

func toNotificationsList(entries []notify.LogEntry) *NotificationsListResponse {
	out := make([]*NotificationResponse, 0, len(entries))
	for _, e := range entries {
		resp := &NotificationResponse{
			ID:          e.ID.String(),
			Type:        string(e.Type),
			Recipient:   e.Recipient,
			Subject:     e.Subject,
			Outcome:     string(e.Outcome),
			ErrorDetail: e.ErrorDetail,
			SentAt:      e.SentAt,
		}
		if !e.AccountID.IsNil() {
			resp.AccountID = e.AccountID.String()
		}
		out = append(out, resp)
	}
	return &NotificationsListResponse{Notifications: out, Total: len(out)}
}

func toLedgerList(entries []releasemodels.LedgerEntry) *LedgerListResponse {
	out := make([]*LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &LedgerEntryResponse{
			ID:                     e.ID.String(),
			DeliverableID:          e.DeliverableID.String(),
			OwnerAccountID:         e.OwnerAccountID.String(),
			Policy:                 string(e.Policy),
			ReleasedAt:             e.ReleasedAt,
			NotificationDispatched: e.NotificationDispatched,
		})
	}
	return &LedgerListResponse{Entries: out, Total: len(out)}
}
