// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	auditstore "github.com/alumhub/alumhub/internal/app/store/audit"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/audit                                                             |
| Lists audit events with category, event type, and date range filters.        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	category := strings.TrimSpace(query.Get(r, "category"))
	eventType := strings.TrimSpace(query.Get(r, "event_type"))
	startDate := strings.TrimSpace(query.Get(r, "start_date"))
	endDate := strings.TrimSpace(query.Get(r, "end_date"))

	page := 1
	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 0 {
		page = p
	}

	filter := auditstore.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.StartTime = &t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("query audit events", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "database error", err, "A database error occurred.", "/admin")
		return
	}

	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("count audit events", zap.Error(err))
		h.ErrLog.LogServerError(w, r, "database error", err, "A database error occurred.", "/admin")
		return
	}

	names := h.resolveNames(r, events)

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			IP:        e.IP,
			Success:   e.Success,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = names[*e.ActorID]
		}
		if e.UserID != nil {
			item.TargetName = names[*e.UserID]
		}
		items = append(items, item)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Audit Log", "/admin"),

		Items: items,

		Category:  category,
		EventType: eventType,
		StartDate: startDate,
		EndDate:   endDate,

		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),

		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	})
}

// resolveNames loads the full names for every actor and target appearing
// in the event list. Lookups that fail resolve to an empty string and the
// row falls back to showing nothing.
func (h *Handler) resolveNames(r *http.Request, events []auditstore.Event) map[primitive.ObjectID]string {
	ids := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			ids[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			ids[*e.UserID] = struct{}{}
		}
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit name resolution")
	defer cancel()

	for id := range ids {
		u, err := h.Users.GetByID(ctx, id)
		if err != nil {
			continue
		}
		names[id] = u.FullName
	}
	return names
}
