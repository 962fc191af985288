// internal/app/features/events/handler.go
package events

import (
	"net/http"
	"time"

	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Event is a static listing on the events page. The association
// publishes a handful of programs a year; they are maintained here
// rather than in the database.
type Event struct {
	Title       string
	Date        time.Time
	Location    string
	Description string
}

type pageData struct {
	viewdata.BaseVM
	Upcoming []Event
	Past     []Event
}

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

var allEvents = []Event{
	{
		Title:       "Annual Conference 2026",
		Date:        time.Date(2026, time.December, 18, 0, 0, 0, 0, time.UTC),
		Location:    "School campus",
		Description: "The yearly gathering of all members: cultural program, general meeting, and dinner.",
	},
	{
		Title:       "Education Support Program",
		Date:        time.Date(2026, time.October, 10, 0, 0, 0, 0, time.UTC),
		Location:    "School auditorium",
		Description: "Scholarship handover and mentoring session for current students.",
	},
	{
		Title:       "Health Camp",
		Date:        time.Date(2026, time.February, 21, 0, 0, 0, 0, time.UTC),
		Location:    "Community center",
		Description: "Free health checkups for students and the local community, staffed by alumni doctors.",
	},
	{
		Title:       "Tree Plantation Drive",
		Date:        time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC),
		Location:    "School grounds",
		Description: "Members planted five hundred saplings around the campus.",
	},
	{
		Title:       "Annual Conference 2025",
		Date:        time.Date(2025, time.December, 19, 0, 0, 0, 0, time.UTC),
		Location:    "School campus",
		Description: "Last year's reunion with over four hundred attendees.",
	},
}

func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Events", "/"),
	}
	for _, ev := range allEvents {
		if ev.Date.After(now) {
			data.Upcoming = append(data.Upcoming, ev)
		} else {
			data.Past = append(data.Past, ev)
		}
	}

	templates.Render(w, r, "events", data)
}
