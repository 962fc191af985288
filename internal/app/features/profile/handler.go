// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/alumhub/alumhub/internal/app/features/errors"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/membership"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/alumhub/alumhub/internal/app/system/timeouts"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
	"github.com/alumhub/alumhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the member profile pages.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
	}
}

type pageData struct {
	viewdata.BaseVM

	User       *models.User
	Completion int
	Saved      bool
	FormError  string
}

// currentUserID resolves the signed-in user's ObjectID, writing an error
// page when the session is unusable.
func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid user id in session", err,
			"Your session is no longer valid. Please sign in again.", "/login")
		return primitive.NilObjectID, false
	}
	return id, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/profile                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for profile", err,
			"We could not load your profile. Please try again.", "/dashboard")
		return
	}

	h.renderProfile(w, r, u, r.URL.Query().Get("saved") == "1", "")
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, u *models.User, saved bool, formErr string) {
	data := pageData{
		BaseVM:     viewdata.NewBaseVM(r, h.DB, "My Profile", "/dashboard"),
		User:       u,
		Completion: membership.CompletionPercent(u),
		Saved:      saved,
		FormError:  formErr,
	}
	templates.Render(w, r, "profile", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/profile                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleProfilePost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form", err,
			"The submitted form could not be read.", "/dashboard/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for profile update", err,
			"We could not load your profile. Please try again.", "/dashboard")
		return
	}

	name := normalize.Name(r.PostFormValue("full_name"))
	if name == "" {
		h.renderProfile(w, r, u, false, "Name cannot be empty.")
		return
	}

	patch := patchFromForm(r)
	patch.FullName = &name

	if err := h.Users.UpdateProfile(ctx, id, patch); err != nil {
		h.ErrLog.LogServerError(w, r, "update profile", err,
			"We could not save your profile. Please try again.", "/dashboard/profile")
		return
	}

	http.Redirect(w, r, "/dashboard/profile?saved=1", http.StatusSeeOther)
}

// patchFromForm builds an update from the submitted fields. The form always
// posts every field, so each one is set; empty strings clear the value.
func patchFromForm(r *http.Request) userstore.ProfilePatch {
	str := func(key string) *string {
		v := r.PostFormValue(key)
		return &v
	}

	patch := userstore.ProfilePatch{
		Phone:               str("phone"),
		Gender:              str("gender"),
		NationalID:          str("national_id"),
		CurrentAddress:      str("current_address"),
		PermanentAddress:    str("permanent_address"),
		Occupation:          str("occupation"),
		CurrentLocation:     str("current_location"),
		StudyYears:          str("study_years"),
		PassYear:            str("pass_year"),
		SecondaryEducation:  str("secondary_education"),
		HigherEducation:     str("higher_education"),
		CurrentWorkplace:    str("current_workplace"),
		WorkExperience:      str("work_experience"),
		SpecialContribution: str("special_contribution"),
		Suggestions:         str("suggestions"),
	}

	if raw := r.PostFormValue("birth_date"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			patch.BirthDate = &d
		}
	}

	return patch
}
