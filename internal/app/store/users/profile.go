// internal/app/store/users/profile.go
package userstore

import (
	"context"
	"time"

	"github.com/alumhub/alumhub/internal/app/system/htmlsanitize"
	"github.com/alumhub/alumhub/internal/app/system/normalize"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfilePatch holds the member-editable profile fields. Nil fields are
// left unchanged; the merge only touches what the form submitted.
type ProfilePatch struct {
	FullName            *string
	Phone               *string
	ProfileImageURL     *string
	Gender              *string
	BirthDate           *time.Time
	NationalID          *string
	CurrentAddress      *string
	PermanentAddress    *string
	Occupation          *string
	CurrentLocation     *string
	StudyYears          *string
	PassYear            *string
	SecondaryEducation  *string
	HigherEducation     *string
	CurrentWorkplace    *string
	WorkExperience      *string
	SpecialContribution *string
	Suggestions         *string
}

// UpdateProfile merges a patch into a user's profile. Free-text fields are
// sanitized; identity and approval fields are not reachable from here.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfilePatch) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if p.FullName != nil {
		name := normalize.Name(*p.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if p.Phone != nil {
		set["phone"] = normalize.Phone(*p.Phone)
	}
	if p.ProfileImageURL != nil {
		set["profile_image_url"] = *p.ProfileImageURL
	}
	if p.Gender != nil {
		set["gender"] = normalize.Status(*p.Gender)
	}
	if p.BirthDate != nil {
		set["birth_date"] = *p.BirthDate
	}
	if p.NationalID != nil {
		set["national_id"] = *p.NationalID
	}
	if p.CurrentAddress != nil {
		set["current_address"] = htmlsanitize.Sanitize(*p.CurrentAddress)
	}
	if p.PermanentAddress != nil {
		set["permanent_address"] = htmlsanitize.Sanitize(*p.PermanentAddress)
	}
	if p.Occupation != nil {
		set["occupation"] = *p.Occupation
	}
	if p.CurrentLocation != nil {
		set["current_location"] = *p.CurrentLocation
	}
	if p.StudyYears != nil {
		set["study_years"] = *p.StudyYears
	}
	if p.PassYear != nil {
		set["pass_year"] = *p.PassYear
	}
	if p.SecondaryEducation != nil {
		set["secondary_education"] = *p.SecondaryEducation
	}
	if p.HigherEducation != nil {
		set["higher_education"] = *p.HigherEducation
	}
	if p.CurrentWorkplace != nil {
		set["current_workplace"] = *p.CurrentWorkplace
	}
	if p.WorkExperience != nil {
		set["work_experience"] = htmlsanitize.Sanitize(*p.WorkExperience)
	}
	if p.SpecialContribution != nil {
		set["special_contribution"] = htmlsanitize.Sanitize(*p.SpecialContribution)
	}
	if p.Suggestions != nil {
		set["suggestions"] = htmlsanitize.Sanitize(*p.Suggestions)
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
