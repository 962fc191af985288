// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings holds association-wide configuration editable by admins.
// There is a single settings document for the whole site.
type SiteSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	SiteName     string `bson:"site_name" json:"site_name"`
	Tagline      string `bson:"tagline,omitempty" json:"tagline,omitempty"`
	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`

	// MembershipFee is the annual fee in BDT shown on the payment form.
	MembershipFee int `bson:"membership_fee" json:"membership_fee"`

	FooterHTML string `bson:"footer_html,omitempty" json:"footer_html,omitempty"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// DefaultSiteName is used when no settings document exists yet.
const DefaultSiteName = "AlumHub"

// DefaultMembershipFee is the fallback annual membership fee in BDT.
const DefaultMembershipFee = 500
