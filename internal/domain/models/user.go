// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Authentication methods.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// Membership term granted by each approval.
const MembershipTermMonths = 6

// PaymentCountResetThreshold is the rolling payment counter ceiling: once a
// member's payment_count_in_year reaches it, the next approval resets the
// counter to 1 instead of incrementing.
const PaymentCountResetThreshold = 2

// User represents an alumni-association account: regular members and admins.
//
// A freshly registered user starts with role "member" and approved=false.
// Approval is an admin action; see userstore.SetApproval for the state rules.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	// FullNameCI is the lowercase, diacritics-stripped form used for search.
	FullNameCI string `bson:"full_name_ci" json:"full_name_ci"`
	Email      string `bson:"email" json:"email"`
	EmailCI    string `bson:"email_ci" json:"email_ci"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`

	// AuthMethod is "password" or "google". PasswordHash is set only for
	// password accounts.
	AuthMethod   string  `bson:"auth_method" json:"auth_method"`
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	Role string `bson:"role" json:"role"` // member | admin

	// Membership approval state. Invariant: approved=false implies
	// approved_at and membership_expiry are unset; membership_expiry set
	// implies approved=true.
	Approved         bool                `bson:"approved" json:"approved"`
	ApprovedAt       *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	ApprovedBy       *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	RejectedAt       *time.Time          `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	MembershipExpiry *time.Time          `bson:"membership_expiry,omitempty" json:"membership_expiry,omitempty"`

	PaymentCountInYear int        `bson:"payment_count_in_year" json:"payment_count_in_year"`
	LastPaymentDate    *time.Time `bson:"last_payment_date,omitempty" json:"last_payment_date,omitempty"`

	// Optional profile fields, editable by the member. These feed the
	// profile-completion percentage.
	ProfileImageURL     string     `bson:"profile_image_url,omitempty" json:"profile_image_url,omitempty"`
	Gender              string     `bson:"gender,omitempty" json:"gender,omitempty"` // male | female | other
	BirthDate           *time.Time `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	NationalID          string     `bson:"national_id,omitempty" json:"national_id,omitempty"`
	CurrentAddress      string     `bson:"current_address,omitempty" json:"current_address,omitempty"`
	PermanentAddress    string     `bson:"permanent_address,omitempty" json:"permanent_address,omitempty"`
	Occupation          string     `bson:"occupation,omitempty" json:"occupation,omitempty"`
	CurrentLocation     string     `bson:"current_location,omitempty" json:"current_location,omitempty"`
	StudyYears          string     `bson:"study_years,omitempty" json:"study_years,omitempty"`
	PassYear            string     `bson:"pass_year,omitempty" json:"pass_year,omitempty"`
	SecondaryEducation  string     `bson:"secondary_education,omitempty" json:"secondary_education,omitempty"`
	HigherEducation     string     `bson:"higher_education,omitempty" json:"higher_education,omitempty"`
	CurrentWorkplace    string     `bson:"current_workplace,omitempty" json:"current_workplace,omitempty"`
	WorkExperience      string     `bson:"work_experience,omitempty" json:"work_experience,omitempty"`
	SpecialContribution string     `bson:"special_contribution,omitempty" json:"special_contribution,omitempty"`
	Suggestions         string     `bson:"suggestions,omitempty" json:"suggestions,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PendingUser is the staging stub kept in the unapproved_users collection
// while a registration awaits an admin decision. It is removed on approval
// or rejection; the authoritative record always lives in users.
type PendingUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	FullName  string             `bson:"full_name" json:"full_name"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
