package domain

import "time"

// Campaign projection status/visibility values. Only public campaigns
// in a searchable status ever appear in results.
const (
	CampaignStatusActive = "active"
	CampaignStatusEnded  = "ended"
	CampaignStatusClosed = "closed"

	VisibilityPublic = "public"
)

// SearchableCampaignStatuses lists the statuses a campaign may hold
// and still be returned by search. Draft and paused campaigns are
// never searchable.
var SearchableCampaignStatuses = []string{
	CampaignStatusActive,
	CampaignStatusEnded,
	CampaignStatusClosed,
}

// UserSearchProjection is the denormalized read model for donor and
// organizer profiles. It is maintained by an external projection
// builder; this service only reads it.
type UserSearchProjection struct {
	UserID      string    `gorm:"column:user_id;type:varchar(36);primaryKey"`
	DisplayName string    `gorm:"column:display_name;type:varchar(100)"`
	Bio         string    `gorm:"column:bio;type:text"`
	Location    string    `gorm:"column:location;type:varchar(120)"`
	AvatarURL   string    `gorm:"column:avatar_url;type:varchar(500)"`
	Visibility  string    `gorm:"column:visibility;type:varchar(20);index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for UserSearchProjection.
func (UserSearchProjection) TableName() string {
	return "user_search_projections"
}

// CampaignSearchProjection is the denormalized read model for
// fundraising campaigns.
type CampaignSearchProjection struct {
	CampaignID      string    `gorm:"column:campaign_id;type:varchar(36);primaryKey"`
	Slug            string    `gorm:"column:slug;type:varchar(150);uniqueIndex"`
	Title           string    `gorm:"column:title;type:varchar(200)"`
	Summary         string    `gorm:"column:summary;type:text"`
	Story           string    `gorm:"column:story;type:text"`
	BeneficiaryName string    `gorm:"column:beneficiary_name;type:varchar(100)"`
	Location        string    `gorm:"column:location;type:varchar(120)"`
	Category        string    `gorm:"column:category;type:varchar(50);index"`
	Status          string    `gorm:"column:status;type:varchar(20);index"`
	Visibility      string    `gorm:"column:visibility;type:varchar(20);index"`
	CoverImageURL   string    `gorm:"column:cover_image_url;type:varchar(500)"`
	OrganizerName   string    `gorm:"column:organizer_name;type:varchar(100)"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for CampaignSearchProjection.
func (CampaignSearchProjection) TableName() string {
	return "campaign_search_projections"
}

// OrganizationSearchProjection is the denormalized read model for
// registered nonprofits and charities.
type OrganizationSearchProjection struct {
	OrgID     string    `gorm:"column:org_id;type:varchar(36);primaryKey"`
	LegalName string    `gorm:"column:legal_name;type:varchar(200)"`
	DBAName   string    `gorm:"column:dba_name;type:varchar(200)"`
	LogoURL   string    `gorm:"column:logo_url;type:varchar(500)"`
	Verified  bool      `gorm:"column:verified"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for OrganizationSearchProjection.
func (OrganizationSearchProjection) TableName() string {
	return "organization_search_projections"
}

// SearchSuggestion backs the suggest endpoint. It is the only
// projection this repo writes to, and only from the analytics
// consumer, never from the query path.
type SearchSuggestion struct {
	Term       string    `gorm:"column:term;type:varchar(120);primaryKey"`
	UsageCount int64     `gorm:"column:usage_count;default:0"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SearchSuggestion.
func (SearchSuggestion) TableName() string {
	return "search_suggestions"
}
