package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/internal/scoring"
)

const snippetMaxLen = 160

// GormSearchRepository implements SearchRepository over the projection
// tables using GORM. Matching is case-insensitive substring matching
// (LOWER(col) LIKE), portable across postgres and sqlite.
type GormSearchRepository struct {
	db *gorm.DB
}

// NewGormSearchRepository creates a new GORM-based search repository.
func NewGormSearchRepository(db *gorm.DB) *GormSearchRepository {
	return &GormSearchRepository{db: db}
}

// SearchUsers matches public user profiles on name, bio and location.
func (r *GormSearchRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	pattern := likePattern(query)

	var rows []domain.UserSearchProjection
	err := r.db.WithContext(ctx).
		Where("visibility = ?", domain.VisibilityPublic).
		Where(
			"LOWER(display_name) LIKE ? OR LOWER(bio) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern,
		).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search user projections: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.SearchResult{
			ID:       row.UserID,
			Type:     domain.ResultTypeUser,
			Title:    row.DisplayName,
			Subtitle: row.Location,
			Snippet:  snippet(row.Bio),
			Link:     "/profile/" + row.UserID,
			Score:    scoring.Score(row.DisplayName, query),
			Image:    row.AvatarURL,
		})
	}
	return results, nil
}

// SearchCampaigns matches public, searchable-status campaigns on
// title, summary, story, beneficiary name and location. An optional
// category filter narrows the set further.
func (r *GormSearchRepository) SearchCampaigns(ctx context.Context, query string, limit int, filters map[string]string) ([]domain.SearchResult, error) {
	pattern := likePattern(query)

	q := r.db.WithContext(ctx).
		Where("visibility = ?", domain.VisibilityPublic).
		Where("status IN ?", domain.SearchableCampaignStatuses).
		Where(
			"LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(story) LIKE ? OR LOWER(beneficiary_name) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)

	if category := filters["category"]; category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []domain.CampaignSearchProjection
	if err := q.Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search campaign projections: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.SearchResult{
			ID:       row.CampaignID,
			Type:     domain.ResultTypeCampaign,
			Title:    row.Title,
			Subtitle: campaignSubtitle(row),
			Snippet:  snippet(row.Summary),
			Link:     "/fundraiser/" + row.Slug,
			Score:    scoring.Score(row.Title, query),
			Image:    row.CoverImageURL,
		})
	}
	return results, nil
}

// SearchOrganizations matches organizations on legal and dba names.
func (r *GormSearchRepository) SearchOrganizations(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	pattern := likePattern(query)

	var rows []domain.OrganizationSearchProjection
	err := r.db.WithContext(ctx).
		Where("LOWER(legal_name) LIKE ? OR LOWER(dba_name) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search organization projections: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		title := row.DBAName
		if title == "" {
			title = row.LegalName
		}
		subtitle := ""
		if row.DBAName != "" && row.DBAName != row.LegalName {
			subtitle = row.LegalName
		}
		results = append(results, domain.SearchResult{
			ID:       row.OrgID,
			Type:     domain.ResultTypeOrganization,
			Title:    title,
			Subtitle: subtitle,
			Link:     "/organization/" + row.OrgID,
			Score:    scoring.Score(title, query),
			Image:    row.LogoURL,
		})
	}
	return results, nil
}

func campaignSubtitle(row domain.CampaignSearchProjection) string {
	switch {
	case row.OrganizerName != "" && row.Location != "":
		return row.OrganizerName + " · " + row.Location
	case row.OrganizerName != "":
		return row.OrganizerName
	default:
		return row.Location
	}
}

// likePattern builds a %substring% pattern for a LOWER(col) LIKE
// comparison. The query is already lowercased by normalization.
func likePattern(query string) string {
	return "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= snippetMaxLen {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:snippetMaxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
