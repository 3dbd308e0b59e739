package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/internal/scoring"
)

// suggestionOverfetch is how many candidate rows are pulled per lookup
// before re-ranking by scorer relevance; the final list is capped at
// the caller's limit.
const suggestionOverfetch = 50

// GormSuggestionRepository implements SuggestionRepository and
// SuggestionWriter over the search_suggestions table.
type GormSuggestionRepository struct {
	db *gorm.DB
}

// NewGormSuggestionRepository creates a new GORM-based suggestion repository.
func NewGormSuggestionRepository(db *gorm.DB) *GormSuggestionRepository {
	return &GormSuggestionRepository{db: db}
}

// Lookup returns up to limit suggestion terms for the given prefix,
// ordered by scorer relevance, then usage count.
func (r *GormSuggestionRepository) Lookup(ctx context.Context, prefix string, limit int) ([]string, error) {
	pattern := strings.ToLower(strings.TrimSpace(prefix)) + "%"

	var rows []domain.SearchSuggestion
	err := r.db.WithContext(ctx).
		Where("LOWER(term) LIKE ?", pattern).
		Order("usage_count DESC").
		Limit(suggestionOverfetch).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up suggestions: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si := scoring.Score(rows[i].Term, prefix)
		sj := scoring.Score(rows[j].Term, prefix)
		if si != sj {
			return si > sj
		}
		return rows[i].UsageCount > rows[j].UsageCount
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}

	terms := make([]string, len(rows))
	for i, row := range rows {
		terms[i] = row.Term
	}
	return terms, nil
}

// RecordTerm inserts the term with usage_count=1 or bumps the counter
// of an existing row. Called only from the analytics consumer.
func (r *GormSuggestionRepository) RecordTerm(ctx context.Context, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "term"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"usage_count": gorm.Expr("usage_count + 1"),
			}),
		}).
		Create(&domain.SearchSuggestion{Term: term, UsageCount: 1}).Error
	if err != nil {
		return fmt.Errorf("failed to record suggestion term: %w", err)
	}
	return nil
}
