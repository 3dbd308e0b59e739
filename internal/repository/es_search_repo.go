package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
	"github.com/vrusavuk/fundlyhub-sub006/internal/scoring"
)

// ESSearchRepository implements SearchRepository over CDC-maintained
// Elasticsearch indexes. Scores are recomputed with the relevance
// scorer so ordering matches the GORM driver regardless of the
// engine's own ranking.
type ESSearchRepository struct {
	client        *elasticsearch.Client
	indexUsers    string
	indexCampaign string
	indexOrgs     string
}

// NewESSearchRepository creates a new Elasticsearch-based search repository.
func NewESSearchRepository(client *elasticsearch.Client, indexUsers, indexCampaigns, indexOrgs string) *ESSearchRepository {
	return &ESSearchRepository{
		client:        client,
		indexUsers:    indexUsers,
		indexCampaign: indexCampaigns,
		indexOrgs:     indexOrgs,
	}
}

func (r *ESSearchRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"display_name", "bio", "location"},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"visibility": domain.VisibilityPublic}},
				},
			},
		},
	}

	hits, err := r.search(ctx, r.indexUsers, body)
	if err != nil {
		return nil, fmt.Errorf("failed to search users index: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		var row struct {
			UserID      string `json:"user_id"`
			DisplayName string `json:"display_name"`
			Bio         string `json:"bio"`
			Location    string `json:"location"`
			AvatarURL   string `json:"avatar_url"`
		}
		if err := json.Unmarshal(hit, &row); err != nil {
			continue
		}
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

func (r *ESSearchRepository) SearchCampaigns(ctx context.Context, query string, limit int, filters map[string]string) ([]domain.SearchResult, error) {
	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"visibility": domain.VisibilityPublic}},
		map[string]interface{}{"terms": map[string]interface{}{"status": domain.SearchableCampaignStatuses}},
	}
	if category := filters["category"]; category != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category": category}})
	}

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title", "summary", "story", "beneficiary_name", "location"},
					},
				},
				"filter": filter,
			},
		},
	}

	hits, err := r.search(ctx, r.indexCampaign, body)
	if err != nil {
		return nil, fmt.Errorf("failed to search campaigns index: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		var row struct {
			CampaignID    string `json:"campaign_id"`
			Slug          string `json:"slug"`
			Title         string `json:"title"`
			Summary       string `json:"summary"`
			Location      string `json:"location"`
			CoverImageURL string `json:"cover_image_url"`
			OrganizerName string `json:"organizer_name"`
		}
		if err := json.Unmarshal(hit, &row); err != nil {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:       row.CampaignID,
			Type:     domain.ResultTypeCampaign,
			Title:    row.Title,
			Subtitle: row.OrganizerName,
			Snippet:  snippet(row.Summary),
			Link:     "/fundraiser/" + row.Slug,
			Score:    scoring.Score(row.Title, query),
			Image:    row.CoverImageURL,
		})
	}
	return results, nil
}

func (r *ESSearchRepository) SearchOrganizations(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"legal_name", "dba_name"},
			},
		},
	}

	hits, err := r.search(ctx, r.indexOrgs, body)
	if err != nil {
		return nil, fmt.Errorf("failed to search organizations index: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		var row struct {
			OrgID     string `json:"org_id"`
			LegalName string `json:"legal_name"`
			DBAName   string `json:"dba_name"`
			LogoURL   string `json:"logo_url"`
		}
		if err := json.Unmarshal(hit, &row); err != nil {
			continue
		}
		title := row.DBAName
		if title == "" {
			title = row.LegalName
		}
		results = append(results, domain.SearchResult{
			ID:    row.OrgID,
			Type:  domain.ResultTypeOrganization,
			Title: title,
			Link:  "/organization/" + row.OrgID,
			Score: scoring.Score(title, query),
			Image: row.LogoURL,
		})
	}
	return results, nil
}

func (r *ESSearchRepository) search(ctx context.Context, index string, body map[string]interface{}) ([]json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	hits := make([]json.RawMessage, len(result.Hits.Hits))
	for i, hit := range result.Hits.Hits {
		hits[i] = hit.Source
	}
	return hits, nil
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
