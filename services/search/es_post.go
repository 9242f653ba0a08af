package search

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/commstack/portal/model"
)

type ESPost struct {
	Id          string `json:"id"`
	Type        string `json:"type"`
	UserId      string `json:"user_id"`
	CommunityId string `json:"community_id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreateAt    int64  `json:"create_at"`
	UpdateAt    int64  `json:"update_at"`
	DeleteAt    int64  `json:"delete_at"`
}

func ESPostFromPost(post *model.Post) *ESPost {
	return &ESPost{
		Id:          post.Id,
		Type:        post.Type,
		UserId:      post.UserId,
		CommunityId: post.CommunityId,
		Slug:        post.Slug,
		Title:       post.Title,
		Content:     post.Content,
		CreateAt:    post.CreateAt,
		UpdateAt:    post.UpdateAt,
		DeleteAt:    post.DeleteAt,
	}
}

type ESPostSearchResults struct {
	Total int       `json:"total"`
	Hits  []*ESPost `json:"hits"`
}

func (b *ESBackend) IndexESPost(item *ESPost) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return b.Indexing(payload, item.Id, INDEX_NAME_POSTS)
}

func (b *ESBackend) DeleteESPost(item *ESPost) error {
	return b.DeleteIndex(item.Id, INDEX_NAME_POSTS)
}

// SearchESPosts runs a full text search over post titles and contents,
// optionally scoped to a community and a post type.
func (b *ESBackend) SearchESPosts(terms string, communityId string, postType string, limit int) (*ESPostSearchResults, error) {
	var results ESPostSearchResults

	filter := []map[string]interface{}{}
	if len(communityId) > 0 {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{
				"community_id": communityId,
			},
		})
	}
	if len(postType) > 0 {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{
				"type": postType,
			},
		})
	}

	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  terms,
						"fields": []string{"title", "content"},
					},
				},
				"filter": filter,
			},
		},
		"size": limit,
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := b.es.Search(
		b.es.Search.WithIndex(INDEX_NAME_POSTS),
		b.es.Search.WithBody(&buf),
	)
	if err != nil {
		return &results, err
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return &results, err
		}
		return &results, fmt.Errorf("[%s] %s: %s", res.Status(), e["error"].(map[string]interface{})["type"], e["error"].(map[string]interface{})["reason"])
	}

	type envelopeResponse struct {
		Took int
		Hits struct {
			Total struct {
				Value int
			}
			Hits []struct {
				Id     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			}
		}
	}

	var r envelopeResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return &results, err
	}

	results.Total = r.Hits.Total.Value

	if len(r.Hits.Hits) < 1 {
		results.Hits = []*ESPost{}
		return &results, nil
	}

	for _, hit := range r.Hits.Hits {
		var h ESPost
		h.Id = hit.Id

		if err := json.Unmarshal(hit.Source, &h); err != nil {
			return &results, err
		}

		results.Hits = append(results.Hits, &h)
	}

	return &results, nil
}

// RelatedESPosts finds posts similar to the given text.
func (b *ESBackend) RelatedESPosts(term string, limit int) (*ESPostSearchResults, error) {
	var results ESPostSearchResults

	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields":        []string{"title", "content"},
				"like":          term,
				"min_term_freq": 1,
			},
		},
		"size": limit,
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := b.es.Search(
		b.es.Search.WithIndex(INDEX_NAME_POSTS),
		b.es.Search.WithBody(&buf),
	)
	if err != nil {
		return &results, err
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return &results, err
		}
		return &results, fmt.Errorf("[%s] %s: %s", res.Status(), e["error"].(map[string]interface{})["type"], e["error"].(map[string]interface{})["reason"])
	}

	type envelopeResponse struct {
		Took int
		Hits struct {
			Total struct {
				Value int
			}
			Hits []struct {
				Id     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			}
		}
	}

	var r envelopeResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return &results, err
	}

	results.Total = r.Hits.Total.Value

	if len(r.Hits.Hits) < 1 {
		results.Hits = []*ESPost{}
		return &results, nil
	}

	for _, hit := range r.Hits.Hits {
		var h ESPost
		h.Id = hit.Id

		if err := json.Unmarshal(hit.Source, &h); err != nil {
			return &results, err
		}

		results.Hits = append(results.Hits, &h)
	}

	return &results, nil
}
