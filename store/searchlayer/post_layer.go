package searchlayer

import (
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/services/search"
	"github.com/commstack/portal/store"
)

type SearchPostStore struct {
	store.PostStore
	rootStore *SearchStore
}

func (s *SearchPostStore) indexPost(post *model.Post) {
	if err := s.rootStore.indexPost(post); err != nil {
		mlog.Error("Failed to index post", mlog.String("post_id", post.Id), mlog.Err(err))
	}
}

func (s *SearchPostStore) Save(post *model.Post) (*model.Post, *model.AppError) {
	post, err := s.PostStore.Save(post)
	if err == nil {
		s.indexPost(post)
	}

	return post, err
}

func (s *SearchPostStore) Update(newPost *model.Post, oldPost *model.Post) (*model.Post, *model.AppError) {
	post, err := s.PostStore.Update(newPost, oldPost)
	if err == nil {
		s.indexPost(post)
	}

	return post, err
}

func (s *SearchPostStore) Delete(postId string, time int64, deleteById string) *model.AppError {
	post, appErr := s.PostStore.GetSingle(postId)

	err := s.PostStore.Delete(postId, time, deleteById)
	if err == nil && appErr == nil {
		if delErr := s.rootStore.deletePost(post); delErr != nil {
			mlog.Error("Failed to remove post from the index", mlog.String("post_id", postId), mlog.Err(delErr))
		}
	}

	return err
}

// SearchPosts asks elasticsearch first and falls back to the database
// when the search backend is unavailable.
func (s *SearchPostStore) SearchPosts(terms string, communityId string, postType string, sortType string, page, perPage int) (model.Posts, int64, *model.AppError) {
	backend, err := s.rootStore.backend()
	if err != nil {
		mlog.Warn("Search backend unavailable, falling back to the database", mlog.Err(err))
		return s.PostStore.SearchPosts(terms, communityId, postType, sortType, page, perPage)
	}

	results, err := backend.SearchESPosts(terms, communityId, postType, model.POST_SEARCH_MAX_COUNT)
	if err != nil {
		mlog.Warn("Search query failed, falling back to the database", mlog.Err(err))
		return s.PostStore.SearchPosts(terms, communityId, postType, sortType, page, perPage)
	}

	var ids []string
	for _, hit := range results.Hits {
		ids = append(ids, hit.Id)
	}

	if len(ids) == 0 {
		return model.Posts{}, 0, nil
	}

	posts, appErr := s.PostStore.GetPostsByIds(ids)
	if appErr != nil {
		return nil, 0, appErr
	}

	totalCount := int64(len(posts))

	start := page * perPage
	if start >= len(posts) {
		return model.Posts{}, totalCount, nil
	}

	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}

	return posts[start:end], totalCount, nil
}

func (s *SearchPostStore) setupIndex() error {
	mapping := `{
    "mappings": {
      "properties": {
        "id":           { "type": "keyword" },
        "type":         { "type": "keyword" },
        "user_id":      { "type": "keyword" },
        "community_id": { "type": "keyword" },
        "slug":         { "type": "keyword" },
        "title":        { "type": "text", "analyzer": "english" },
        "content":      { "type": "text", "analyzer": "english" },
        "create_at":    { "type": "date" },
        "update_at":    { "type": "date" },
        "delete_at":    { "type": "date" }
      }
    }
	}`

	backend, err := s.rootStore.backend()
	if err != nil {
		return err
	}

	return backend.CreateIndex(mapping, search.INDEX_NAME_POSTS)
}
