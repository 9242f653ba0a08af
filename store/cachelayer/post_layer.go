package cachelayer

import (
	"strings"

	"github.com/commstack/portal/model"
	"github.com/commstack/portal/store"
)

const (
	POST_SLUG_KEY_TTL = 15 * 60
)

type CachePostStore struct {
	store.PostStore
	rootStore *CacheStore
}

func postSlugKey(communityId string, postType string, slug string) string {
	return communityId + postType + slug
}

func (s CachePostStore) GetBySlug(communityId string, postType string, slug string) (*model.Post, *model.AppError) {
	key := postSlugKey(communityId, postType, slug)

	if data := s.rootStore.readCache(key); data != nil {
		return model.PostFromJson(strings.NewReader(*data)), nil
	}

	post, err := s.PostStore.GetBySlug(communityId, postType, slug)
	if err != nil {
		return nil, err
	}

	s.rootStore.addToCache(key, post.ToJson(), POST_SLUG_KEY_TTL)

	return post, nil
}

func (s CachePostStore) InvalidatePost(post *model.Post) {
	s.rootStore.deleteCache([]string{postSlugKey(post.CommunityId, post.Type, post.Slug)})
}

func (s CachePostStore) Update(newPost *model.Post, oldPost *model.Post) (*model.Post, *model.AppError) {
	updated, err := s.PostStore.Update(newPost, oldPost)
	if err != nil {
		return nil, err
	}

	// the slug changes when the title does, so drop both keys
	if oldPost != nil {
		s.InvalidatePost(oldPost)
	}
	s.InvalidatePost(updated)

	return updated, nil
}

func (s CachePostStore) Delete(postId string, time int64, deleteById string) *model.AppError {
	post, err := s.PostStore.GetSingle(postId)
	if err == nil {
		s.InvalidatePost(post)
	}

	return s.PostStore.Delete(postId, time, deleteById)
}
