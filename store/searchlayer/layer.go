package searchlayer

import (
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/services/search"
	"github.com/commstack/portal/store"
)

type SearchStore struct {
	store.Store
	post   *SearchPostStore
	config *model.Config
}

func NewSearchLayer(baseStore store.Store, cfg *model.Config) *SearchStore {
	searchStore := &SearchStore{
		Store:  baseStore,
		config: cfg,
	}

	searchStore.post = &SearchPostStore{
		PostStore: baseStore.Post(),
		rootStore: searchStore,
	}

	return searchStore
}

func (s *SearchStore) Post() store.PostStore {
	return s.post
}

func (s *SearchStore) backend() (*search.ESBackend, error) {
	backend, err := search.NewESBackend(&s.config.SearchSettings)
	if err != nil {
		return nil, *err
	}

	return backend, nil
}

func (s *SearchStore) SetupIndexes() {
	if err := s.post.setupIndex(); err != nil {
		mlog.Error("Failed to set up the posts search index", mlog.Err(err))
	}
}

func (s *SearchStore) indexPost(post *model.Post) error {
	backend, err := s.backend()
	if err != nil {
		return err
	}

	return backend.IndexESPost(search.ESPostFromPost(post))
}

func (s *SearchStore) deletePost(post *model.Post) error {
	backend, err := s.backend()
	if err != nil {
		return err
	}

	return backend.DeleteESPost(search.ESPostFromPost(post))
}
