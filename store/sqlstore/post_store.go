package sqlstore

import (
	"database/sql"
	"net/http"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/store"
)

type SqlPostStore struct {
	store.Store
	maxPostSizeOnce   sync.Once
	maxPostSizeCached int
}

func NewSqlPostStore(sqlStore store.Store) store.PostStore {
	s := &SqlPostStore{
		Store:             sqlStore,
		maxPostSizeCached: model.POST_CONTENT_MAX_RUNES,
	}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.Post{}, "Posts").SetKeys(false, "Id")
		table.ColMap("Slug").SetMaxSize(model.POST_SLUG_MAX_LENGTH)
	}

	return s
}

func (s *SqlPostStore) Save(post *model.Post) (*model.Post, *model.AppError) {
	if len(post.Id) > 0 {
		return nil, model.NewAppError("SqlPostStore.Save", "store.sql_post.save.existing.app_error", nil, "id="+post.Id, http.StatusBadRequest)
	}

	maxPostSize := s.GetMaxPostSize()

	// also derives the slug from the title
	post.PreSave()
	if err := post.IsValid(maxPostSize); err != nil {
		return nil, err
	}

	if err := s.GetMaster().Insert(post); err != nil {
		if IsUniqueConstraintError(err, []string{"Slug", "posts_slug_key"}) {
			return nil, model.NewAppError("SqlPostStore.Save", "store.sql_post.save.slug_exists.app_error", nil, "id="+post.Id+", "+err.Error(), http.StatusBadRequest)
		}
		return nil, model.NewAppError("SqlPostStore.Save", "store.sql_post.save.app_error", nil, "id="+post.Id+", "+err.Error(), http.StatusInternalServerError)
	}

	return post, nil
}

func (s *SqlPostStore) Update(newPost *model.Post, oldPost *model.Post) (*model.Post, *model.AppError) {
	newPost.UpdateAt = model.GetMillis()
	newPost.EditAt = newPost.UpdateAt

	maxPostSize := s.GetMaxPostSize()

	if err := newPost.IsValid(maxPostSize); err != nil {
		return nil, err
	}

	if _, err := s.GetMaster().Update(newPost); err != nil {
		if IsUniqueConstraintError(err, []string{"Slug", "posts_slug_key"}) {
			return nil, model.NewAppError("SqlPostStore.Update", "store.sql_post.save.slug_exists.app_error", nil, "id="+newPost.Id+", "+err.Error(), http.StatusBadRequest)
		}
		return nil, model.NewAppError("SqlPostStore.Update", "store.sql_post.update.app_error", nil, "id="+newPost.Id+", "+err.Error(), http.StatusInternalServerError)
	}

	return newPost, nil
}

func (s *SqlPostStore) GetSingle(id string) (*model.Post, *model.AppError) {
	var post *model.Post
	err := s.GetReplica().SelectOne(&post, "SELECT * FROM Posts WHERE Id = :Id AND DeleteAt = 0", map[string]interface{}{"Id": id})

	if err != nil {
		return nil, model.NewAppError("SqlPostStore.GetSingle", "store.sql_post.get.app_error", nil, "id="+id+err.Error(), http.StatusNotFound)
	}
	return post, nil
}

func (s *SqlPostStore) GetBySlug(communityId string, postType string, slug string) (*model.Post, *model.AppError) {
	if !model.IsValidPostType(postType) {
		return nil, model.NewAppError("SqlPostStore.GetBySlug", "store.sql_post.get_by_slug.find.app_error", nil, "slug="+slug, http.StatusNotFound)
	}

	var post *model.Post
	err := s.GetReplica().SelectOne(&post, "SELECT * FROM Posts WHERE CommunityId = :CommunityId AND Type = :Type AND Slug = :Slug AND DeleteAt = 0", map[string]interface{}{"CommunityId": communityId, "Type": postType, "Slug": slug})

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewAppError("SqlPostStore.GetBySlug", "store.sql_post.get_by_slug.find.app_error", nil, "slug="+slug, http.StatusNotFound)
		}
		return nil, model.NewAppError("SqlPostStore.GetBySlug", "store.sql_post.get_by_slug.finding.app_error", nil, "slug="+slug+", "+err.Error(), http.StatusInternalServerError)
	}
	return post, nil
}

func (s *SqlPostStore) GetPostsByIds(postIds []string) (model.Posts, *model.AppError) {
	keys, params := MapStringsToQueryParams(postIds, "Post")
	query := `SELECT p.* FROM Posts p WHERE p.Id IN ` + keys + ` AND DeleteAt = 0 ORDER BY CreateAt DESC`

	var posts model.Posts
	_, err := s.GetReplica().Select(&posts, query, params)
	if err != nil {
		return nil, model.NewAppError("SqlPostStore.GetPostsByIds", "store.sql_post.get_posts_by_ids.app_error", nil, "", http.StatusInternalServerError)
	}
	return posts, nil
}

func (s *SqlPostStore) GetPosts(options *model.GetPostsOptions, getCount bool) (model.Posts, int64, *model.AppError) {
	searchOptions := &model.SearchPostsOptions{
		UserId:      options.UserId,
		SortType:    options.SortType,
		PostType:    options.PostType,
		CommunityId: options.CommunityId,
		FromDate:    options.FromDate,
		ToDate:      options.ToDate,
		Page:        options.Page,
		PerPage:     options.PerPage,
	}

	queryString, args, err := s.postsQuery(searchOptions, false).ToSql()
	if err != nil {
		return nil, int64(0), model.NewAppError("SqlPostStore.GetPosts", "store.sql_post.get_posts.get.app_error", nil, "", http.StatusInternalServerError)
	}

	var posts []*model.Post
	_, err = s.GetReplica().Select(&posts, queryString, args...)
	if err != nil {
		return nil, int64(0), model.NewAppError("SqlPostStore.GetPosts", "store.sql_post.get_posts.select.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	totalCount := int64(0)
	if getCount {
		queryString, args, err = s.postsQuery(searchOptions, true).ToSql()
		if err != nil {
			return nil, int64(0), model.NewAppError("SqlPostStore.GetPosts", "store.sql_post.get_posts.get.app_error", nil, "", http.StatusInternalServerError)
		}
		if totalCount, err = s.GetReplica().SelectInt(queryString, args...); err != nil {
			return nil, int64(0), model.NewAppError("SqlPostStore.GetPosts", "store.sql_post.get_posts.get.app_error", nil, "", http.StatusInternalServerError)
		}
	}

	return posts, totalCount, nil
}

// https://stackoverflow.com/questions/25088183/mysql-fulltext-search-with-symbol-produces-error-syntax-error-unexpected
var specialSearchChar = []string{
	"<",
	">",
	"+",
	"-",
	"(",
	")",
	"~",
	"@",
	":",
	".",
}

func (s *SqlPostStore) SearchPosts(terms string, communityId string, postType string, sortType string, page, perPage int) (model.Posts, int64, *model.AppError) {
	options := &model.SearchPostsOptions{
		Terms:       terms,
		PostType:    postType,
		CommunityId: communityId,
		SortType:    sortType,
		Page:        page,
		PerPage:     perPage,
	}

	queryString, args, err := s.postsQuery(options, false).ToSql()
	if err != nil {
		return nil, int64(0), model.NewAppError("SqlPostStore.SearchPosts", "store.sql_post.search_posts.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	var posts model.Posts
	_, err = s.GetReplica().Select(&posts, queryString, args...)
	if err != nil {
		return nil, int64(0), model.NewAppError("SqlPostStore.SearchPosts", "store.sql_post.search_posts.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	queryString, args, err = s.postsQuery(options, true).ToSql()
	if err != nil {
		return nil, int64(0), model.NewAppError("SqlPostStore.SearchPosts", "store.sql_post.search_posts.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	totalCount, err := s.GetReplica().SelectInt(queryString, args...)
	if err != nil {
		return nil, int64(0), model.NewAppError("SqlPostStore.SearchPosts", "store.sql_post.search_posts.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return posts, totalCount, nil
}

func (s *SqlPostStore) postsQuery(options *model.SearchPostsOptions, countQuery bool) sq.SelectBuilder {
	offset := options.Page * options.PerPage

	var selectStr string
	if countQuery {
		selectStr = "count(*)"
	} else {
		selectStr = "p.*"
	}

	query := s.GetQueryBuilder().Select(selectStr)
	query = query.From("Posts p").
		Where(sq.And{
			sq.Eq{"DeleteAt": int(0)},
		})

	if options.PostType != "" {
		query = query.Where(sq.And{
			sq.Expr(`Type = ?`, options.PostType),
		})
	}

	if options.CommunityId != "" {
		query = query.Where(sq.And{
			sq.Expr(`CommunityId = ?`, options.CommunityId),
		})
	}

	if len(options.Ids) > 0 {
		query = query.Where(sq.Eq{"Id": options.Ids})
	}

	if options.FromDate != 0 {
		query = query.Where(sq.And{
			sq.Expr(`CreateAt >= ?`, options.FromDate),
		})
	}

	if options.ToDate != 0 {
		query = query.Where(sq.And{
			sq.Expr(`CreateAt <= ?`, options.ToDate),
		})
	}

	if options.UserId != "" {
		query = query.Where(sq.And{
			sq.Expr(`UserId = ?`, options.UserId),
		})
	}

	var orderBy = "CreateAt DESC"
	if options.SortType == model.POST_SORT_TYPE_ACTIVE {
		orderBy = "UpdateAt DESC"
	}

	terms := options.Terms
	for _, c := range specialSearchChar {
		terms = strings.Replace(terms, c, " ", -1)
	}

	if terms != "" {
		splitTerms := []string{}
		for _, t := range strings.Fields(terms) {
			splitTerms = append(splitTerms, "+"+t)
		}
		terms = strings.Join(splitTerms, " ")

		query = query.Where(sq.And{
			sq.Expr("MATCH(Title, Content) AGAINST (? IN BOOLEAN MODE)", terms),
		})
	}

	if !countQuery {
		query = query.OrderBy(orderBy).
			Limit(uint64(options.PerPage)).
			Offset(uint64(offset))
	}

	return query
}

func (s *SqlPostStore) Delete(postId string, time int64, deleteById string) *model.AppError {
	appErr := func(errMsg string) *model.AppError {
		return model.NewAppError("SqlPostStore.Delete", "store.sql_post.delete.app_error", nil, "id="+postId+", err="+errMsg, http.StatusInternalServerError)
	}

	var post *model.Post
	err := s.GetReplica().SelectOne(&post, "SELECT * FROM Posts WHERE Id = :Id AND DeleteAt = 0", map[string]interface{}{"Id": postId})
	if err != nil {
		return appErr(err.Error())
	}

	post.AddProp(model.POST_PROPS_DELETE_BY, deleteById)

	if _, err := s.GetMaster().Exec("UPDATE Posts SET DeleteAt = :DeleteAt, UpdateAt = :UpdateAt, Props = :Props WHERE Id = :Id", map[string]interface{}{"DeleteAt": time, "UpdateAt": time, "Id": postId, "Props": model.StringInterfaceToJson(post.Props)}); err != nil {
		return model.NewAppError("SqlPostStore.Delete", "store.sql_post.delete.updating.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func (s *SqlPostStore) GetMaxPostSize() int {
	s.maxPostSizeOnce.Do(func() {
		s.maxPostSizeCached = s.determineMaxPostSize()
	})

	return s.maxPostSizeCached
}

func (s *SqlPostStore) determineMaxPostSize() int {
	var maxPostSizeBytes int32

	if err := s.GetReplica().SelectOne(&maxPostSizeBytes, `
		SELECT
			COALESCE(CHARACTER_MAXIMUM_LENGTH, 0)
		FROM
			INFORMATION_SCHEMA.COLUMNS
		WHERE
			table_schema = DATABASE()
		AND table_name = 'Posts'
		AND column_name = 'Content'
		LIMIT 1
	`); err != nil {
		mlog.Error("Unable to determine the maximum supported post size", mlog.Err(err))
	}

	maxPostSize := int(maxPostSizeBytes) / 4

	if maxPostSize < model.POST_CONTENT_MAX_RUNES {
		maxPostSize = model.POST_CONTENT_MAX_RUNES
	}

	mlog.Info("Post.Content has size restrictions", mlog.Int("max_characters", maxPostSize), mlog.Int32("max_bytes", maxPostSizeBytes))

	return maxPostSize
}
