package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/commstack/portal/model"
	"github.com/go-gorp/gorp"
)

const (
	MISSING_ACCOUNT_ERROR          = "store.sql_user.missing_account.app_error"
	MISSING_COMMUNITY_MEMBER_ERROR = "store.sql_community.get_member.missing.app_error"
)

type StoreResult struct {
	Data interface{}
	Err  *model.AppError
}

type Store interface {
	DriverName() string
	GetMaster() *gorp.DbMap
	GetReplica() *gorp.DbMap
	TotalMasterDbConnections() int
	TotalReadDbConnections() int
	Close()
	GetAllConns() []*gorp.DbMap
	GetQueryBuilder() sq.StatementBuilderType
	DropAllTables()

	Community() CommunityStore
	User() UserStore
	Token() TokenStore
	Session() SessionStore
	Post() PostStore
	Audit() AuditStore
}

type CommunityStore interface {
	Get(id string) (*model.Community, *model.AppError)
	GetBySlug(slug string) (*model.Community, *model.AppError)
	GetByInviteId(inviteId string) (*model.Community, *model.AppError)
	GetAll(offset int, limit int) ([]*model.Community, *model.AppError)
	Save(community *model.Community) (*model.Community, *model.AppError)
	Update(community *model.Community) (*model.Community, *model.AppError)
	PermanentDelete(communityId string) *model.AppError
	GetMember(communityId string, userId string) (*model.CommunityMember, *model.AppError)
	GetMembers(communityId string, offset int, limit int, options *model.CommunityMembersGetOptions) ([]*model.CommunityMember, *model.AppError)
	GetMembersByIds(communityId string, userIds []string) ([]*model.CommunityMember, *model.AppError)
	SaveMember(member *model.CommunityMember, maxUsersPerCommunity int) (*model.CommunityMember, *model.AppError)
	GetActiveMemberCount(communityId string) (int64, *model.AppError)
	UpdateMember(member *model.CommunityMember) (*model.CommunityMember, *model.AppError)
	RemoveMember(communityId string, userId string) *model.AppError
	RemoveAllMembersByCommunity(communityId string) *model.AppError
	GetCommunitiesByUserId(userId string) ([]*model.Community, *model.AppError)
	GetCommunitiesForUser(userId string) ([]*model.CommunityMember, *model.AppError)
}

type UserStore interface {
	Save(user *model.User) (*model.User, *model.AppError)
	Update(user *model.User, trustedUpdateData bool) (*model.UserUpdate, *model.AppError)
	Get(id string) (*model.User, *model.AppError)
	GetByIds(userIds []string) ([]*model.User, *model.AppError)
	GetByEmail(email string) (*model.User, *model.AppError)
	GetUsersByDates(options *model.GetUsersOptions) ([]*model.User, *model.AppError)
	GetForLogin(loginId string) (*model.User, *model.AppError)
	VerifyEmail(userId, email string) (string, *model.AppError)
	Delete(userId string, time int64, deleteById string) *model.AppError
	UpdatePassword(userId, hashedPassword string) *model.AppError
	UpdateFailedPasswordAttempts(userId string, attempts int) *model.AppError
	Count(options *model.UserCountOptions) (int64, *model.AppError)
}

type TokenStore interface {
	Save(recovery *model.Token) *model.AppError
	GetByToken(token string) (*model.Token, *model.AppError)
	Delete(token string) *model.AppError
}

type SessionStore interface {
	Get(sessionIdOrToken string) (*model.Session, *model.AppError)
	Save(session *model.Session) (*model.Session, *model.AppError)
	Remove(sessionIdOrToken string) *model.AppError
	RemoveByUserId(userId string) *model.AppError
}

type PostStore interface {
	Save(post *model.Post) (*model.Post, *model.AppError)
	Update(newPost *model.Post, oldPost *model.Post) (*model.Post, *model.AppError)
	GetSingle(id string) (*model.Post, *model.AppError)
	GetBySlug(communityId string, postType string, slug string) (*model.Post, *model.AppError)
	GetPostsByIds(postIds []string) (model.Posts, *model.AppError)
	GetPosts(options *model.GetPostsOptions, getCount bool) (model.Posts, int64, *model.AppError)
	SearchPosts(terms string, communityId string, postType string, sortType string, page, perPage int) (model.Posts, int64, *model.AppError)
	Delete(postId string, time int64, deleteById string) *model.AppError
	GetMaxPostSize() int
}

type AuditStore interface {
	Get(user_id string, offset int, limit int) (model.Audits, *model.AppError)
	Save(audit *model.Audit) *model.AppError
	PermanentDeleteByUser(userId string) *model.AppError
}
