package sqlstore

import (
	"database/sql"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/store"
	"github.com/go-gorp/gorp"
)

const (
	COMMUNITY_MEMBER_EXISTS_ERROR = "store.sql_community.save_member.exists.app_error"
)

type SqlCommunityStore struct {
	store.Store

	membersQuery sq.SelectBuilder
}

func communityMemberSliceColumns() []string {
	return []string{"CommunityId", "UserId", "Type", "CreateAt", "DeleteAt"}
}

func communityMemberToSlice(member *model.CommunityMember) []interface{} {
	resultSlice := []interface{}{}
	resultSlice = append(resultSlice, member.CommunityId)
	resultSlice = append(resultSlice, member.UserId)
	resultSlice = append(resultSlice, member.Type)
	resultSlice = append(resultSlice, member.CreateAt)
	resultSlice = append(resultSlice, member.DeleteAt)

	return resultSlice
}

func NewSqlCommunityStore(sqlStore store.Store) store.CommunityStore {
	s := &SqlCommunityStore{
		Store: sqlStore,
	}

	s.membersQuery = s.GetQueryBuilder().Select("CommunityMembers.*").From("CommunityMembers")

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.Community{}, "Communities").SetKeys(false, "Id")
		table.ColMap("Slug").SetMaxSize(model.COMMUNITY_SLUG_MAX_LENGTH).SetUnique(true)
		db.AddTableWithName(model.CommunityMember{}, "CommunityMembers").SetKeys(false, "CommunityId", "UserId")
	}

	return s
}

func (s SqlCommunityStore) Save(community *model.Community) (*model.Community, *model.AppError) {
	if len(community.Id) > 0 {
		return nil, model.NewAppError("SqlCommunityStore.Save",
			"store.sql_community.save.existing.app_error", nil, "id="+community.Id, http.StatusBadRequest)
	}

	// also assigns the invite id and slug
	community.PreSave()

	if err := community.IsValid(); err != nil {
		return nil, err
	}

	if err := s.GetMaster().Insert(community); err != nil {
		if IsUniqueConstraintError(err, []string{"Slug", "communities_slug_key"}) {
			return nil, model.NewAppError("SqlCommunityStore.Save", "store.sql_community.save.slug_exists.app_error", nil, "id="+community.Id+", "+err.Error(), http.StatusBadRequest)
		}
		return nil, model.NewAppError("SqlCommunityStore.Save", "store.sql_community.save.app_error", nil, "id="+community.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	return community, nil
}

// Get only finds live communities. A soft deleted community 404s the same
// way a missing one does, which keeps its posts unreachable.
func (s SqlCommunityStore) Get(id string) (*model.Community, *model.AppError) {
	community := model.Community{}

	err := s.GetReplica().SelectOne(&community, "SELECT * FROM Communities WHERE Id = :Id AND DeleteAt = 0", map[string]interface{}{"Id": id})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewAppError("SqlCommunityStore.Get", "store.sql_community.get.find.app_error", nil, "id="+id, http.StatusNotFound)
		}
		return nil, model.NewAppError("SqlCommunityStore.Get", "store.sql_community.get.finding.app_error", nil, "id="+id+", "+err.Error(), http.StatusInternalServerError)
	}

	return &community, nil
}

func (s SqlCommunityStore) GetBySlug(slug string) (*model.Community, *model.AppError) {
	community := model.Community{}

	err := s.GetReplica().SelectOne(&community, "SELECT * FROM Communities WHERE Slug = :Slug AND DeleteAt = 0", map[string]interface{}{"Slug": slug})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewAppError("SqlCommunityStore.GetBySlug", "store.sql_community.get_by_slug.find.app_error", nil, "slug="+slug, http.StatusNotFound)
		}
		return nil, model.NewAppError("SqlCommunityStore.GetBySlug", "store.sql_community.get_by_slug.finding.app_error", nil, "slug="+slug+", "+err.Error(), http.StatusInternalServerError)
	}

	return &community, nil
}

func (s SqlCommunityStore) GetByInviteId(inviteId string) (*model.Community, *model.AppError) {
	community := model.Community{}

	err := s.GetReplica().SelectOne(&community, "SELECT * FROM Communities WHERE InviteId = :InviteId AND DeleteAt = 0", map[string]interface{}{"InviteId": inviteId})
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetByInviteId", "store.sql_community.get_by_invite_id.finding.app_error", nil, "inviteId="+inviteId+", "+err.Error(), http.StatusNotFound)
	}

	if len(inviteId) == 0 || community.InviteId != inviteId {
		return nil, model.NewAppError("SqlCommunityStore.GetByInviteId", "store.sql_community.get_by_invite_id.find.app_error", nil, "inviteId="+inviteId, http.StatusNotFound)
	}
	return &community, nil
}

func (s SqlCommunityStore) GetAll(offset int, limit int) ([]*model.Community, *model.AppError) {
	query := s.GetQueryBuilder().
		Select("Communities.*").
		From("Communities").
		Where(sq.Eq{"Communities.DeleteAt": 0}).
		OrderBy("Communities.Name").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetAll", "store.sql_community.get_all.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	var communities []*model.Community
	if _, err := s.GetReplica().Select(&communities, queryString, args...); err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetAll", "store.sql_community.get_all.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return communities, nil
}

func (s SqlCommunityStore) Update(community *model.Community) (*model.Community, *model.AppError) {
	community.PreUpdate()

	if err := community.IsValid(); err != nil {
		return nil, err
	}

	oldResult, err := s.GetMaster().Get(model.Community{}, community.Id)
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.Update", "store.sql_community.update.finding.app_error", nil, "id="+community.Id+", "+err.Error(), http.StatusInternalServerError)

	}
	if oldResult == nil {
		return nil, model.NewAppError("SqlCommunityStore.Update", "store.sql_community.update.find.app_error", nil, "id="+community.Id, http.StatusBadRequest)
	}

	oldCommunity := oldResult.(*model.Community)
	community.CreateAt = oldCommunity.CreateAt
	community.UpdateAt = model.GetMillis()

	count, err := s.GetMaster().Update(community)
	if err != nil {
		if IsUniqueConstraintError(err, []string{"Slug", "communities_slug_key"}) {
			return nil, model.NewAppError("SqlCommunityStore.Update", "store.sql_community.save.slug_exists.app_error", nil, "id="+community.Id+", "+err.Error(), http.StatusBadRequest)
		}
		return nil, model.NewAppError("SqlCommunityStore.Update", "store.sql_community.update.updating.app_error", nil, "id="+community.Id+", "+err.Error(), http.StatusInternalServerError)
	}
	if count != 1 {
		return nil, model.NewAppError("SqlCommunityStore.Update", "store.sql_community.update.app_error", nil, "id="+community.Id, http.StatusInternalServerError)
	}

	return community, nil
}

func (s SqlCommunityStore) PermanentDelete(communityId string) *model.AppError {
	if _, err := s.GetMaster().Exec("DELETE FROM Communities WHERE Id = :CommunityId", map[string]interface{}{"CommunityId": communityId}); err != nil {
		return model.NewAppError("SqlCommunityStore.Delete", "store.sql_community.permanent_delete.app_error", nil, "communityId="+communityId+", "+err.Error(), http.StatusInternalServerError)
	}
	return nil
}

func (s SqlCommunityStore) GetMember(communityId string, userId string) (*model.CommunityMember, *model.AppError) {
	query := s.membersQuery.
		Where(sq.Eq{"CommunityMembers.CommunityId": communityId}).
		Where(sq.Eq{"CommunityMembers.UserId": userId})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMember", "store.sql_community.get_member.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	member := &model.CommunityMember{}
	err = s.GetReplica().SelectOne(&member, queryString, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewAppError("SqlCommunityStore.GetMember", store.MISSING_COMMUNITY_MEMBER_ERROR, nil, "communityId="+communityId+" userId="+userId+" "+err.Error(), http.StatusNotFound)
		}
		return nil, model.NewAppError("SqlCommunityStore.GetMember", "store.sql_community.get_member.app_error", nil, "communityId="+communityId+" userId="+userId+" "+err.Error(), http.StatusInternalServerError)
	}

	return member, nil
}

func (s SqlCommunityStore) GetMembers(communityId string, offset int, limit int, options *model.CommunityMembersGetOptions) ([]*model.CommunityMember, *model.AppError) {
	query := s.membersQuery.
		Where(sq.Eq{"CommunityMembers.CommunityId": communityId}).
		Where(sq.Eq{"CommunityMembers.DeleteAt": 0}).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if options == nil || options.Sort == "" {
		query = query.OrderBy("UserId")
	}

	if options != nil {
		if model.IsValidCommunityMemberType(options.Type) {
			query = query.Where(sq.Eq{"CommunityMembers.Type": options.Type})
		}

		if options.Sort == model.COMMUNITY_MEMBER_SORT_TYPE_USERNAME || options.ExcludeDeletedUsers {
			query = query.LeftJoin("Users ON CommunityMembers.UserId = Users.Id")
		}

		if options.ExcludeDeletedUsers {
			query = query.Where(sq.Eq{"Users.DeleteAt": 0})
		}

		if options.Sort == model.COMMUNITY_MEMBER_SORT_TYPE_USERNAME {
			query = query.OrderBy(model.COMMUNITY_MEMBER_SORT_TYPE_USERNAME)
		}
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMembers", "store.sql_community.get_members.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	members := []*model.CommunityMember{}
	_, err = s.GetReplica().Select(&members, queryString, args...)
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMembers", "store.sql_community.get_members.app_error", nil, "communityId="+communityId+" "+err.Error(), http.StatusInternalServerError)
	}

	return members, nil
}

func (s SqlCommunityStore) GetMembersByIds(communityId string, userIds []string) ([]*model.CommunityMember, *model.AppError) {
	if len(userIds) == 0 {
		return nil, model.NewAppError("SqlCommunityStore.GetMembersByIds", "store.sql_community.get_members_by_ids.app_error", nil, "Invalid list of user ids", http.StatusInternalServerError)
	}

	query := s.membersQuery.
		Where(sq.Eq{"CommunityMembers.CommunityId": communityId}).
		Where(sq.Eq{"CommunityMembers.UserId": userIds}).
		Where(sq.Eq{"CommunityMembers.DeleteAt": 0})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMembersByIds", "store.sql_community.get_members_by_ids.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	members := []*model.CommunityMember{}
	if _, err := s.GetReplica().Select(&members, queryString, args...); err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMembersByIds", "store.sql_community.get_members_by_ids.app_error", nil, "communityId="+communityId+" "+err.Error(), http.StatusInternalServerError)
	}

	return members, nil
}

func (s SqlCommunityStore) SaveMember(member *model.CommunityMember, maxUsersPerCommunity int) (*model.CommunityMember, *model.AppError) {
	member.PreSave()

	if err := member.IsValid(); err != nil {
		return nil, err
	}

	if maxUsersPerCommunity >= 0 {
		count, appErr := s.GetActiveMemberCount(member.CommunityId)
		if appErr != nil {
			return nil, appErr
		}
		if int(count)+1 > maxUsersPerCommunity {
			return nil, model.NewAppError("SqlCommunityStore.SaveMember", "store.sql_community.save_member.max_accounts.app_error", nil, "communityId="+member.CommunityId, http.StatusBadRequest)
		}
	}

	query := s.GetQueryBuilder().
		Insert("CommunityMembers").
		Columns(communityMemberSliceColumns()...).
		Values(communityMemberToSlice(member)...)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.SaveMember", "store.sql_community.save_member.save.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	if _, err := s.GetMaster().Exec(sql, args...); err != nil {
		if IsUniqueConstraintError(err, []string{"CommunityId", "PRIMARY"}) {
			return nil, model.NewAppError("SqlCommunityStore.SaveMember", COMMUNITY_MEMBER_EXISTS_ERROR, nil, err.Error(), http.StatusBadRequest)
		}
		return nil, model.NewAppError("SqlCommunityStore.SaveMember", "store.sql_community.save_member.save.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	newMember := *member
	return &newMember, nil
}

func (s SqlCommunityStore) GetActiveMemberCount(communityId string) (int64, *model.AppError) {
	query := s.GetQueryBuilder().
		Select("count(DISTINCT CommunityMembers.UserId)").
		From("CommunityMembers, Users").
		Where("CommunityMembers.DeleteAt = 0").
		Where("CommunityMembers.UserId = Users.Id").
		Where("Users.DeleteAt = 0").
		Where(sq.Eq{"CommunityMembers.CommunityId": communityId})

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, model.NewAppError("SqlCommunityStore.GetActiveMemberCount", "store.sql_community.get_active_member_count.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	count, err := s.GetReplica().SelectInt(queryString, args...)
	if err != nil {
		return 0, model.NewAppError("SqlCommunityStore.GetActiveMemberCount", "store.sql_community.get_active_member_count.app_error", nil, "communityId="+communityId+" "+err.Error(), http.StatusInternalServerError)
	}

	return count, nil
}

func (s SqlCommunityStore) UpdateMember(member *model.CommunityMember) (*model.CommunityMember, *model.AppError) {
	if err := member.IsValid(); err != nil {
		return nil, err
	}

	var transaction *gorp.Transaction
	var err error
	if transaction, err = s.GetMaster().Begin(); err != nil {
		return nil, model.NewAppError("SqlCommunityStore.UpdateMember", "store.sql_community.update_member.open_transaction.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	defer finalizeTransaction(transaction)

	if _, err := transaction.Update(member); err != nil {
		return nil, model.NewAppError("SqlCommunityStore.UpdateMember", "store.sql_community.update_member.app_error", nil, "community_id="+member.CommunityId+", "+"user_id="+member.UserId+", "+err.Error(), http.StatusInternalServerError)
	}

	res := model.CommunityMember{}
	if err := transaction.SelectOne(&res, "SELECT * FROM CommunityMembers WHERE CommunityMembers.CommunityId = :CommunityId AND CommunityMembers.UserId = :UserId", map[string]interface{}{"CommunityId": member.CommunityId, "UserId": member.UserId}); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewAppError("SqlCommunityStore.GetMember", store.MISSING_COMMUNITY_MEMBER_ERROR, nil, "community_id="+member.CommunityId+"user_id="+member.UserId+","+err.Error(), http.StatusNotFound)
		}

		return nil, model.NewAppError("SqlCommunityStore.GetMember", "store.sql_community.get_member.app_error", nil, "community_id="+member.CommunityId+"user_id="+member.UserId+","+err.Error(), http.StatusInternalServerError)
	}

	if err := transaction.Commit(); err != nil {
		return nil, model.NewAppError("SqlCommunityStore.UpdateMember", "store.sql_community.update_member.commit_transaction.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return &res, nil
}

func (s SqlCommunityStore) RemoveMember(communityId string, userId string) *model.AppError {
	_, err := s.GetMaster().Exec("DELETE FROM CommunityMembers WHERE CommunityId = :CommunityId AND UserId = :UserId", map[string]interface{}{"CommunityId": communityId, "UserId": userId})
	if err != nil {
		return model.NewAppError("SqlCommunityStore.RemoveMember", "store.sql_community.remove_member.app_error", nil, "community_id="+communityId+", user_id="+userId+", "+err.Error(), http.StatusInternalServerError)
	}
	return nil
}

func (s SqlCommunityStore) RemoveAllMembersByCommunity(communityId string) *model.AppError {
	_, err := s.GetMaster().Exec("DELETE FROM CommunityMembers WHERE CommunityId = :CommunityId", map[string]interface{}{"CommunityId": communityId})
	if err != nil {
		return model.NewAppError("SqlCommunityStore.RemoveMember", "store.sql_community.remove_member.app_error", nil, "community_id="+communityId+", "+err.Error(), http.StatusInternalServerError)
	}
	return nil
}

func (s SqlCommunityStore) GetCommunitiesByUserId(userId string) ([]*model.Community, *model.AppError) {
	var communities []*model.Community
	if _, err := s.GetReplica().Select(&communities, "SELECT Communities.* FROM Communities, CommunityMembers WHERE CommunityMembers.CommunityId = Communities.Id AND CommunityMembers.UserId = :UserId AND CommunityMembers.DeleteAt = 0 AND Communities.DeleteAt = 0", map[string]interface{}{"UserId": userId}); err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetCommunitiesByUserId", "store.sql_community.get_all.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return communities, nil
}

func (s SqlCommunityStore) GetCommunitiesForUser(userId string) ([]*model.CommunityMember, *model.AppError) {
	query := s.membersQuery.
		Where(sq.Eq{"CommunityMembers.UserId": userId})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMembers", "store.sql_community.get_members.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	members := []*model.CommunityMember{}
	_, err = s.GetReplica().Select(&members, queryString, args...)
	if err != nil {
		return nil, model.NewAppError("SqlCommunityStore.GetMembers", "store.sql_community.get_members.app_error", nil, "userId="+userId+" "+err.Error(), http.StatusInternalServerError)
	}

	return members, nil
}
