package app

import (
	"net/http"
	"strings"

	"github.com/commstack/portal/model"
	"github.com/commstack/portal/store"
)

const (
	TOKEN_TYPE_COMMUNITY_INVITATION = "community_invitation"

	INVITATION_EXPIRY_TIME = 1000 * 60 * 60 * 48 // 48 hours
)

func (a *App) CreateCommunity(community *model.Community) (*model.Community, *model.AppError) {
	community.InviteId = ""
	// the store assigns the invite id and slug on PreSave()
	rcommunity, err := a.Srv.Store.Community().Save(community)
	if err != nil {
		return nil, err
	}

	return rcommunity, nil
}

func (a *App) CreateCommunityWithUser(community *model.Community, userId string) (*model.Community, *model.AppError) {
	user, err := a.GetUser(userId)
	if err != nil {
		return nil, err
	}
	// the creator's email address becomes the community's contact address
	community.Email = user.Email

	rcommunity, err := a.CreateCommunity(community)
	if err != nil {
		return nil, err
	}

	// the creator administers the community
	member := &model.CommunityMember{
		CommunityId: rcommunity.Id,
		UserId:      user.Id,
		Type:        model.COMMUNITY_MEMBER_TYPE_ADMIN,
	}

	if _, err := a.Srv.Store.Community().SaveMember(member, *a.Config().CommunitySettings.MaxUsersPerCommunity); err != nil {
		return nil, err
	}

	a.ClearSessionCacheForUser(user.Id)

	return rcommunity, nil
}

// Returns three values:
// 1. a pointer to the community member, if successful
// 2. a boolean: true if the user already has a non-deleted member for that community.
// 3. a pointer to an AppError if something went wrong.
func (a *App) joinUserToCommunity(community *model.Community, user *model.User) (*model.CommunityMember, bool, *model.AppError) {
	cm := &model.CommunityMember{
		CommunityId: community.Id,
		UserId:      user.Id,
		Type:        model.COMMUNITY_MEMBER_TYPE_NORMAL,
	}

	rcm, err := a.Srv.Store.Community().GetMember(community.Id, user.Id)
	if err != nil {
		var cmr *model.CommunityMember
		cmr, err = a.Srv.Store.Community().SaveMember(cm, *a.Config().CommunitySettings.MaxUsersPerCommunity)
		if err != nil {
			return nil, false, err
		}
		return cmr, false, nil
	}

	if rcm.DeleteAt == 0 {
		return rcm, true, nil
	}

	// the member exists but was soft deleted earlier

	membersCount, err := a.Srv.Store.Community().GetActiveMemberCount(cm.CommunityId)
	if err != nil {
		return nil, false, err
	}

	if membersCount >= int64(*a.Config().CommunitySettings.MaxUsersPerCommunity) {
		return nil, false, model.NewAppError("joinUserToCommunity", "app.community.join_user_to_community.max_accounts.app_error", nil, "communityId="+cm.CommunityId, http.StatusBadRequest)
	}

	member, err := a.Srv.Store.Community().UpdateMember(cm)
	if err != nil {
		return nil, false, err
	}

	return member, false, nil
}

func (a *App) JoinUserToCommunity(community *model.Community, user *model.User, userRequestorId string) *model.AppError {
	_, alreadyAdded, err := a.joinUserToCommunity(community, user)
	if err != nil {
		return err
	}
	if alreadyAdded {
		return nil
	}

	a.ClearSessionCacheForUser(user.Id)

	return nil
}

func (a *App) GetCommunitiesForUser(userId string) ([]*model.Community, *model.AppError) {
	return a.Srv.Store.Community().GetCommunitiesByUserId(userId)
}

func (a *App) GetCommunities(page, perPage int) ([]*model.Community, *model.AppError) {
	return a.Srv.Store.Community().GetAll(page*perPage, perPage)
}

func (a *App) SanitizeCommunity(session model.Session, community *model.Community) *model.Community {
	if a.SessionHasPermissionToCommunity(session, community.Id, model.PERMISSION_MANAGE_COMMUNITY) {
		return community
	}

	community.Sanitize()

	return community
}

func (a *App) SanitizeCommunities(session model.Session, communities []*model.Community) []*model.Community {
	for _, community := range communities {
		a.SanitizeCommunity(session, community)
	}

	return communities
}

func (a *App) GetCommunity(communityId string) (*model.Community, *model.AppError) {
	return a.Srv.Store.Community().Get(communityId)
}

func (a *App) GetCommunityBySlug(slug string) (*model.Community, *model.AppError) {
	return a.Srv.Store.Community().GetBySlug(slug)
}

func (a *App) UpdateCommunity(community *model.Community) (*model.Community, *model.AppError) {
	oldCommunity, err := a.GetCommunity(community.Id)
	if err != nil {
		return nil, err
	}

	oldCommunity.Name = community.Name
	oldCommunity.Description = community.Description

	oldCommunity, err = a.updateCommunityUnsanitized(oldCommunity)
	if err != nil {
		return community, err
	}

	return oldCommunity, nil
}

func (a *App) updateCommunityUnsanitized(community *model.Community) (*model.Community, *model.AppError) {
	return a.Srv.Store.Community().Update(community)
}

func (a *App) PermanentDeleteCommunityId(communityId string) *model.AppError {
	community, err := a.GetCommunity(communityId)
	if err != nil {
		return err
	}

	return a.PermanentDeleteCommunity(community)
}

func (a *App) PermanentDeleteCommunity(community *model.Community) *model.AppError {
	community.DeleteAt = model.GetMillis()
	if _, err := a.Srv.Store.Community().Update(community); err != nil {
		return err
	}

	if err := a.Srv.Store.Community().RemoveAllMembersByCommunity(community.Id); err != nil {
		return err
	}

	if err := a.Srv.Store.Community().PermanentDelete(community.Id); err != nil {
		return err
	}

	return nil
}

func (a *App) SoftDeleteCommunity(communityId string) *model.AppError {
	community, err := a.GetCommunity(communityId)
	if err != nil {
		return err
	}

	community.DeleteAt = model.GetMillis()
	if community, err = a.Srv.Store.Community().Update(community); err != nil {
		return err
	}

	return nil
}

func (a *App) RegenerateCommunityInviteId(communityId string) (*model.Community, *model.AppError) {
	community, err := a.GetCommunity(communityId)
	if err != nil {
		return nil, err
	}

	community.InviteId = model.NewId()

	updatedCommunity, err := a.Srv.Store.Community().Update(community)
	if err != nil {
		return nil, err
	}

	return updatedCommunity, nil
}

func (a *App) prepareInviteNewUsersToCommunity(communityId, senderId string) (*model.User, *model.Community, *model.AppError) {
	cchan := make(chan store.StoreResult, 1)
	go func() {
		community, err := a.Srv.Store.Community().Get(communityId)
		cchan <- store.StoreResult{Data: community, Err: err}
		close(cchan)
	}()

	uchan := make(chan store.StoreResult, 1)
	go func() {
		user, err := a.Srv.Store.User().Get(senderId)
		uchan <- store.StoreResult{Data: user, Err: err}
		close(uchan)
	}()

	result := <-cchan
	if result.Err != nil {
		return nil, nil, result.Err
	}
	community := result.Data.(*model.Community)

	result = <-uchan
	if result.Err != nil {
		return nil, nil, result.Err
	}
	user := result.Data.(*model.User)

	return user, community, nil
}

func (a *App) InviteNewUsersToCommunity(emailList []string, communityId, senderId string) *model.AppError {
	if len(emailList) == 0 {
		err := model.NewAppError("InviteNewUsersToCommunity", "api.community.invite_members.no_one.app_error", nil, "", http.StatusBadRequest)
		return err
	}

	user, community, err := a.prepareInviteNewUsersToCommunity(communityId, senderId)
	if err != nil {
		return err
	}

	var invalidEmailList []string
	for _, email := range emailList {
		if !model.IsValidEmail(email) {
			invalidEmailList = append(invalidEmailList, email)
		}
	}

	if len(invalidEmailList) > 0 {
		s := strings.Join(invalidEmailList, ", ")
		err := model.NewAppError("InviteNewUsersToCommunity", "api.community.invite_members.invalid_email.app_error", map[string]interface{}{"Addresses": s}, "", http.StatusBadRequest)
		return err
	}

	a.SendInviteEmails(community, user.Username, user.Id, emailList, a.GetSiteURL())

	return nil
}

func (a *App) AddCommunityMemberByToken(userId, tokenId string) (*model.CommunityMember, *model.AppError) {
	community, err := a.AddUserToCommunityByToken(userId, tokenId)
	if err != nil {
		return nil, err
	}

	communityMember, err := a.GetCommunityMember(community.Id, userId)
	if err != nil {
		return nil, err
	}

	return communityMember, nil
}

func (a *App) AddCommunityMemberByInviteId(inviteId, userId string) (*model.CommunityMember, *model.AppError) {
	community, err := a.AddUserToCommunityByInviteId(inviteId, userId)
	if err != nil {
		return nil, err
	}

	communityMember, err := a.GetCommunityMember(community.Id, userId)
	if err != nil {
		return nil, err
	}
	return communityMember, nil
}

func (a *App) AddUserToCommunityByToken(userId string, tokenId string) (*model.Community, *model.AppError) {
	token, err := a.Srv.Store.Token().GetByToken(tokenId)
	if err != nil {
		return nil, model.NewAppError("AddUserToCommunityByToken", "api.user.create_user.signup_link_invalid.app_error", nil, err.Error(), http.StatusBadRequest)
	}

	if token.Type != TOKEN_TYPE_COMMUNITY_INVITATION {
		return nil, model.NewAppError("AddUserToCommunityByToken", "api.user.create_user.signup_link_invalid.app_error", nil, "", http.StatusBadRequest)
	}

	if model.GetMillis()-token.CreateAt >= INVITATION_EXPIRY_TIME {
		a.DeleteToken(token)
		return nil, model.NewAppError("AddUserToCommunityByToken", "api.user.create_user.signup_link_expired.app_error", nil, "", http.StatusBadRequest)
	}

	tokenData := model.MapFromJson(strings.NewReader(token.Extra))

	cchan := make(chan store.StoreResult, 1)
	go func() {
		community, err := a.Srv.Store.Community().Get(tokenData["communityId"])
		cchan <- store.StoreResult{Data: community, Err: err}
		close(cchan)
	}()

	uchan := make(chan store.StoreResult, 1)
	go func() {
		user, err := a.Srv.Store.User().Get(userId)
		uchan <- store.StoreResult{Data: user, Err: err}
		close(uchan)
	}()

	result := <-cchan
	if result.Err != nil {
		return nil, result.Err
	}
	community := result.Data.(*model.Community)

	result = <-uchan
	if result.Err != nil {
		return nil, result.Err
	}
	user := result.Data.(*model.User)

	if err := a.JoinUserToCommunity(community, user, ""); err != nil {
		return nil, err
	}

	if err := a.DeleteToken(token); err != nil {
		return nil, err
	}

	return community, nil
}

func (a *App) AddUserToCommunityByInviteId(inviteId string, userId string) (*model.Community, *model.AppError) {
	cchan := make(chan store.StoreResult, 1)
	go func() {
		community, err := a.Srv.Store.Community().GetByInviteId(inviteId)
		cchan <- store.StoreResult{Data: community, Err: err}
		close(cchan)
	}()

	uchan := make(chan store.StoreResult, 1)
	go func() {
		user, err := a.Srv.Store.User().Get(userId)
		uchan <- store.StoreResult{Data: user, Err: err}
		close(uchan)
	}()

	result := <-cchan
	if result.Err != nil {
		return nil, result.Err
	}
	community := result.Data.(*model.Community)

	result = <-uchan
	if result.Err != nil {
		return nil, result.Err
	}
	user := result.Data.(*model.User)

	if err := a.JoinUserToCommunity(community, user, ""); err != nil {
		return nil, err
	}

	return community, nil
}

func (a *App) GetCommunityMember(communityId, userId string) (*model.CommunityMember, *model.AppError) {
	return a.Srv.Store.Community().GetMember(communityId, userId)
}

func (a *App) GetCommunityMembers(communityId string, offset int, limit int, communityMembersGetOptions *model.CommunityMembersGetOptions) ([]*model.CommunityMember, *model.AppError) {
	return a.Srv.Store.Community().GetMembers(communityId, offset, limit, communityMembersGetOptions)
}

func (a *App) GetCommunityMembersByIds(communityId string, userIds []string) ([]*model.CommunityMember, *model.AppError) {
	return a.Srv.Store.Community().GetMembersByIds(communityId, userIds)
}

func (a *App) GetCommunityMembersForUser(userId string) ([]*model.CommunityMember, *model.AppError) {
	return a.Srv.Store.Community().GetCommunitiesForUser(userId)
}

func (a *App) RemoveUserFromCommunity(communityId string, userId string, requestorId string) *model.AppError {
	cchan := make(chan store.StoreResult, 1)
	go func() {
		community, err := a.Srv.Store.Community().Get(communityId)
		cchan <- store.StoreResult{Data: community, Err: err}
		close(cchan)
	}()

	uchan := make(chan store.StoreResult, 1)
	go func() {
		user, err := a.Srv.Store.User().Get(userId)
		uchan <- store.StoreResult{Data: user, Err: err}
		close(uchan)
	}()

	result := <-cchan
	if result.Err != nil {
		return result.Err
	}
	community := result.Data.(*model.Community)

	result = <-uchan
	if result.Err != nil {
		return result.Err
	}
	user := result.Data.(*model.User)

	if err := a.LeaveCommunity(community, user, requestorId); err != nil {
		return err
	}

	return nil
}

func (a *App) LeaveCommunity(community *model.Community, user *model.User, requestorId string) *model.AppError {
	communityMember, err := a.GetCommunityMember(community.Id, user.Id)
	if err != nil {
		return model.NewAppError("LeaveCommunity", "api.community.remove_user_from_community.missing.app_error", nil, err.Error(), http.StatusBadRequest)
	}

	// a community admin has to be demoted before leaving
	if communityMember.Type == model.COMMUNITY_MEMBER_TYPE_ADMIN {
		return model.NewAppError("LeaveCommunity", "api.community.remove_user_from_community.admin.app_error", nil, "", http.StatusBadRequest)
	}

	err = a.RemoveCommunityMemberFromCommunity(communityMember, requestorId)
	if err != nil {
		return err
	}

	a.ClearSessionCacheForUser(user.Id)

	return nil
}

func (a *App) RemoveCommunityMemberFromCommunity(communityMember *model.CommunityMember, requestorId string) *model.AppError {
	communityMember.Type = ""
	communityMember.DeleteAt = model.GetMillis()

	if _, err := a.Srv.Store.Community().UpdateMember(communityMember); err != nil {
		return err
	}

	return nil
}

func (a *App) UpdateCommunityMemberType(communityId string, userId string, newType string) (*model.CommunityMember, *model.AppError) {
	var member *model.CommunityMember
	var err *model.AppError
	if member, err = a.GetCommunityMember(communityId, userId); err != nil {
		return nil, err
	}

	if member.Type == newType {
		return nil, model.NewAppError("UpdateCommunityMemberType", "api.community.update_community_member_type.same_type.app_error", nil, "", http.StatusBadRequest)
	}

	communityMembersGetOptions := &model.CommunityMembersGetOptions{
		ExcludeDeletedUsers: true,
		Type:                model.COMMUNITY_MEMBER_TYPE_ADMIN,
	}
	// refuse to demote the community's last admin
	members, err := a.GetCommunityMembers(communityId, 0, 10, communityMembersGetOptions)
	if err != nil {
		return nil, err
	}
	if member.Type == model.COMMUNITY_MEMBER_TYPE_ADMIN && newType != model.COMMUNITY_MEMBER_TYPE_ADMIN && len(members) <= 1 {
		return nil, model.NewAppError("UpdateCommunityMemberType", "api.community.update_community_member_type.missing_admin.app_error", nil, "", http.StatusBadRequest)
	}

	member.Type = newType
	member, err = a.Srv.Store.Community().UpdateMember(member)
	if err != nil {
		return nil, err
	}

	a.ClearSessionCacheForUser(userId)

	return member, nil
}
