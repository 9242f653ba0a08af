package cachelayer

import (
	"strconv"
	"strings"

	"github.com/commstack/portal/model"
	"github.com/commstack/portal/store"
)

const (
	COMMUNITY_SLUG_KEY_TTL         = 30 * 60
	COMMUNITY_MEMBER_COUNT_KEY_TTL = 3 * 60
)

type CacheCommunityStore struct {
	store.CommunityStore
	rootStore *CacheStore
}

func communitySlugKey(slug string) string {
	return "community_slug" + slug
}

func communityMemberCountKey(communityId string) string {
	return communityId + "member_count"
}

// GetBySlug caches the slug lookup since every post route resolves
// the community by its slug first.
func (s CacheCommunityStore) GetBySlug(slug string) (*model.Community, *model.AppError) {
	key := communitySlugKey(slug)

	if data := s.rootStore.readCache(key); data != nil {
		return model.CommunityFromJson(strings.NewReader(*data)), nil
	}

	community, err := s.CommunityStore.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	s.rootStore.addToCache(key, community.ToJson(), COMMUNITY_SLUG_KEY_TTL)

	return community, nil
}

func (s CacheCommunityStore) GetActiveMemberCount(communityId string) (int64, *model.AppError) {
	key := communityMemberCountKey(communityId)

	if data := s.rootStore.readCache(key); data != nil {
		if count, convErr := strconv.ParseInt(*data, 10, 64); convErr == nil {
			return count, nil
		}
	}

	count, err := s.CommunityStore.GetActiveMemberCount(communityId)
	if err != nil {
		return 0, err
	}

	s.rootStore.addToCache(key, count, COMMUNITY_MEMBER_COUNT_KEY_TTL)

	return count, nil
}

func (s CacheCommunityStore) InvalidateCommunity(community *model.Community) {
	s.rootStore.deleteCache([]string{communitySlugKey(community.Slug)})
}

func (s CacheCommunityStore) InvalidateMemberCount(communityId string) {
	s.rootStore.deleteCache([]string{communityMemberCountKey(communityId)})
}

func (s CacheCommunityStore) Update(community *model.Community) (*model.Community, *model.AppError) {
	old, err := s.CommunityStore.Get(community.Id)
	if err == nil {
		s.InvalidateCommunity(old)
	}

	updated, err := s.CommunityStore.Update(community)
	if err != nil {
		return nil, err
	}

	s.InvalidateCommunity(updated)

	return updated, nil
}

func (s CacheCommunityStore) PermanentDelete(communityId string) *model.AppError {
	community, err := s.CommunityStore.Get(communityId)
	if err == nil {
		s.InvalidateCommunity(community)
	}

	if err := s.CommunityStore.PermanentDelete(communityId); err != nil {
		return err
	}

	s.InvalidateMemberCount(communityId)

	return nil
}

func (s CacheCommunityStore) SaveMember(member *model.CommunityMember, maxUsersPerCommunity int) (*model.CommunityMember, *model.AppError) {
	saved, err := s.CommunityStore.SaveMember(member, maxUsersPerCommunity)
	if err != nil {
		return nil, err
	}

	s.InvalidateMemberCount(member.CommunityId)

	return saved, nil
}

func (s CacheCommunityStore) RemoveMember(communityId string, userId string) *model.AppError {
	if err := s.CommunityStore.RemoveMember(communityId, userId); err != nil {
		return err
	}

	s.InvalidateMemberCount(communityId)

	return nil
}

func (s CacheCommunityStore) RemoveAllMembersByCommunity(communityId string) *model.AppError {
	if err := s.CommunityStore.RemoveAllMembersByCommunity(communityId); err != nil {
		return err
	}

	s.InvalidateMemberCount(communityId)

	return nil
}
