package api

import (
	"testing"

	"github.com/commstack/portal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommunity(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	community := &model.Community{
		Name:        "name" + model.NewId(),
		Description: "description",
	}

	rcommunity, resp := Client.CreateCommunity(community)
	CheckCreatedStatus(t, resp)

	require.Equal(t, community.Name, rcommunity.Name)
	require.Equal(t, model.Slugify(community.Name), rcommunity.Slug)
	// the community address follows the creator
	require.Equal(t, th.BasicUser.Email, rcommunity.Email)

	// the creator administers the community
	member, resp := Client.GetCommunityMember(rcommunity.Id, th.BasicUser.Id)
	CheckNoError(t, resp)
	require.Equal(t, model.COMMUNITY_MEMBER_TYPE_ADMIN, member.Type)

	Client.Logout()
	_, resp = Client.CreateCommunity(community)
	CheckUnauthorizedStatus(t, resp)
}

func TestGetCommunity(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	community, resp := Client.GetCommunity(th.BasicCommunity.Id)
	CheckNoError(t, resp)
	require.Equal(t, th.BasicCommunity.Id, community.Id)

	_, resp = Client.GetCommunity(model.NewId())
	CheckNotFoundStatus(t, resp)
}

func TestGetCommunityBySlug(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	community, resp := Client.GetCommunityBySlug(th.BasicCommunity.Slug)
	CheckNoError(t, resp)
	require.Equal(t, th.BasicCommunity.Id, community.Id)

	_, resp = Client.GetCommunityBySlug("missing-" + model.NewId())
	CheckNotFoundStatus(t, resp)

	t.Run("the invite id is hidden from non members", func(t *testing.T) {
		th.LoginBasic2()

		community, resp := Client.GetCommunityBySlug(th.BasicCommunity.Slug)
		CheckNoError(t, resp)
		assert.Empty(t, community.InviteId)

		th.LoginBasic()
	})
}

func TestUpdateCommunity(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	community := th.BasicCommunity
	community.Name = "updated" + model.NewId()
	community.Description = "updated description"

	rcommunity, resp := Client.UpdateCommunity(community)
	CheckNoError(t, resp)
	require.Equal(t, community.Name, rcommunity.Name)
	require.Equal(t, community.Description, rcommunity.Description)

	t.Run("a plain member can not update the community", func(t *testing.T) {
		th.LoginBasic2()

		_, resp := Client.UpdateCommunity(community)
		CheckForbiddenStatus(t, resp)

		th.LoginBasic()
	})

	t.Run("a system admin bypasses the membership check", func(t *testing.T) {
		community.Description = "updated by an admin"

		rcommunity, resp := th.SystemAdminClient.UpdateCommunity(community)
		CheckNoError(t, resp)
		require.Equal(t, community.Description, rcommunity.Description)
	})
}

func TestDeleteCommunity(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	t.Run("a plain member can not delete the community", func(t *testing.T) {
		th.LoginBasic2()

		_, resp := Client.DeleteCommunity(th.BasicCommunity.Id)
		CheckForbiddenStatus(t, resp)

		th.LoginBasic()
	})

	pass, resp := Client.DeleteCommunity(th.BasicCommunity.Id)
	CheckNoError(t, resp)
	require.True(t, pass)

	// a soft deleted community no longer resolves
	_, resp = Client.GetCommunity(th.BasicCommunity.Id)
	CheckNotFoundStatus(t, resp)

	_, resp = Client.GetCommunityBySlug(th.BasicCommunity.Slug)
	CheckNotFoundStatus(t, resp)
}

func TestAddCommunityMember(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	th.LoginBasic2()

	member, resp := Client.AddCommunityMember(th.BasicCommunity.Id, th.BasicUser2.Id)
	CheckCreatedStatus(t, resp)
	require.Equal(t, th.BasicUser2.Id, member.UserId)
	require.Equal(t, model.COMMUNITY_MEMBER_TYPE_NORMAL, member.Type)

	// joining twice is idempotent
	_, resp = Client.AddCommunityMember(th.BasicCommunity.Id, th.BasicUser2.Id)
	CheckCreatedStatus(t, resp)

	// adding someone else takes manage rights
	_, resp = Client.AddCommunityMember(th.BasicCommunity.Id, th.BasicUser.Id)
	CheckForbiddenStatus(t, resp)

	th.LoginBasic()
}

func TestAddCommunityMemberFromInvite(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	community, resp := Client.GetCommunity(th.BasicCommunity.Id)
	CheckNoError(t, resp)
	require.NotEmpty(t, community.InviteId)

	th.LoginBasic2()

	member, resp := Client.AddCommunityMemberFromInvite(community.InviteId)
	CheckCreatedStatus(t, resp)
	require.Equal(t, th.BasicUser2.Id, member.UserId)

	_, resp = Client.AddCommunityMemberFromInvite("junk")
	CheckNotFoundStatus(t, resp)

	th.LoginBasic()
}

func TestGetCommunityMembers(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	members, resp := Client.GetCommunityMembers(th.BasicCommunity.Id, 0, 100)
	CheckNoError(t, resp)
	require.Len(t, members, 1)
	require.Equal(t, th.BasicUser.Id, members[0].UserId)
}

func TestUpdateCommunityMemberType(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	th.LoginBasic2()
	_, resp := Client.AddCommunityMember(th.BasicCommunity.Id, th.BasicUser2.Id)
	CheckCreatedStatus(t, resp)
	th.LoginBasic()

	pass, resp := Client.UpdateCommunityMemberType(th.BasicCommunity.Id, th.BasicUser2.Id, model.COMMUNITY_MEMBER_TYPE_CONTRIBUTOR)
	CheckNoError(t, resp)
	require.True(t, pass)

	member, resp := Client.GetCommunityMember(th.BasicCommunity.Id, th.BasicUser2.Id)
	CheckNoError(t, resp)
	require.Equal(t, model.COMMUNITY_MEMBER_TYPE_CONTRIBUTOR, member.Type)

	// the last community admin can not be demoted
	_, resp = Client.UpdateCommunityMemberType(th.BasicCommunity.Id, th.BasicUser.Id, model.COMMUNITY_MEMBER_TYPE_NORMAL)
	CheckBadRequestStatus(t, resp)

	t.Run("a plain member can not change member types", func(t *testing.T) {
		th.LoginBasic2()

		_, resp := Client.UpdateCommunityMemberType(th.BasicCommunity.Id, th.BasicUser2.Id, model.COMMUNITY_MEMBER_TYPE_MANAGER)
		CheckForbiddenStatus(t, resp)

		th.LoginBasic()
	})
}

func TestRemoveCommunityMember(t *testing.T) {
	th := Setup(t).InitBasic()
	defer th.TearDown()
	Client := th.Client

	th.LoginBasic2()
	_, resp := Client.AddCommunityMember(th.BasicCommunity.Id, th.BasicUser2.Id)
	CheckCreatedStatus(t, resp)

	// leaving on your own needs no extra permission
	pass, resp := Client.RemoveCommunityMember(th.BasicCommunity.Id, th.BasicUser2.Id)
	CheckNoError(t, resp)
	require.True(t, pass)

	th.LoginBasic()

	// a community admin has to be demoted before leaving
	_, resp = Client.RemoveCommunityMember(th.BasicCommunity.Id, th.BasicUser.Id)
	CheckBadRequestStatus(t, resp)
}
