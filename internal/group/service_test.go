package group_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/wishlist-management/internal"
	"github.com/frahmantamala/wishlist-management/internal/group"
	"github.com/frahmantamala/wishlist-management/internal/permission"
)

func TestGroup(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Group Service Suite")
}

type memberKey struct {
	groupID int64
	userID  int64
}

type mockGroupRepository struct {
	groupsByID map[int64]*group.Group
	members    map[memberKey]string
	users      map[int64]bool
	nextID     int64

	createErr  error
	getErr     error
	deleteErr  error
	listErr    error
	membersErr error
	upsertErr  error
	removeErr  error
	userErr    error

	createCalls int
	deleteCalls int
	upsertCalls int
	removeCalls int
}

func newMockGroupRepository() *mockGroupRepository {
	return &mockGroupRepository{
		groupsByID: map[int64]*group.Group{},
		members:    map[memberKey]string{},
		users:      map[int64]bool{},
		nextID:     1,
	}
}

func (m *mockGroupRepository) add(g *group.Group) *group.Group {
	if g.ID == 0 {
		g.ID = m.nextID
		m.nextID++
	} else if g.ID >= m.nextID {
		m.nextID = g.ID + 1
	}
	m.groupsByID[g.ID] = g
	m.members[memberKey{groupID: g.ID, userID: g.OwnerID}] = group.MemberRoleAdmin
	return g
}

func (m *mockGroupRepository) Create(g *group.Group) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.add(g)
	return nil
}

func (m *mockGroupRepository) GetByID(id int64) (*group.Group, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.groupsByID[id], nil
}

func (m *mockGroupRepository) Delete(id int64) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.groupsByID, id)
	for key := range m.members {
		if key.groupID == id {
			delete(m.members, key)
		}
	}
	return nil
}

func (m *mockGroupRepository) ListForUser(userID int64) ([]*group.Group, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*group.Group
	for _, g := range m.groupsByID {
		if _, ok := m.members[memberKey{groupID: g.ID, userID: userID}]; ok || g.OwnerID == userID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *mockGroupRepository) ListMembers(groupID int64) ([]group.Member, error) {
	if m.membersErr != nil {
		return nil, m.membersErr
	}
	var members []group.Member
	for key, role := range m.members {
		if key.groupID == groupID {
			members = append(members, group.Member{UserID: key.userID, Role: role})
		}
	}
	return members, nil
}

func (m *mockGroupRepository) UpsertMember(groupID, userID int64, role string) error {
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.members[memberKey{groupID: groupID, userID: userID}] = role
	return nil
}

func (m *mockGroupRepository) RemoveMember(groupID, userID int64) (bool, error) {
	m.removeCalls++
	if m.removeErr != nil {
		return false, m.removeErr
	}
	key := memberKey{groupID: groupID, userID: userID}
	if _, ok := m.members[key]; !ok {
		return false, nil
	}
	delete(m.members, key)
	return true, nil
}

func (m *mockGroupRepository) UserExists(userID int64) (bool, error) {
	if m.userErr != nil {
		return false, m.userErr
	}
	return m.users[userID], nil
}

type requireCall struct {
	actorID  int64
	action   permission.Action
	resource permission.Resource
}

type mockPermissionGate struct {
	err   error
	calls []requireCall
}

func (m *mockPermissionGate) Require(actorID int64, action permission.Action, resource permission.Resource) error {
	m.calls = append(m.calls, requireCall{actorID: actorID, action: action, resource: resource})
	return m.err
}

var _ = Describe("GroupService", func() {
	var (
		service  *group.Service
		mockRepo *mockGroupRepository
		gate     *mockPermissionGate
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	const (
		groupID    = int64(10)
		ownerID    = int64(1)
		adminID    = int64(2)
		memberID   = int64(3)
		outsiderID = int64(4)
	)

	BeforeEach(func() {
		mockRepo = newMockGroupRepository()
		for _, id := range []int64{ownerID, adminID, memberID, outsiderID} {
			mockRepo.users[id] = true
		}
		gate = &mockPermissionGate{}
		service = group.NewService(mockRepo, gate, testLogger)
	})

	seedGroup := func() *group.Group {
		return mockRepo.add(&group.Group{ID: groupID, OwnerID: ownerID, Name: "Family"})
	}

	Describe("CreateGroup", func() {
		It("creates a group with the actor as owner and admin member", func() {
			// Given
			dto := group.CreateGroupDTO{Name: "  Family  ", Description: "gift circle"}

			// When
			created, err := service.CreateGroup(dto, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(created.OwnerID).To(Equal(ownerID))
			Expect(created.Name).To(Equal("Family"))
			Expect(mockRepo.members[memberKey{groupID: created.ID, userID: ownerID}]).To(Equal(group.MemberRoleAdmin))
		})

		It("requires a name", func() {
			// When
			created, err := service.CreateGroup(group.CreateGroupDTO{}, ownerID)

			// Then
			Expect(created).To(BeNil())
			Expect(err.Error()).To(ContainSubstring("name is required"))
			Expect(mockRepo.createCalls).To(BeZero())
		})

		It("propagates a repository failure", func() {
			// Given
			mockRepo.createErr = errors.New("connection refused")

			// When
			created, err := service.CreateGroup(group.CreateGroupDTO{Name: "Family"}, ownerID)

			// Then
			Expect(created).To(BeNil())
			Expect(err).To(MatchError(mockRepo.createErr))
		})
	})

	Describe("GetGroup", func() {
		BeforeEach(func() {
			seedGroup()
		})

		It("returns the group when the decision core allows the view", func() {
			// When
			got, err := service.GetGroup(groupID, memberID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Name).To(Equal("Family"))
			Expect(gate.calls).To(HaveLen(1))
			Expect(gate.calls[0].action).To(Equal(permission.ActionView))
			Expect(gate.calls[0].resource.Kind()).To(Equal("group"))
		})

		It("propagates the non-member denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)

			// When
			got, err := service.GetGroup(groupID, outsiderID)

			// Then
			Expect(got).To(BeNil())
			Expect(err).To(MatchError(gate.err))
		})

		It("answers not-found when the row vanished after the decision", func() {
			// When
			got, err := service.GetGroup(999, memberID)

			// Then
			Expect(got).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Message).To(Equal("Group not found"))
		})
	})

	Describe("ListMyGroups", func() {
		It("returns the groups the actor belongs to", func() {
			// Given
			seedGroup()
			other := mockRepo.add(&group.Group{OwnerID: adminID, Name: "Book Club"})
			mockRepo.members[memberKey{groupID: other.ID, userID: ownerID}] = group.MemberRoleMember
			mockRepo.add(&group.Group{OwnerID: outsiderID, Name: "Strangers"})

			// When
			groups, err := service.ListMyGroups(ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(groups).To(HaveLen(2))
		})

		It("propagates a repository failure", func() {
			// Given
			mockRepo.listErr = errors.New("connection refused")

			// When
			groups, err := service.ListMyGroups(ownerID)

			// Then
			Expect(groups).To(BeNil())
			Expect(err).To(MatchError(mockRepo.listErr))
		})
	})

	Describe("DeleteGroup", func() {
		BeforeEach(func() {
			seedGroup()
		})

		It("deletes once the decision core allows it", func() {
			// When
			err := service.DeleteGroup(groupID, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.groupsByID).To(BeEmpty())
			Expect(gate.calls[0].action).To(Equal(permission.ActionDelete))
		})

		It("propagates the member denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Only group admins can manage groups", internal.ErrCodeGroupAdminOnly)

			// When
			err := service.DeleteGroup(groupID, memberID)

			// Then
			Expect(err).To(MatchError(gate.err))
			Expect(mockRepo.deleteCalls).To(BeZero())
		})
	})

	Describe("ListMembers", func() {
		BeforeEach(func() {
			seedGroup()
			mockRepo.members[memberKey{groupID: groupID, userID: memberID}] = group.MemberRoleMember
		})

		It("returns the roster to anyone who can view the group", func() {
			// When
			members, err := service.ListMembers(groupID, memberID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(members).To(HaveLen(2))
			Expect(gate.calls[0].action).To(Equal(permission.ActionView))
		})

		It("propagates the denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeInsufficientPermissions)

			// When
			members, err := service.ListMembers(groupID, outsiderID)

			// Then
			Expect(members).To(BeNil())
			Expect(err).To(MatchError(gate.err))
		})
	})

	Describe("AddMember", func() {
		BeforeEach(func() {
			seedGroup()
		})

		It("adds a plain member when no role is given", func() {
			// When
			err := service.AddMember(groupID, group.AddMemberDTO{UserID: memberID}, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.members[memberKey{groupID: groupID, userID: memberID}]).To(Equal(group.MemberRoleMember))
			Expect(gate.calls[0].action).To(Equal(permission.ActionAdmin))
		})

		It("promotes an existing member to admin", func() {
			// Given
			mockRepo.members[memberKey{groupID: groupID, userID: memberID}] = group.MemberRoleMember

			// When
			err := service.AddMember(groupID, group.AddMemberDTO{UserID: memberID, Role: group.MemberRoleAdmin}, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.members[memberKey{groupID: groupID, userID: memberID}]).To(Equal(group.MemberRoleAdmin))
		})

		It("requires a target user", func() {
			// When
			err := service.AddMember(groupID, group.AddMemberDTO{}, ownerID)

			// Then
			Expect(err.Error()).To(ContainSubstring("user_id is required"))
			Expect(gate.calls).To(BeEmpty())
		})

		It("rejects an unknown role", func() {
			// When
			err := service.AddMember(groupID, group.AddMemberDTO{UserID: memberID, Role: "owner"}, ownerID)

			// Then
			Expect(err.Error()).To(ContainSubstring("role must be one of: member, admin"))
			Expect(mockRepo.upsertCalls).To(BeZero())
		})

		It("refuses to touch the owner's role", func() {
			// When
			err := service.AddMember(groupID, group.AddMemberDTO{UserID: ownerID, Role: group.MemberRoleMember}, adminID)

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Message).To(Equal("Cannot change the role of the group owner"))
			Expect(mockRepo.upsertCalls).To(BeZero())
		})

		It("answers not-found for a target without an account", func() {
			// When
			err := service.AddMember(groupID, group.AddMemberDTO{UserID: 999}, ownerID)

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Message).To(Equal("User not found"))
		})

		It("propagates the member denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Only group admins can manage groups", internal.ErrCodeGroupAdminOnly)

			// When
			err := service.AddMember(groupID, group.AddMemberDTO{UserID: outsiderID}, memberID)

			// Then
			Expect(err).To(MatchError(gate.err))
			Expect(mockRepo.upsertCalls).To(BeZero())
		})
	})

	Describe("RemoveMember", func() {
		BeforeEach(func() {
			seedGroup()
			mockRepo.members[memberKey{groupID: groupID, userID: memberID}] = group.MemberRoleMember
		})

		It("lets an admin remove a member", func() {
			// When
			err := service.RemoveMember(groupID, memberID, ownerID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.members).ToNot(HaveKey(memberKey{groupID: groupID, userID: memberID}))
			Expect(gate.calls[0].action).To(Equal(permission.ActionAdmin))
		})

		It("lets a member leave on their own", func() {
			// When
			err := service.RemoveMember(groupID, memberID, memberID)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.members).ToNot(HaveKey(memberKey{groupID: groupID, userID: memberID}))
			Expect(gate.calls[0].action).To(Equal(permission.ActionView))
		})

		It("refuses to let the owner leave their own group", func() {
			// When
			err := service.RemoveMember(groupID, ownerID, ownerID)

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Message).To(Equal("Cannot leave a group you own"))
			Expect(mockRepo.removeCalls).To(BeZero())
		})

		It("refuses to remove the owner", func() {
			// When
			err := service.RemoveMember(groupID, ownerID, adminID)

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("Cannot remove the group owner"))
			Expect(mockRepo.removeCalls).To(BeZero())
		})

		It("answers not-found for someone who is not on the roster", func() {
			// When
			err := service.RemoveMember(groupID, outsiderID, ownerID)

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
			Expect(appErr.Message).To(Equal("User is not a member of this group"))
			Expect(appErr.Code).To(Equal(internal.ErrCodeMemberNotFound))
		})

		It("propagates the denial untouched", func() {
			// Given
			gate.err = internal.NewForbiddenError("Only group admins can manage groups", internal.ErrCodeGroupAdminOnly)

			// When
			err := service.RemoveMember(groupID, outsiderID, memberID)

			// Then
			Expect(err).To(MatchError(gate.err))
			Expect(mockRepo.removeCalls).To(BeZero())
		})
	})
})
