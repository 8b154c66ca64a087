package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strings"

	"algo-journey/middleware"
	"algo-journey/models"
	"algo-journey/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupService struct {
	DB *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{DB: db}
}

type CreateGroupInput struct {
	Name          string   `json:"name"`
	CoordinatorID string   `json:"coordinatorId"`
	MemberIDs     []string `json:"memberIds"`
}

// Create makes a group led by the coordinator. The coordinator always
// becomes a member and members of other groups are moved over, except
// users who coordinate another group.
func (s *GroupService) Create(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(in.Name)
	group := models.Group{
		ID:            uuid.NewString(),
		Name:          name,
		Slug:          utils.Slugify(name),
		CoordinatorID: in.CoordinatorID,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Group{}).Where("name = ? OR slug = ?", group.Name, group.Slug).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrGroupNameTaken
		}

		var coordinator models.User
		if err := tx.First(&coordinator, "id = ?", in.CoordinatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("coordinator: %w", ErrUserNotFound)
			}
			return err
		}
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}

		ids := appendUnique([]string{in.CoordinatorID}, in.MemberIDs...)
		return assignMembers(tx, group.ID, ids)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

// assignMembers moves users into the group. Coordinators of another group
// stay where they are.
func assignMembers(tx *gorm.DB, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	var leading int64
	if err := tx.Model(&models.Group{}).
		Where("coordinator_id IN ? AND id <> ?", userIDs, groupID).
		Count(&leading).Error; err != nil {
		return fmt.Errorf("check coordinators: %w", err)
	}
	if leading > 0 {
		return ErrCoordinatorLeave
	}
	res := tx.Model(&models.User{}).Where("id IN ?", userIDs).Update("group_id", groupID)
	if res.Error != nil {
		return fmt.Errorf("assign members: %w", res.Error)
	}
	if int(res.RowsAffected) != len(userIDs) {
		return fmt.Errorf("assign members: %w", ErrUserNotFound)
	}
	return nil
}

// Delete removes a group and its contest attempts; its members become ungrouped.
func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if err := tx.Model(&models.User{}).Where("group_id = ?", groupID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupOnContest{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&group).Error
	})
}

func (s *GroupService) Join(ctx context.Context, userID, groupID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.GroupID != nil {
			return ErrAlreadyInGroup
		}
		var count int64
		if err := tx.Model(&models.Group{}).Where("id = ?", groupID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrGroupNotFound
		}
		return tx.Model(&user).Update("group_id", groupID).Error
	})
}

func (s *GroupService) Leave(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.GroupID == nil {
			return ErrNotInGroup
		}
		var led int64
		if err := tx.Model(&models.Group{}).
			Where("id = ? AND coordinator_id = ?", *user.GroupID, userID).
			Count(&led).Error; err != nil {
			return err
		}
		if led > 0 {
			return ErrCoordinatorLeave
		}
		return tx.Model(&user).Update("group_id", nil).Error
	})
}

// AddMembers moves userIDs into the group. Only its coordinator or an admin may.
func (s *GroupService) AddMembers(ctx context.Context, groupID, callerID string, callerIsAdmin bool, userIDs []string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if !callerIsAdmin && group.CoordinatorID != callerID {
			return ErrForbidden
		}
		return assignMembers(tx, groupID, appendUnique(nil, userIDs...))
	})
}

func (s *GroupService) ListGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()
	entries, err := listGroupEntries(s.DB.WithContext(ctx))
	if err != nil {
		return fail(c, err)
	}

	var user models.User
	var myGroupID *string
	if err := s.DB.WithContext(ctx).Select("id", "group_id").
		First(&user, "id = ?", middleware.UserID(c)).Error; err == nil {
		myGroupID = user.GroupID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, err)
	}

	var userGroup *GroupEntry
	for i := range entries {
		if myGroupID != nil && entries[i].ID == *myGroupID {
			userGroup = &entries[i]
		}
	}
	return c.JSON(fiber.Map{"groups": entries, "userGroup": userGroup})
}

func (s *GroupService) CreateGroup(c *fiber.Ctx) error {
	var in CreateGroupInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if strings.TrimSpace(in.Name) == "" {
		return badRequest(c, "group name is required")
	}
	if utils.Slugify(in.Name) == "" {
		return badRequest(c, "group name must contain letters or digits")
	}
	if in.CoordinatorID == "" {
		return badRequest(c, "coordinatorId is required")
	}

	group, err := s.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	log.Printf("✅ Group %q created (coordinator %s)", group.Name, group.CoordinatorID)
	return c.Status(fiber.StatusCreated).JSON(group)
}

func (s *GroupService) DeleteGroup(c *fiber.Ctx) error {
	if err := s.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Group deleted successfully"})
}

func (s *GroupService) JoinGroup(c *fiber.Ctx) error {
	if err := s.Join(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Joined group successfully"})
}

func (s *GroupService) LeaveGroup(c *fiber.Ctx) error {
	if err := s.Leave(c.UserContext(), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left group successfully"})
}

func (s *GroupService) AddGroupMembers(c *fiber.Ctx) error {
	var req struct {
		UserIDs []string `json:"userIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if len(req.UserIDs) == 0 {
		return badRequest(c, "userIds is required")
	}
	isAdmin, err := middleware.IsAdmin(c, s.DB)
	if err != nil {
		return fail(c, err)
	}
	if err := s.AddMembers(c.UserContext(), c.Params("id"), middleware.UserID(c), isAdmin, req.UserIDs); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Members added successfully"})
}

// GetMembersByName feeds the group update form.
func (s *GroupService) GetMembersByName(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || strings.TrimSpace(name) == "" {
		return badRequest(c, "invalid group name")
	}

	var group models.Group
	err = s.DB.WithContext(c.UserContext()).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("username ASC") }).
		First(&group, "name = ?", strings.TrimSpace(name)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, ErrGroupNotFound)
	}
	if err != nil {
		return fail(c, err)
	}

	members := make([]fiber.Map, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, fiber.Map{"id": m.ID, "username": m.Username})
	}
	return c.JSON(fiber.Map{"members": members, "coordinator": group.CoordinatorID})
}
