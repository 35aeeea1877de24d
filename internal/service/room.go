package service

import (
	"errors"

	"fileroom/backend/internal/model"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	roomNameLength  = 5
	roomNameCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// RoomService drives the membership state machine. Each (room, user) pair
// carries a tri-state switch: unset until the user reacts, then joined or
// declined, toggled through Join.
type RoomService struct {
	db    *gorm.DB
	files *FileService
}

func NewRoomService(db *gorm.DB, files *FileService) *RoomService {
	return &RoomService{db: db, files: files}
}

// MemberView is one member of a room as rendered in room listings. Joined
// is nil while the member has not reacted to the invite.
type MemberView struct {
	User   MemberUser `json:"user"`
	Joined *bool      `json:"joined"`
}

type MemberUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Create opens a room over the given users. The first listed user is the
// creator and starts pre-joined with place 2, everyone else starts unset
// with the default place. A room over exactly this member set may only
// exist once, order does not matter.
func (s *RoomService) Create(usernames ...string) (*model.Room, error) {
	if len(usernames) < 2 {
		return nil, ErrRoomTooSmall
	}

	ids, err := s.resolveIDs(usernames)
	if err != nil {
		return nil, err
	}

	if s.isRoomIDs(ids) {
		return nil, ErrRoomExists
	}

	name, err := gonanoid.Generate(roomNameCharset, roomNameLength)
	if err != nil {
		return nil, err
	}

	room := &model.Room{Name: name}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		for i, id := range ids {
			member := model.Member{
				RoomID: room.ID,
				UserID: id,
				Place:  1,
				Switch: model.SwitchUnset,
			}

			if i == 0 {
				member.Place = 2
				member.Switch = model.SwitchJoined
			}

			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// RoomID resolves a live room name to its id.
func (s *RoomService) RoomID(name string) (uint, error) {
	var room model.Room
	err := s.db.Select("id").Where("name = ?", name).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRoomNotFound
		}
		return 0, err
	}

	return room.ID, nil
}

// IsRoom reports whether some room's member set matches exactly the given
// users. Matching is by set size plus full overlap.
func (s *RoomService) IsRoom(usernames ...string) bool {
	ids, err := s.resolveIDs(usernames)
	if err != nil {
		return false
	}

	return s.isRoomIDs(ids)
}

func (s *RoomService) isRoomIDs(ids []uint) bool {
	want := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var rooms []model.Room
	if err := s.db.Select("id").Find(&rooms).Error; err != nil {
		zap.L().Error("Failed to list rooms", zap.Error(err))
		return false
	}

	for _, room := range rooms {
		var memberIDs []uint
		err := s.db.
			Model(model.Member{}).
			Where("room_id = ?", room.ID).
			Pluck("user_id", &memberIDs).
			Error
		if err != nil {
			zap.L().Error("Failed to list room members", zap.Error(err), zap.Uint("roomID", room.ID))
			return false
		}

		if len(memberIDs) != len(want) {
			continue
		}

		matched := 0
		for _, id := range memberIDs {
			if _, ok := want[id]; ok {
				matched++
			}
		}

		if matched == len(want) {
			return true
		}
	}

	return false
}

// Append adds a single member to a room. A place of 0 means the default.
func (s *RoomService) Append(roomID uint, username string, place int) error {
	if place == 0 {
		place = 1
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.roomExists(tx, roomID); err != nil {
			return err
		}

		userID, err := s.userID(tx, username)
		if err != nil {
			return err
		}

		var found bool
		if err := tx.
			Model(model.Member{}).
			Select("count(*) > 0").
			Where("room_id = ? AND user_id = ?", roomID, userID).
			Find(&found).
			Error; err != nil {
			return err
		}

		if found {
			return ErrMemberExists
		}

		return tx.Create(&model.Member{
			RoomID: roomID,
			UserID: userID,
			Place:  place,
			Switch: model.SwitchUnset,
		}).Error
	})
}

// Pop removes a single member from a room.
func (s *RoomService) Pop(roomID uint, username string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		userID, err := s.userID(tx, username)
		if err != nil {
			return err
		}

		res := tx.
			Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&model.Member{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return nil
	})
}

// MyRooms maps every room the user belongs to onto its member list. Each
// member carries display info and the tri-state joined flag.
func (s *RoomService) MyRooms(username string) (map[string][]MemberView, error) {
	userID, err := s.userID(s.db, username)
	if err != nil {
		return nil, err
	}

	var memberships []model.Member
	if err := s.db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	out := make(map[string][]MemberView, len(memberships))

	for _, membership := range memberships {
		var room model.Room
		if err := s.db.First(&room, membership.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // room was deleted
			}
			return nil, err
		}

		var members []model.Member
		err := s.db.
			Where("room_id = ?", room.ID).
			Order("id").
			Find(&members).
			Error
		if err != nil {
			return nil, err
		}

		views := make([]MemberView, 0, len(members))
		for _, m := range members {
			var user model.User
			if err := s.db.First(&user, m.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // member's account was deleted
				}
				return nil, err
			}

			views = append(views, MemberView{
				User: MemberUser{
					FirstName: user.FirstName,
					LastName:  user.LastName,
					Username:  user.Username,
				},
				Joined: joinedFlag(m.Switch),
			})
		}

		out[room.Name] = views
	}

	return out, nil
}

// ChangeMember updates a member's place in a room.
func (s *RoomService) ChangeMember(roomID uint, username string, place int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		userID, err := s.userID(tx, username)
		if err != nil {
			return err
		}

		res := tx.
			Model(model.Member{}).
			Where("room_id = ? AND user_id = ?", roomID, userID).
			Update("place", place)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return nil
	})
}

// Join upserts the switch for the (room, user) pair: 1 joins, 0 cancels,
// -1 resets to unset. Users not yet in the room get a member row with the
// given switch.
func (s *RoomService) Join(roomID uint, username string, switchValue int) error {
	switch switchValue {
	case model.SwitchUnset, model.SwitchDeclined, model.SwitchJoined:
	default:
		return ErrSwitchInvalid
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.roomExists(tx, roomID); err != nil {
			return err
		}

		userID, err := s.userID(tx, username)
		if err != nil {
			return err
		}

		var member model.Member
		err = tx.
			Where("room_id = ? AND user_id = ?", roomID, userID).
			First(&member).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(&model.Member{
					RoomID: roomID,
					UserID: userID,
					Place:  1,
					Switch: switchValue,
				}).Error
			}
			return err
		}

		return tx.Model(&member).Update("switch", switchValue).Error
	})
}

// AttachFile uploads a room-owned file through the file service.
func (s *RoomService) AttachFile(roomID uint, encoding, mimetype string, size int64, originalName string, data []byte) (*model.File, error) {
	if err := s.roomExists(s.db, roomID); err != nil {
		return nil, err
	}

	return s.files.CreateRoomFile(roomID, encoding, mimetype, size, originalName, data)
}

// IsMember reports whether the user has a live member row in the room.
func (s *RoomService) IsMember(roomID, userID uint) bool {
	var found bool
	err := s.db.
		Model(model.Member{}).
		Select("count(*) > 0").
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Find(&found).
		Error
	if err != nil {
		zap.L().Error("Failed to check room membership", zap.Error(err))
		return false
	}

	return found
}

func (s *RoomService) roomExists(tx *gorm.DB, roomID uint) error {
	var found bool
	err := tx.
		Model(model.Room{}).
		Select("count(*) > 0").
		Where("id = ?", roomID).
		Find(&found).
		Error
	if err != nil {
		return err
	}

	if !found {
		return ErrRoomNotFound
	}

	return nil
}

func (s *RoomService) userID(tx *gorm.DB, username string) (uint, error) {
	var user model.User
	err := tx.Select("id").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}

	return user.ID, nil
}

func (s *RoomService) resolveIDs(usernames []string) ([]uint, error) {
	ids := make([]uint, 0, len(usernames))
	for _, username := range usernames {
		id, err := s.userID(s.db, username)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func joinedFlag(switchValue int) *bool {
	switch switchValue {
	case model.SwitchJoined:
		v := true
		return &v
	case model.SwitchDeclined:
		v := false
		return &v
	default:
		return nil
	}
}
