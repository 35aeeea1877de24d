package service

import (
	"errors"
	"fmt"

	"fileroom/backend/internal/model"
	"fileroom/backend/pkg/util"

	"gorm.io/gorm"
)

const displayTime = "02 Jan 2006 15:04"

// FileView is the render-ready shape of a file row: human-readable size,
// formatted dates and a Yes/No deletion flag.
type FileView struct {
	ID           uint   `json:"id"`
	Mimetype     string `json:"mimetype"`
	Size         string `json:"size"`
	OriginalName string `json:"originalname"`
	Name         string `json:"name"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	WasDeleted   string `json:"was_deleted"`
}

// FileService owns per-user and per-room file rows. User uploads get
// collision-disambiguated names by counting live files whose original name
// shares the prefix and suffixing that count. The scheme is a heuristic: it
// can skip numbers after deletions, but it matches what users of the old
// system expect, so it stays.
type FileService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewFileService(db *gorm.DB, audit *AuditService) *FileService {
	return &FileService{db: db, audit: audit}
}

// Create stores a user-owned file. An empty name defaults to the (possibly
// suffixed) original name. The row and its audit entry commit together.
func (s *FileService) Create(ownerUserID uint, encoding, mimetype string, size int64, originalName string, data []byte, name string) (*model.File, error) {
	file := &model.File{
		Encoding:     encoding,
		Mimetype:     mimetype,
		Size:         size,
		OriginalName: originalName,
		Name:         name,
		Data:         data,
		OwnerUserID:  &ownerUserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(model.File{}).
			Where("owner_user_id = ? AND original_name LIKE ?", ownerUserID, originalName+"%").
			Count(&count).
			Error; err != nil {
			return err
		}

		if count > 0 {
			file.OriginalName = fmt.Sprintf("%s-%d", originalName, count)
		}

		if file.Name == "" {
			file.Name = file.OriginalName
		}

		if err := tx.Create(file).Error; err != nil {
			return err
		}

		return s.audit.record(tx, ownerUserID, &file.ID, "File was uploaded")
	})
	if err != nil {
		return nil, err
	}

	return file, nil
}

// CreateRoomFile stores a room-owned file. Room uploads keep their original
// name as-is, there is no collision prefixing inside rooms.
func (s *FileService) CreateRoomFile(roomID uint, encoding, mimetype string, size int64, originalName string, data []byte) (*model.File, error) {
	file := &model.File{
		Encoding:     encoding,
		Mimetype:     mimetype,
		Size:         size,
		OriginalName: originalName,
		Name:         originalName,
		Data:         data,
		OwnerRoomID:  &roomID,
	}

	if err := s.db.Create(file).Error; err != nil {
		return nil, err
	}

	return file, nil
}

// Delete tombstones a live file and audits against its owner.
func (s *FileService) Delete(fileID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var file model.File
		if err := tx.First(&file, fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFileNotFound
			}
			return err
		}

		if err := tx.Delete(&file).Error; err != nil {
			return err
		}

		return s.audit.record(tx, ownerOrZero(&file), &file.ID, "File was deleted")
	})
}

// Restore clears a file's tombstone. Restoring a live or unknown file fails
// with ErrFileNotDeleted.
func (s *FileService) Restore(fileID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var file model.File
		err := tx.
			Unscoped().
			Where("id = ? AND deleted_at IS NOT NULL", fileID).
			First(&file).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFileNotDeleted
			}
			return err
		}

		if err := tx.Unscoped().Model(&file).Update("deleted_at", nil).Error; err != nil {
			return err
		}

		return s.audit.record(tx, ownerOrZero(&file), &file.ID, "File was restored")
	})
}

// AllFiles lists every file of a user or of a room, tombstoned ones
// included, as render-ready views. Exactly one of username/roomName must be
// set.
func (s *FileService) AllFiles(username, roomName string) ([]FileView, error) {
	q := s.db.Unscoped().Order("id")

	switch {
	case username != "":
		var user model.User
		if err := s.db.Select("id").Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
		q = q.Where("owner_user_id = ?", user.ID)
	case roomName != "":
		var room model.Room
		if err := s.db.Select("id").Where("name = ?", roomName).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		q = q.Where("owner_room_id = ?", room.ID)
	default:
		return nil, ErrOwnerUnresolved
	}

	var files []model.File
	if err := q.Find(&files).Error; err != nil {
		return nil, err
	}

	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, newFileView(&f))
	}

	return views, nil
}

func newFileView(f *model.File) FileView {
	v := FileView{
		ID:           f.ID,
		Mimetype:     f.Mimetype,
		Size:         util.ByteSize(f.Size),
		OriginalName: f.OriginalName,
		Name:         f.Name,
		CreatedAt:    f.CreatedAt.Format(displayTime),
		UpdatedAt:    f.UpdatedAt.Format(displayTime),
		WasDeleted:   "No",
	}

	// Exact timestamp equality, not rounded
	if f.UpdatedAt.Equal(f.CreatedAt) {
		v.UpdatedAt = "the same as the creation time"
	}

	if f.DeletedAt.Valid {
		v.WasDeleted = "Yes"
	}

	return v
}

// TotalSize sums the sizes of a user's live files, human-formatted.
func (s *FileService) TotalSize(username string) (string, error) {
	var total int64
	err := s.db.
		Model(model.File{}).
		Where("owner_user_id = (?)", s.db.Model(model.User{}).Select("id").Where("username = ?", username)).
		Select("coalesce(sum(size), 0)").
		Find(&total).
		Error
	if err != nil {
		return "", err
	}

	return util.ByteSize(total), nil
}

// Get fetches a live file by id, but only when the user owns it. There is
// no ownerless lookup on purpose.
func (s *FileService) Get(ownerUserID, fileID uint) (*model.File, error) {
	var file model.File
	err := s.db.
		Where("id = ? AND owner_user_id = ?", fileID, ownerUserID).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &file, nil
}

// GetRoomFile fetches a live room-owned file, checking that the user is a
// member of the owning room.
func (s *FileService) GetRoomFile(userID, fileID uint) (*model.File, error) {
	var file model.File
	err := s.db.
		Where("id = ? AND owner_room_id IN (?)",
			fileID,
			s.db.Model(model.Member{}).Select("room_id").Where("user_id = ?", userID)).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	return &file, nil
}

// Rename changes the display name of a live file. The original name is
// untouched.
func (s *FileService) Rename(fileID uint, newName string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var file model.File
		if err := tx.First(&file, fileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFileNotFound
			}
			return err
		}

		if err := tx.Model(&file).Update("name", newName).Error; err != nil {
			return err
		}

		return s.audit.record(tx, ownerOrZero(&file), &file.ID, "File was renamed")
	})
}

// ownerOrZero keys the audit entry by the owning user; room-owned files log
// with a zero user id.
func ownerOrZero(f *model.File) uint {
	if f.OwnerUserID != nil {
		return *f.OwnerUserID
	}
	return 0
}
