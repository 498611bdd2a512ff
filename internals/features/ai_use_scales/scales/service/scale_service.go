// file: internals/features/ai_use_scales/scales/service/scale_service.go
package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/ai_use_scales/scales/model"
	userModel "kampusku_backend/internals/features/users/user/model"
)

/* =========================
   Tabel keputusan save
========================= */

type SaveAction int

const (
	SaveDeny SaveAction = iota
	SaveApply
	SaveFork
)

// ResolveSaveTarget: fungsi murni role aktor × tipe pemilik record.
//
//	admin × apa pun          → apply langsung
//	sc    × system           → fork ke record pribadi (ownership redirect)
//	sc    × record miliknya  → apply langsung
//	sc    × record sc lain   → deny
//	tutor/lainnya            → deny
func ResolveSaveTarget(role string, record *model.ScaleRecordModel, ownerKey string) SaveAction {
	switch role {
	case constants.RoleAdmin:
		return SaveApply
	case constants.RoleSC:
		if record.IsSystemOwned() {
			return SaveFork
		}
		if record.OwnedBy(ownerKey) {
			return SaveApply
		}
		return SaveDeny
	default:
		return SaveDeny
	}
}

// CanReadRecord: system terlihat semua role non-tutor; record sc privat
// untuk pemiliknya (dan admin). Tutor tidak punya akses scale sama sekali.
func CanReadRecord(u *userModel.UserModel, record *model.ScaleRecordModel) bool {
	switch u.UserRole {
	case constants.RoleAdmin:
		return true
	case constants.RoleSC:
		return record.IsSystemOwned() || record.OwnedBy(u.OwnerKey())
	default:
		return false
	}
}

// GetOrCreatePersonalRecord: record pribadi sc untuk ownership redirect.
// Kalau sudah ada lebih dari satu (konvensi, bukan constraint DB), pakai
// yang paling baru di-update. Nama disalin dari record system asal.
func GetOrCreatePersonalRecord(db *gorm.DB, ownerKey, copiedName string) (*model.ScaleRecordModel, error) {
	var personal model.ScaleRecordModel
	err := db.
		Where("scale_record_owner_type = ? AND scale_record_owner_id = ?", model.OwnerTypeSC, ownerKey).
		Order("scale_record_updated_at DESC").
		First(&personal).Error
	if err == nil {
		return &personal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	personal = model.ScaleRecordModel{
		ScaleRecordName:      copiedName,
		ScaleRecordOwnerType: model.OwnerTypeSC,
		ScaleRecordOwnerID:   &ownerKey,
		ScaleRecordIsPublic:  false,
	}
	if err := db.Create(&personal).Error; err != nil {
		return nil, err
	}
	return &personal, nil
}

/* =========================
   Save version (append-only)
========================= */

type LevelInput struct {
	Code            string
	Label           string
	Title           string
	Description     string
	AIUsage         string
	Instructions    string
	Acknowledgement string
}

type SaveVersionInput struct {
	Levels    []LevelInput
	Notes     string
	UpdatedBy string
}

// SaveVersion: potong version baru = max(existing)+1 di satu transaksi.
// Baris record di-lock FOR UPDATE supaya dua save bersamaan tidak pernah
// menghasilkan nomor version kembar (lock dilewati di dialect sqlite
// yang dipakai test — sqlite sudah serial per koneksi).
func SaveVersion(db *gorm.DB, record *model.ScaleRecordModel, in SaveVersionInput) (*model.ScaleVersionModel, []model.ScaleLevelModel, error) {
	if len(in.Levels) == 0 {
		return nil, nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Daftar level tidak boleh kosong")
	}

	var version model.ScaleVersionModel
	var levels []model.ScaleLevelModel

	err := db.Transaction(func(tx *gorm.DB) error {
		locker := tx
		if tx.Dialector.Name() != "sqlite" {
			locker = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var locked model.ScaleRecordModel
		if err := locker.Where("scale_record_id = ?", record.ScaleRecordID).First(&locked).Error; err != nil {
			return err
		}

		var maxNumber int
		if err := tx.Model(&model.ScaleVersionModel{}).
			Where("scale_version_record_id = ?", record.ScaleRecordID).
			Select("COALESCE(MAX(scale_version_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}

		version = model.ScaleVersionModel{
			ScaleVersionRecordID:  record.ScaleRecordID,
			ScaleVersionNumber:    maxNumber + 1,
			ScaleVersionUpdatedBy: in.UpdatedBy,
			ScaleVersionNotes:     in.Notes,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		levels = make([]model.ScaleLevelModel, 0, len(in.Levels))
		for i, lv := range in.Levels {
			levels = append(levels, model.ScaleLevelModel{
				ScaleLevelVersionID:       version.ScaleVersionID,
				ScaleLevelPosition:        i,
				ScaleLevelCode:            lv.Code,
				ScaleLevelLabel:           lv.Label,
				ScaleLevelTitle:           lv.Title,
				ScaleLevelDescription:     lv.Description,
				ScaleLevelAIUsage:         lv.AIUsage,
				ScaleLevelInstructions:    lv.Instructions,
				ScaleLevelAcknowledgement: lv.Acknowledgement,
			})
		}
		if err := tx.CreateInBatches(levels, 100).Error; err != nil {
			return err
		}

		// sentuh updated_at record induk (basis "paling baru menang" saat fork)
		return tx.Model(&model.ScaleRecordModel{}).
			Where("scale_record_id = ?", record.ScaleRecordID).
			Update("scale_record_updated_at", tx.NowFunc()).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &version, levels, nil
}

/* =========================
   Pembacaan history
========================= */

type VersionWithLevels struct {
	Version model.ScaleVersionModel
	Levels  []model.ScaleLevelModel
}

// LoadHistory: seluruh version sebuah record, terbaru dulu, level terurut
// position. Dua kali baca untuk state yang sama menghasilkan payload identik.
func LoadHistory(db *gorm.DB, recordID uuid.UUID) ([]VersionWithLevels, error) {
	var versions []model.ScaleVersionModel
	if err := db.
		Where("scale_version_record_id = ?", recordID).
		Order("scale_version_number DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return []VersionWithLevels{}, nil
	}

	versionIDs := make([]uuid.UUID, 0, len(versions))
	for _, v := range versions {
		versionIDs = append(versionIDs, v.ScaleVersionID)
	}

	var allLevels []model.ScaleLevelModel
	if err := db.
		Where("scale_level_version_id IN ?", versionIDs).
		Order("scale_level_position ASC").
		Find(&allLevels).Error; err != nil {
		return nil, err
	}

	byVersion := map[uuid.UUID][]model.ScaleLevelModel{}
	for _, lv := range allLevels {
		byVersion[lv.ScaleLevelVersionID] = append(byVersion[lv.ScaleLevelVersionID], lv)
	}

	out := make([]VersionWithLevels, 0, len(versions))
	for _, v := range versions {
		levels := byVersion[v.ScaleVersionID]
		if levels == nil {
			levels = []model.ScaleLevelModel{}
		}
		out = append(out, VersionWithLevels{Version: v, Levels: levels})
	}
	return out, nil
}

// VisibleRecords: daftar record sesuai visibility role (admin semua,
// sc = system ∪ miliknya). Filter eksplisit boleh menyempitkan, tidak
// pernah memperluas.
func VisibleRecords(db *gorm.DB, u *userModel.UserModel, ownerTypeFilter, ownerIDFilter string) ([]model.ScaleRecordModel, error) {
	q := db.Model(&model.ScaleRecordModel{})

	switch u.UserRole {
	case constants.RoleAdmin:
		// semua
	case constants.RoleSC:
		q = q.Where(
			"scale_record_owner_type = ? OR (scale_record_owner_type = ? AND scale_record_owner_id = ?)",
			model.OwnerTypeSystem, model.OwnerTypeSC, u.OwnerKey(),
		)
	default:
		return []model.ScaleRecordModel{}, nil
	}

	if ownerTypeFilter != "" {
		q = q.Where("scale_record_owner_type = ?", ownerTypeFilter)
	}
	if ownerIDFilter != "" {
		q = q.Where("scale_record_owner_id = ?", ownerIDFilter)
	}

	var records []model.ScaleRecordModel
	if err := q.Order("scale_record_created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
