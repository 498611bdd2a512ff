package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/ai_use_scales/scales/dto"
	"kampusku_backend/internals/features/ai_use_scales/scales/model"
	"kampusku_backend/internals/features/ai_use_scales/scales/service"
	notifService "kampusku_backend/internals/features/home/notifications/service"
	userModel "kampusku_backend/internals/features/users/user/model"
	helper "kampusku_backend/internals/helpers"
	helperAuth "kampusku_backend/internals/helpers/auth"
)

type ScaleController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewScaleController(db *gorm.DB) *ScaleController {
	return &ScaleController{DB: db, Validate: validator.New()}
}

func (ctrl *ScaleController) loadRecord(c *fiber.Ctx) (*model.ScaleRecordModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Format ID tidak valid")
	}
	var record model.ScaleRecordModel
	if err := ctrl.DB.Where("scale_record_id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Scale record tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil scale record")
	}
	return &record, nil
}

func (ctrl *ScaleController) recordWithHistory(record *model.ScaleRecordModel) (*dto.ScaleRecordResponse, error) {
	history, err := service.LoadHistory(ctrl.DB, record.ScaleRecordID)
	if err != nil {
		return nil, err
	}
	return dto.ToScaleRecordResponse(record, history), nil
}

// 🟢 GET /api/u/scales — admin semua, sc = system ∪ miliknya, tutor 403.
// Filter ?owner_type=&owner_id= mempersempit, tidak pernah memperluas.
func (ctrl *ScaleController) GetScaleRecords(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}
	if user.UserRole == constants.RoleTutor {
		return helper.JsonError(c, fiber.StatusForbidden, "Tutor tidak punya akses scale")
	}

	records, err := service.VisibleRecords(ctrl.DB, user, c.Query("owner_type"), c.Query("owner_id"))
	if err != nil {
		log.Printf("[ERROR] ambil scale records: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	responses := make([]dto.ScaleRecordResponse, 0, len(records))
	for i := range records {
		resp, err := ctrl.recordWithHistory(&records[i])
		if err != nil {
			log.Printf("[ERROR] ambil history scale: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil history")
		}
		responses = append(responses, *resp)
	}

	return helper.JsonOK(c, "Daftar scale record", responses)
}

// 🟢 GET /api/u/scales/sc-view — composite untuk sc: semua record system
// + record pribadi caller (terbaru kalau ada beberapa), masing-masing
// dengan history lengkap.
func (ctrl *ScaleController) GetScView(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}
	if err := helperAuth.RequireRoles(user, constants.RoleSC); err != nil {
		return helper.JsonFiberError(c, err)
	}

	var systemRecords []model.ScaleRecordModel
	if err := ctrl.DB.
		Where("scale_record_owner_type = ?", model.OwnerTypeSystem).
		Order("scale_record_created_at ASC").
		Find(&systemRecords).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	systemResponses := make([]dto.ScaleRecordResponse, 0, len(systemRecords))
	for i := range systemRecords {
		resp, err := ctrl.recordWithHistory(&systemRecords[i])
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil history")
		}
		systemResponses = append(systemResponses, *resp)
	}

	var personalResponse *dto.ScaleRecordResponse
	var personal model.ScaleRecordModel
	perr := ctrl.DB.
		Where("scale_record_owner_type = ? AND scale_record_owner_id = ?", model.OwnerTypeSC, user.OwnerKey()).
		Order("scale_record_updated_at DESC").
		First(&personal).Error
	if perr == nil {
		personalResponse, err = ctrl.recordWithHistory(&personal)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil history")
		}
	} else if !errors.Is(perr, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonOK(c, "Scale view coordinator", fiber.Map{
		"system_records":  systemResponses,
		"personal_record": personalResponse,
	})
}

// 🟢 GET /api/u/scales/:id — detail + history lengkap
func (ctrl *ScaleController) GetScaleRecord(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	record, err := ctrl.loadRecord(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	if !service.CanReadRecord(user, record) {
		// record privat sc lain disamarkan sebagai not-found
		return helper.JsonError(c, fiber.StatusNotFound, "Scale record tidak ditemukan")
	}

	resp, err := ctrl.recordWithHistory(record)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil history")
	}
	return helper.JsonOK(c, "Detail scale record", resp)
}

// 🟢 POST /api/a/scales — buat record baru (admin: system; sc: miliknya)
func (ctrl *ScaleController) CreateScaleRecord(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}
	if err := helperAuth.RequireRoles(user, constants.CoordinatorAndAbove...); err != nil {
		return helper.JsonFiberError(c, err)
	}

	var req dto.ScaleRecordCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Data scale record tidak lengkap")
	}

	record := model.ScaleRecordModel{
		ScaleRecordName:     req.ScaleRecordName,
		ScaleRecordIsPublic: req.ScaleRecordIsPublic,
	}
	if user.UserRole == constants.RoleAdmin {
		record.ScaleRecordOwnerType = model.OwnerTypeSystem
	} else {
		ownerKey := user.OwnerKey()
		record.ScaleRecordOwnerType = model.OwnerTypeSC
		record.ScaleRecordOwnerID = &ownerKey
		record.ScaleRecordIsPublic = false
	}

	if err := ctrl.DB.Create(&record).Error; err != nil {
		log.Printf("[ERROR] simpan scale record: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan scale record")
	}

	return helper.JsonCreated(c, "Scale record berhasil dibuat", dto.ToScaleRecordResponse(&record, nil))
}

// 🟢 POST /api/u/scales/:id/versions — save version (ownership redirect
// untuk sc terhadap record system), lalu fan-out notifikasi
func (ctrl *ScaleController) SaveScaleVersion(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	record, err := ctrl.loadRecord(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	var req dto.SaveVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Daftar level tidak boleh kosong atau tidak lengkap")
	}

	target := record
	switch service.ResolveSaveTarget(user.UserRole, record, user.OwnerKey()) {
	case service.SaveApply:
		// apply langsung ke record target
	case service.SaveFork:
		personal, err := service.GetOrCreatePersonalRecord(ctrl.DB, user.OwnerKey(), record.ScaleRecordName)
		if err != nil {
			log.Printf("[ERROR] fork scale record: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat record pribadi")
		}
		target = personal
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke scale record ini")
	}

	in := req.ToServiceInput()
	if in.UpdatedBy == "" {
		in.UpdatedBy = notifService.UserDisplayName(user, "System")
	}

	version, _, err := service.SaveVersion(ctrl.DB, target, in)
	if err != nil {
		if fe, okf := err.(*fiber.Error); okf {
			return helper.JsonFiberError(c, fe)
		}
		log.Printf("[ERROR] simpan scale version: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan version")
	}

	ctrl.fanOutSave(user, target, version.ScaleVersionNumber)

	// muat ulang supaya updated_at & history konsisten dengan DB
	var fresh model.ScaleRecordModel
	if err := ctrl.DB.Where("scale_record_id = ?", target.ScaleRecordID).First(&fresh).Error; err == nil {
		target = &fresh
	}
	resp, err := ctrl.recordWithHistory(target)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil history")
	}
	return helper.JsonCreated(c, "Version berhasil disimpan", resp)
}

// fanOutSave: notifikasi setelah transaksi version commit. Best effort —
// gagal kirim tidak membatalkan save.
func (ctrl *ScaleController) fanOutSave(actor *userModel.UserModel, record *model.ScaleRecordModel, versionNumber int) {
	outbox := notifService.NewOutbox()

	var recipients []*userModel.UserModel
	var err error
	if record.IsSystemOwned() {
		recipients, err = notifService.RecipientsForSystemScaleSave(ctrl.DB)
	} else if record.ScaleRecordOwnerID != nil {
		recipients, err = notifService.RecipientsForScScaleSave(ctrl.DB, *record.ScaleRecordOwnerID)
	}
	if err != nil {
		log.Printf("[ERROR] hitung penerima scale save: %v", err)
		return
	}

	actorName := notifService.UserDisplayName(actor, "System")
	outbox.Queue(recipients, notifService.Payload{
		Title:       "Scale AI-use diperbarui",
		Content:     fmt.Sprintf("%s menyimpan versi %d untuk scale %q", actorName, versionNumber, record.ScaleRecordName),
		RelatedType: "scale_record",
		RelatedID:   record.ScaleRecordID.String(),
	})
	outbox.Flush(ctrl.DB)
}
