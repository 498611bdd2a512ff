package controller

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"kampusku_backend/internals/features/academics/assignments/dto"
	"kampusku_backend/internals/features/academics/assignments/model"
	"kampusku_backend/internals/features/academics/assignments/service"
	notifService "kampusku_backend/internals/features/home/notifications/service"
	userModel "kampusku_backend/internals/features/users/user/model"
	helper "kampusku_backend/internals/helpers"
	helperAuth "kampusku_backend/internals/helpers/auth"
)

func toTemplateResponse(tmpl *model.AssignmentTemplateModel) (*dto.TemplateResponse, error) {
	rows, err := service.DecodeRows(tmpl.TemplateRows)
	if err != nil {
		return nil, err
	}
	dtoRows := make([]dto.TemplateRow, 0, len(rows))
	for _, r := range rows {
		dtoRows = append(dtoRows, dto.TemplateRow(r))
	}
	return &dto.TemplateResponse{
		TemplateID:              tmpl.TemplateID,
		TemplateAssignmentID:    tmpl.TemplateAssignmentID,
		TemplateRows:            dtoRows,
		TemplateIsPublished:     tmpl.TemplateIsPublished,
		TemplateUpdatedBy:       tmpl.TemplateUpdatedBy,
		TemplateLastPublishedAt: tmpl.TemplateLastPublishedAt,
		TemplateUpdatedAt:       tmpl.TemplateUpdatedAt.Format(time.RFC3339),
	}, nil
}

// fanOutPublish: notifikasi ke tutor assignment + coordinator + aktor.
// Best effort — dipanggil SETELAH transaksi template commit.
func (ctrl *AssignmentController) fanOutPublish(actor *userModel.UserModel, assignment *model.AssignmentModel) {
	outbox := notifService.NewOutbox()
	recipients, err := notifService.RecipientsForTemplatePublish(ctrl.DB, assignment, actor)
	if err != nil {
		log.Printf("[ERROR] hitung penerima publish template: %v", err)
		return
	}
	actorName := notifService.UserDisplayName(actor, "System")
	outbox.Queue(recipients, notifService.Payload{
		Title:       "Template deklarasi AI dipublikasikan",
		Content:     fmt.Sprintf("%s mempublikasikan template deklarasi AI untuk assignment %q", actorName, assignment.AssignmentName),
		RelatedType: "assignment_template",
		RelatedID:   assignment.AssignmentID.String(),
	})
	outbox.Flush(ctrl.DB)
}

// 🟢 GET /api/u/assignments/:id/template — pembaca assignment; tutor yang
// tidak ditugaskan ditolak walau template ada
func (ctrl *AssignmentController) GetTemplate(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	assignment, err := ctrl.loadAssignment(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	ok, err := service.CanViewAssignment(ctrl.DB, user, assignment)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke assignment ini")
	}

	var tmpl model.AssignmentTemplateModel
	if err := ctrl.DB.Where("template_assignment_id = ?", assignment.AssignmentID).First(&tmpl).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Template belum dibuat")
	}

	resp, err := toTemplateResponse(&tmpl)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Isi template rusak")
	}
	return helper.JsonOK(c, "Detail template", resp)
}

// 🟢 PUT /api/u/assignments/:id/template — simpan rows (create-or-update);
// publish=true pada rows berisi memicu fan-out
func (ctrl *AssignmentController) SaveTemplate(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	assignment, err := ctrl.loadAssignment(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	ok, err := service.CanEditTemplate(ctrl.DB, user, assignment)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke template ini")
	}

	var req dto.TemplateSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Data template tidak valid")
	}

	rows := make([]map[string]string, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, map[string]string(r))
	}
	updatedBy := req.UpdatedBy
	if updatedBy == "" {
		updatedBy = user.UserUsername
	}

	tmpl, published, err := service.SaveTemplate(ctrl.DB, assignment, service.SaveTemplateInput{
		Rows:      rows,
		Publish:   req.Publish,
		UpdatedBy: updatedBy,
	})
	if err != nil {
		if fe, okf := err.(*fiber.Error); okf {
			return helper.JsonFiberError(c, fe)
		}
		log.Printf("[ERROR] simpan template: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan template")
	}

	if published {
		ctrl.fanOutPublish(user, assignment)
	}

	resp, err := toTemplateResponse(tmpl)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Isi template rusak")
	}
	return helper.JsonUpdated(c, "Template berhasil disimpan", resp)
}

// 🟢 POST /api/u/assignments/:id/template/publish
func (ctrl *AssignmentController) PublishTemplate(c *fiber.Ctx) error {
	return ctrl.setTemplatePublished(c, true)
}

// 🟢 POST /api/u/assignments/:id/template/unpublish
func (ctrl *AssignmentController) UnpublishTemplate(c *fiber.Ctx) error {
	return ctrl.setTemplatePublished(c, false)
}

func (ctrl *AssignmentController) setTemplatePublished(c *fiber.Ctx, publish bool) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	assignment, err := ctrl.loadAssignment(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	ok, err := service.CanEditTemplate(ctrl.DB, user, assignment)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke template ini")
	}

	tmpl, published, err := service.SetPublished(ctrl.DB, assignment, publish)
	if err != nil {
		if fe, okf := err.(*fiber.Error); okf {
			return helper.JsonFiberError(c, fe)
		}
		log.Printf("[ERROR] ubah status publish template: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah status template")
	}

	if published {
		ctrl.fanOutPublish(user, assignment)
	}

	resp, err := toTemplateResponse(tmpl)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Isi template rusak")
	}

	msg := "Template dibatalkan publikasinya"
	if publish {
		msg = "Template dipublikasikan"
	}
	return helper.JsonUpdated(c, msg, resp)
}
