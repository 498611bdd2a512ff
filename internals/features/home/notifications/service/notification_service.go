package service

import (
	"log"
	"strings"

	"gorm.io/gorm"

	notifModel "kampusku_backend/internals/features/home/notifications/model"
	userModel "kampusku_backend/internals/features/users/user/model"
)

// Payload: isi satu event notifikasi (sama untuk semua penerima)
type Payload struct {
	Title       string
	Content     string
	Body        string
	RelatedType string
	RelatedID   string
}

// UserDisplayName: rantai fallback nama aktor untuk isi notifikasi:
// name → username → "User {id}" → default caller → "System"
func UserDisplayName(u *userModel.UserModel, def string) string {
	if u != nil {
		if u.UserName != "" {
			return u.UserName
		}
		if u.UserUsername != "" {
			return u.UserUsername
		}
		return "User " + u.UserID.String()
	}
	if strings.TrimSpace(def) != "" {
		return def
	}
	return "System"
}

// NormalizeRecipients: buang nil & user non-aktif, dedupe per user id,
// urutan first-seen dipertahankan.
func NormalizeRecipients(in []*userModel.UserModel) []*userModel.UserModel {
	out := make([]*userModel.UserModel, 0, len(in))
	seen := map[string]struct{}{}
	for _, u := range in {
		if u == nil || !u.IsActive() {
			continue
		}
		key := u.UserID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Outbox: antrian side-effect notifikasi milik satu unit of work.
// Queue dipanggil di dalam transaksi; Flush HANYA setelah commit sukses —
// kalau transaksi rollback, outbox dibuang dan tidak ada notifikasi dibuat.
type Outbox struct {
	pending []notifModel.NotificationModel
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Queue(recipients []*userModel.UserModel, p Payload) {
	users := NormalizeRecipients(recipients)
	if len(users) == 0 {
		return
	}
	title := strings.TrimSpace(p.Title)
	content := strings.TrimSpace(p.Content)
	body := strings.TrimSpace(p.Body)
	relatedType := strings.TrimSpace(p.RelatedType)
	relatedID := strings.TrimSpace(p.RelatedID)

	for _, u := range users {
		o.pending = append(o.pending, notifModel.NotificationModel{
			NotificationRecipientID: u.UserID,
			NotificationTitle:       title,
			NotificationContent:     content,
			NotificationBody:        body,
			NotificationRelatedType: relatedType,
			NotificationRelatedID:   relatedID,
		})
	}
}

func (o *Outbox) PendingCount() int {
	return len(o.pending)
}

func (o *Outbox) Discard() {
	o.pending = nil
}

// Flush: tulis semua notifikasi pending. Best-effort — error hanya di-log,
// tidak pernah menggagalkan operasi bisnis yang memicunya.
func (o *Outbox) Flush(db *gorm.DB) {
	if len(o.pending) == 0 {
		return
	}
	rows := o.pending
	o.pending = nil
	if err := db.CreateInBatches(rows, 100).Error; err != nil {
		log.Printf("[ERROR] flush notifikasi (%d baris): %v", len(rows), err)
	}
}
