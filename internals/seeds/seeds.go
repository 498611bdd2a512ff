// file: internals/seeds/seeds.go
package seeds

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
	"kampusku_backend/internals/constants"
	scaleModel "kampusku_backend/internals/features/ai_use_scales/scales/model"
	scaleService "kampusku_backend/internals/features/ai_use_scales/scales/service"
	userModel "kampusku_backend/internals/features/users/user/model"
)

// Run: bootstrap idempoten — aman dipanggil setiap start
func Run(db *gorm.DB) {
	seedAdmin(db)
	seedSystemScale(db)
}

// seedAdmin: akun admin pertama dari env (SEED_ADMIN_USERNAME/PASSWORD,
// dimuat sekali oleh configs.LoadEnv). Tidak menimpa akun yang sudah ada.
func seedAdmin(db *gorm.DB) {
	username := configs.SeedAdminUser
	password := configs.SeedAdminPass
	if username == "" || password == "" {
		return
	}

	var existing userModel.UserModel
	err := db.Where("user_username = ?", username).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ERROR] cek seed admin: %v", err)
		return
	}

	hashed, herr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if herr != nil {
		log.Printf("[ERROR] hash password seed admin: %v", herr)
		return
	}

	admin := userModel.UserModel{
		UserUsername: username,
		UserPassword: string(hashed),
		UserRole:     constants.RoleAdmin,
		UserName:     "Administrator",
		UserStatus:   constants.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[ERROR] buat seed admin: %v", err)
		return
	}
	log.Printf("✅ Seed admin %q dibuat", username)
}

// seedSystemScale: record scale system default + version 1 kalau belum ada
// record system sama sekali
func seedSystemScale(db *gorm.DB) {
	var count int64
	if err := db.Model(&scaleModel.ScaleRecordModel{}).
		Where("scale_record_owner_type = ?", scaleModel.OwnerTypeSystem).
		Count(&count).Error; err != nil {
		log.Printf("[ERROR] cek seed scale system: %v", err)
		return
	}
	if count > 0 {
		return
	}

	record := scaleModel.ScaleRecordModel{
		ScaleRecordName:      "AI Use Scale",
		ScaleRecordOwnerType: scaleModel.OwnerTypeSystem,
		ScaleRecordIsPublic:  true,
	}
	if err := db.Create(&record).Error; err != nil {
		log.Printf("[ERROR] buat seed scale system: %v", err)
		return
	}

	_, _, err := scaleService.SaveVersion(db, &record, scaleService.SaveVersionInput{
		UpdatedBy: "System",
		Notes:     "Seed awal",
		Levels: []scaleService.LevelInput{
			{
				Code:        "R1",
				Label:       "No AI",
				Description: "Seluruh pekerjaan dikerjakan tanpa bantuan AI.",
				AIUsage:     "AI tidak boleh digunakan dalam bentuk apa pun.",
			},
			{
				Code:        "R2",
				Label:       "AI untuk ide",
				Description: "AI boleh dipakai untuk brainstorming dan eksplorasi ide.",
				AIUsage:     "Hasil AI tidak boleh masuk ke pekerjaan akhir.",
			},
			{
				Code:        "R3",
				Label:       "AI dengan atribusi",
				Description: "AI boleh membantu pengerjaan dengan atribusi eksplisit.",
				AIUsage:     "Setiap bagian berbantuan AI wajib ditandai dan dijelaskan.",
			},
			{
				Code:        "G",
				Label:       "AI penuh",
				Description: "AI boleh dipakai bebas sesuai arahan assignment.",
				AIUsage:     "Penggunaan AI bebas, tetap tunduk pada integritas akademik.",
			},
		},
	})
	if err != nil {
		log.Printf("[ERROR] isi version seed scale system: %v", err)
		return
	}
	log.Println("✅ Seed scale system dibuat")
}
