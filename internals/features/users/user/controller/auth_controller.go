package controller

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/users/user/dto"
	"kampusku_backend/internals/features/users/user/model"
	helper "kampusku_backend/internals/helpers"
	helperAuth "kampusku_backend/internals/helpers/auth"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

// 🟢 POST /api/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, validationMap(err))
	}

	// username harus unik
	var count int64
	if err := ctrl.DB.Model(&model.UserModel{}).
		Where("user_username = ?", req.Username).
		Count(&count).Error; err != nil {
		log.Printf("[ERROR] cek username: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa username")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Username sudah terdaftar")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	newUser := req.ToModel()
	newUser.UserPassword = string(hashed)
	if err := ctrl.DB.Create(newUser).Error; err != nil {
		log.Printf("[ERROR] simpan user: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan user")
	}

	return helper.JsonCreated(c, "Registrasi berhasil", dto.ToUserResponse(newUser))
}

// 🟢 POST /api/login
// Sukses: terbitkan token opaque baru (token lama otomatis tidak berlaku).
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Username dan password wajib diisi")
	}

	var user model.UserModel
	if err := ctrl.DB.Where("user_username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Username atau password salah")
		}
		log.Printf("[ERROR] lookup user login: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Username atau password salah")
	}
	if !user.IsActive() {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun tidak aktif")
	}

	token, err := generateOpaqueToken()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan token")
	}

	now := time.Now()
	updates := map[string]any{
		"user_auth_token":    token,
		"user_last_login_at": now,
	}
	if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] simpan token login: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan token")
	}
	user.UserAuthToken = &token
	user.UserLastLoginAt = &now

	return helper.JsonOK(c, "Login berhasil", dto.LoginResponse{
		Token: token,
		User:  *dto.ToUserResponse(&user),
	})
}

// 🟢 POST /api/u/logout
// Hanya menghapus token milik caller sendiri — tidak ada mutasi token lintas user.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	if err := ctrl.DB.Model(&model.UserModel{}).
		Where("user_id = ?", user.UserID).
		Update("user_auth_token", nil).Error; err != nil {
		log.Printf("[ERROR] hapus token logout: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
	}

	return helper.JsonOK(c, "Logout berhasil", nil)
}

func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// validationMap: ubah validator.ValidationErrors jadi map field → pesan
func validationMap(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				out[fe.Field()] = append(out[fe.Field()], "wajib diisi")
			case "email":
				out[fe.Field()] = append(out[fe.Field()], "format email tidak valid")
			case "min":
				out[fe.Field()] = append(out[fe.Field()], "minimal "+fe.Param()+" karakter")
			case "max":
				out[fe.Field()] = append(out[fe.Field()], "maksimal "+fe.Param()+" karakter")
			case "oneof":
				out[fe.Field()] = append(out[fe.Field()], "harus salah satu dari: "+fe.Param())
			default:
				out[fe.Field()] = append(out[fe.Field()], "format tidak valid")
			}
		}
	} else {
		out["_"] = append(out["_"], err.Error())
	}
	return out
}
