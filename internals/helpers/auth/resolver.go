// file: internals/helpers/auth/resolver.go
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "kampusku_backend/internals/features/users/user/model"
)

// Key cache identitas per-request di Locals.
// Nilai bisa *UserModel (resolved) atau resolvedNone (sudah dicoba, hasil kosong).
const LocCurrentUser = "current_user"

type noneMarker struct{}

var resolvedNone = noneMarker{}

// Strategy: satu cara resolusi identitas. Return (nil, nil) artinya "tidak ketemu,
// lanjut strategi berikutnya" — bukan error.
type Strategy struct {
	Name    string
	Resolve func(c *fiber.Ctx, db *gorm.DB) (*userModel.UserModel, error)
}

// Urutan resolusi (first match wins):
// 1) principal yang sudah ada di Locals (session layer / middleware upstream)
// 2) username di Locals → lookup store
// 3) Authorization: Bearer <token> → match user_auth_token, harus active
// 4) hint eksplisit (header/query) — dipakai caller internal & test
func defaultStrategies() []Strategy {
	return []Strategy{
		{Name: "locals_principal", Resolve: fromLocalsPrincipal},
		{Name: "locals_username", Resolve: fromLocalsUsername},
		{Name: "bearer_token", Resolve: fromBearerToken},
		{Name: "fallback_hints", Resolve: fromFallbackHints},
	}
}

// ResolveActiveUser mencoba semua strategi berurutan dan meng-cache hasilnya
// (termasuk hasil kosong) di Locals. Tidak pernah mengembalikan error untuk
// "identitas tidak ada" — nil user adalah hasil yang sah.
func ResolveActiveUser(c *fiber.Ctx, db *gorm.DB) (*userModel.UserModel, error) {
	if v := c.Locals(LocCurrentUser); v != nil {
		if u, ok := v.(*userModel.UserModel); ok {
			return u, nil
		}
		if _, ok := v.(noneMarker); ok {
			return nil, nil
		}
	}

	for _, s := range defaultStrategies() {
		u, err := s.Resolve(c, db)
		if err != nil {
			return nil, err
		}
		if u != nil {
			c.Locals(LocCurrentUser, u)
			return u, nil
		}
	}

	c.Locals(LocCurrentUser, resolvedNone)
	return nil, nil
}

// RequireActiveUser: seperti ResolveActiveUser tapi absennya identitas = 401.
func RequireActiveUser(c *fiber.Ctx, db *gorm.DB) (*userModel.UserModel, error) {
	u, err := ResolveActiveUser(c, db)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memeriksa identitas")
	}
	if u == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Autentikasi diperlukan")
	}
	return u, nil
}

// RequireRoles: cek role user terhadap daftar role yang diizinkan.
// Daftar kosong = semua identitas ter-resolve boleh lewat.
func RequireRoles(u *userModel.UserModel, roles ...string) error {
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if u.UserRole == r {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusForbidden, "Role tidak diizinkan mengakses aksi ini")
}

/* =========================
   Strategi individual
========================= */

func fromLocalsPrincipal(c *fiber.Ctx, _ *gorm.DB) (*userModel.UserModel, error) {
	// dicek lagi di sini (bukan hanya cache) supaya middleware yang menaruh
	// principal langsung juga lewat jalur strategi yang sama
	if u, ok := c.Locals(LocCurrentUser).(*userModel.UserModel); ok {
		if u.IsActive() {
			return u, nil
		}
	}
	return nil, nil
}

func fromLocalsUsername(c *fiber.Ctx, db *gorm.DB) (*userModel.UserModel, error) {
	username, ok := c.Locals("username").(string)
	if !ok || strings.TrimSpace(username) == "" {
		return nil, nil
	}
	return findActiveByUsername(c, db, username)
}

func fromBearerToken(c *fiber.Ctx, db *gorm.DB) (*userModel.UserModel, error) {
	const prefix = "Bearer "
	header := strings.TrimSpace(c.Get("Authorization"))
	if !strings.HasPrefix(header, prefix) {
		return nil, nil
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return nil, nil
	}

	var u userModel.UserModel
	err := db.WithContext(c.Context()).
		Where("user_auth_token = ? AND user_status = ?", token, "active").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func fromFallbackHints(c *fiber.Ctx, db *gorm.DB) (*userModel.UserModel, error) {
	// user id: header lalu query
	idHint := strings.TrimSpace(c.Get("X-User-Id"))
	if idHint == "" {
		idHint = strings.TrimSpace(c.Query("user_id"))
	}
	if idHint != "" {
		id, err := uuid.Parse(idHint)
		if err == nil {
			var u userModel.UserModel
			dberr := db.WithContext(c.Context()).
				Where("user_id = ? AND user_status = ?", id, "active").
				First(&u).Error
			if dberr == nil {
				return &u, nil
			}
			if !errors.Is(dberr, gorm.ErrRecordNotFound) {
				return nil, dberr
			}
		}
	}

	// username: header lalu query
	nameHint := strings.TrimSpace(c.Get("X-Username"))
	if nameHint == "" {
		nameHint = strings.TrimSpace(c.Query("username"))
	}
	if nameHint != "" {
		return findActiveByUsername(c, db, nameHint)
	}
	return nil, nil
}

func findActiveByUsername(c *fiber.Ctx, db *gorm.DB, username string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := db.WithContext(c.Context()).
		Where("user_username = ? AND user_status = ?", strings.TrimSpace(username), "active").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
