package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helperAuth "kampusku_backend/internals/helpers/auth"
)

// RequireAuth: wajib ada identitas aktif (strategi resolver berurutan).
// Hasil resolusi di-cache di Locals oleh resolver, controller tinggal pakai.
func RequireAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := helperAuth.ResolveActiveUser(c, db)
		if err != nil {
			log.Printf("[ERROR] resolve identitas: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Gagal memeriksa identitas",
			})
		}
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Autentikasi diperlukan",
			})
		}
		return c.Next()
	}
}

// OnlyRoles: identitas aktif + role harus termasuk allowedRoles.
// allowedRoles kosong = semua identitas ter-resolve boleh lewat.
func OnlyRoles(db *gorm.DB, customMessage string, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := helperAuth.ResolveActiveUser(c, db)
		if err != nil {
			log.Printf("[ERROR] resolve identitas: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Gagal memeriksa identitas",
			})
		}
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Autentikasi diperlukan",
			})
		}

		if len(allowedRoles) == 0 {
			return c.Next()
		}
		for _, allowed := range allowedRoles {
			if u.UserRole == allowed {
				return c.Next()
			}
		}

		if customMessage == "" {
			customMessage = "Forbidden: you are not authorized to access this resource"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": customMessage,
		})
	}
}
