package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kampusku_backend/internals/constants"
	userModel "kampusku_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&userModel.UserModel{}))
	return db
}

func makeUser(t *testing.T, db *gorm.DB, username, role, status string, token *string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserUsername:  username,
		UserPassword:  "x",
		UserRole:      role,
		UserStatus:    status,
		UserAuthToken: token,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

// resolveApp: app kecil yang mengekspos hasil resolusi sebagai response
func resolveApp(db *gorm.DB, pre func(c *fiber.Ctx)) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if pre != nil {
			pre(c)
		}
		u, err := ResolveActiveUser(c, db)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if u == nil {
			return c.Status(fiber.StatusOK).SendString("none")
		}
		return c.Status(fiber.StatusOK).SendString(u.UserUsername)
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, header map[string]string, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestResolveAbsentIdentityIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	app := resolveApp(db, nil)

	status, body := doGet(t, app, nil, "/whoami")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "none", body)
}

func TestResolveFromBearerToken(t *testing.T) {
	db := newTestDB(t)
	token := "tok-123"
	makeUser(t, db, "budi", constants.RoleSC, constants.StatusActive, &token)
	app := resolveApp(db, nil)

	status, body := doGet(t, app, map[string]string{"Authorization": "Bearer tok-123"}, "/whoami")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "budi", body)
}

func TestResolveBearerTokenRejectsInactiveUser(t *testing.T) {
	db := newTestDB(t)
	token := "tok-123"
	makeUser(t, db, "budi", constants.RoleSC, constants.StatusInactive, &token)
	app := resolveApp(db, nil)

	status, body := doGet(t, app, map[string]string{"Authorization": "Bearer tok-123"}, "/whoami")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "none", body)
}

func TestResolveFromUsernameHintHeader(t *testing.T) {
	db := newTestDB(t)
	makeUser(t, db, "siti", constants.RoleTutor, constants.StatusActive, nil)
	app := resolveApp(db, nil)

	status, body := doGet(t, app, map[string]string{"X-Username": "siti"}, "/whoami")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "siti", body)
}

func TestResolveFromUserIdQueryHint(t *testing.T) {
	db := newTestDB(t)
	u := makeUser(t, db, "siti", constants.RoleTutor, constants.StatusActive, nil)
	app := resolveApp(db, nil)

	status, body := doGet(t, app, nil, "/whoami?user_id="+u.UserID.String())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "siti", body)
}

func TestResolveLocalsPrincipalWinsOverHints(t *testing.T) {
	db := newTestDB(t)
	principal := makeUser(t, db, "admin1", constants.RoleAdmin, constants.StatusActive, nil)
	makeUser(t, db, "siti", constants.RoleTutor, constants.StatusActive, nil)

	app := resolveApp(db, func(c *fiber.Ctx) {
		c.Locals(LocCurrentUser, principal)
	})

	status, body := doGet(t, app, map[string]string{"X-Username": "siti"}, "/whoami")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin1", body)
}

func TestResolveLocalsUsernameStrategy(t *testing.T) {
	db := newTestDB(t)
	makeUser(t, db, "budi", constants.RoleSC, constants.StatusActive, nil)

	app := resolveApp(db, func(c *fiber.Ctx) {
		c.Locals("username", "budi")
	})

	status, body := doGet(t, app, nil, "/whoami")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "budi", body)
}

func TestRequireActiveUserTranslatesAbsenceTo401(t *testing.T) {
	db := newTestDB(t)

	app := fiber.New()
	app.Get("/private", func(c *fiber.Ctx) error {
		u, err := RequireActiveUser(c, db)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return c.SendStatus(fe.Code)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(u.UserUsername)
	})

	status, _ := doGet(t, app, nil, "/private")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequireRoles(t *testing.T) {
	admin := &userModel.UserModel{UserRole: constants.RoleAdmin}
	tutor := &userModel.UserModel{UserRole: constants.RoleTutor}

	assert.NoError(t, RequireRoles(admin, constants.RoleAdmin))
	assert.NoError(t, RequireRoles(tutor)) // daftar kosong = terbuka

	err := RequireRoles(tutor, constants.RoleAdmin, constants.RoleSC)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}
