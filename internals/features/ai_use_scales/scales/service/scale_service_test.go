package service

import (
	"sort"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/ai_use_scales/scales/model"
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

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&model.ScaleRecordModel{},
		&model.ScaleVersionModel{},
		&model.ScaleLevelModel{},
	))
	return db
}

func makeUser(t *testing.T, db *gorm.DB, username, role string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserUsername: username,
		UserPassword: "x",
		UserRole:     role,
		UserStatus:   constants.StatusActive,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func makeSystemRecord(t *testing.T, db *gorm.DB, name string) *model.ScaleRecordModel {
	t.Helper()
	r := model.ScaleRecordModel{
		ScaleRecordName:      name,
		ScaleRecordOwnerType: model.OwnerTypeSystem,
		ScaleRecordIsPublic:  true,
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func makeScRecord(t *testing.T, db *gorm.DB, name, ownerKey string) *model.ScaleRecordModel {
	t.Helper()
	r := model.ScaleRecordModel{
		ScaleRecordName:      name,
		ScaleRecordOwnerType: model.OwnerTypeSC,
		ScaleRecordOwnerID:   &ownerKey,
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func oneLevel(code string) []LevelInput {
	return []LevelInput{{Code: code, Label: "Grammar", Description: "d", AIUsage: "u"}}
}

func TestSaveVersionNumbersAreMonotonic(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	v1, _, err := SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R1"), UpdatedBy: "a"})
	require.NoError(t, err)
	v2, _, err := SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R2"), UpdatedBy: "b"})
	require.NoError(t, err)
	v3, _, err := SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R3"), UpdatedBy: "c"})
	require.NoError(t, err)

	assert.Equal(t, 1, v1.ScaleVersionNumber)
	assert.Equal(t, 2, v2.ScaleVersionNumber)
	assert.Equal(t, 3, v3.ScaleVersionNumber)
}

func TestSaveVersionDoesNotTouchPriorVersions(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	_, _, err := SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R1"), UpdatedBy: "a", Notes: "first"})
	require.NoError(t, err)

	before, err := LoadHistory(db, record.ScaleRecordID)
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, _, err = SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R2"), UpdatedBy: "b"})
	require.NoError(t, err)

	after, err := LoadHistory(db, record.ScaleRecordID)
	require.NoError(t, err)
	require.Len(t, after, 2)

	// version lama muncul utuh dan tidak berubah; urutan terbaru dulu
	assert.Equal(t, 2, after[0].Version.ScaleVersionNumber)
	assert.Equal(t, before[0].Version.ScaleVersionID, after[1].Version.ScaleVersionID)
	assert.Equal(t, "first", after[1].Version.ScaleVersionNotes)
	require.Len(t, after[1].Levels, 1)
	assert.Equal(t, "R1", after[1].Levels[0].ScaleLevelCode)
}

func TestSaveVersionRejectsEmptyLevels(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	_, _, err := SaveVersion(db, record, SaveVersionInput{Levels: nil, UpdatedBy: "a"})
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fe.Code)

	history, herr := LoadHistory(db, record.ScaleRecordID)
	require.NoError(t, herr)
	assert.Empty(t, history)
}

func TestSaveVersionKeepsLevelPositionsInInputOrder(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	input := SaveVersionInput{
		UpdatedBy: "a",
		Levels: []LevelInput{
			{Code: "G", Label: "Bebas"},
			{Code: "R1", Label: "Tanpa AI"},
			{Code: "R2", Label: "Ide saja"},
		},
	}
	_, levels, err := SaveVersion(db, record, input)
	require.NoError(t, err)
	require.Len(t, levels, 3)

	// posisi = index input, tidak ada re-sort
	for i, lv := range levels {
		assert.Equal(t, i, lv.ScaleLevelPosition)
		assert.Equal(t, input.Levels[i].Code, lv.ScaleLevelCode)
	}
}

func TestSaveVersionAllowsRepeatedLevelCodes(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	// kode level bukan identitas baris — payload dengan kode kembar sah
	// dan disimpan apa adanya, dibedakan lewat position
	input := SaveVersionInput{
		UpdatedBy: "a",
		Levels: []LevelInput{
			{Code: "R1", Label: "Tanpa AI (tertulis)"},
			{Code: "R1", Label: "Tanpa AI (lisan)"},
			{Code: "R2", Label: "Ide saja"},
		},
	}
	v, levels, err := SaveVersion(db, record, input)
	require.NoError(t, err)
	assert.Equal(t, 1, v.ScaleVersionNumber)
	require.Len(t, levels, 3)
	assert.Equal(t, "R1", levels[0].ScaleLevelCode)
	assert.Equal(t, "R1", levels[1].ScaleLevelCode)
	assert.Equal(t, 0, levels[0].ScaleLevelPosition)
	assert.Equal(t, 1, levels[1].ScaleLevelPosition)

	history, err := LoadHistory(db, record.ScaleRecordID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Levels, 3)
}

func TestSaveVersionConcurrentSavesGetDistinctContiguousNumbers(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := make([]int, 0, n)
	errs := make([]error, 0, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R1"), UpdatedBy: "a"})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, v.ScaleVersionNumber)
		}()
	}
	wg.Wait()
	require.Empty(t, errs)

	// tepat n nomor, semuanya berbeda dan kontigu 1..n
	sort.Ints(numbers)
	require.Len(t, numbers, n)
	for i, num := range numbers {
		assert.Equal(t, i+1, num)
	}
}

func TestResolveSaveTargetDecisionTable(t *testing.T) {
	db := newTestDB(t)
	system := makeSystemRecord(t, db, "AI Use Scale")
	owned := makeScRecord(t, db, "Copy", "coordA")
	other := makeScRecord(t, db, "Copy", "coordB")

	tests := []struct {
		name     string
		role     string
		record   *model.ScaleRecordModel
		ownerKey string
		want     SaveAction
	}{
		{"admin x system", constants.RoleAdmin, system, "admin1", SaveApply},
		{"admin x sc record", constants.RoleAdmin, owned, "admin1", SaveApply},
		{"sc x system", constants.RoleSC, system, "coordA", SaveFork},
		{"sc x own record", constants.RoleSC, owned, "coordA", SaveApply},
		{"sc x other sc record", constants.RoleSC, other, "coordA", SaveDeny},
		{"tutor x system", constants.RoleTutor, system, "tutor1", SaveDeny},
		{"tutor x sc record", constants.RoleTutor, owned, "tutor1", SaveDeny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSaveTarget(tt.role, tt.record, tt.ownerKey))
		})
	}
}

func TestScSaveAgainstSystemRecordForksPersonalCopy(t *testing.T) {
	db := newTestDB(t)
	system := makeSystemRecord(t, db, "AI Use Scale")
	sc := makeUser(t, db, "coordA", constants.RoleSC)

	action := ResolveSaveTarget(sc.UserRole, system, sc.OwnerKey())
	require.Equal(t, SaveFork, action)

	personal, err := GetOrCreatePersonalRecord(db, sc.OwnerKey(), system.ScaleRecordName)
	require.NoError(t, err)
	assert.Equal(t, model.OwnerTypeSC, personal.ScaleRecordOwnerType)
	require.NotNil(t, personal.ScaleRecordOwnerID)
	assert.Equal(t, "coordA", *personal.ScaleRecordOwnerID)
	assert.Equal(t, system.ScaleRecordName, personal.ScaleRecordName)
	assert.False(t, personal.ScaleRecordIsPublic)

	v, levels, err := SaveVersion(db, personal, SaveVersionInput{Levels: oneLevel("R1"), UpdatedBy: "coordA"})
	require.NoError(t, err)
	assert.Equal(t, 1, v.ScaleVersionNumber)
	require.Len(t, levels, 1)
	assert.Equal(t, "R1", levels[0].ScaleLevelCode)

	// record system asal tidak tersentuh
	systemHistory, err := LoadHistory(db, system.ScaleRecordID)
	require.NoError(t, err)
	assert.Empty(t, systemHistory)

	// panggilan kedua memakai record yang sama, bukan membuat duplikat
	again, err := GetOrCreatePersonalRecord(db, sc.OwnerKey(), system.ScaleRecordName)
	require.NoError(t, err)
	assert.Equal(t, personal.ScaleRecordID, again.ScaleRecordID)
}

func TestVisibleRecordsScSeesSystemUnionOwn(t *testing.T) {
	db := newTestDB(t)
	system := makeSystemRecord(t, db, "AI Use Scale")
	own := makeScRecord(t, db, "Copy A", "coordA")
	makeScRecord(t, db, "Copy B", "coordB")
	sc := makeUser(t, db, "coordA", constants.RoleSC)

	records, err := VisibleRecords(db, sc, "", "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	ids := []string{records[0].ScaleRecordID.String(), records[1].ScaleRecordID.String()}
	assert.Contains(t, ids, system.ScaleRecordID.String())
	assert.Contains(t, ids, own.ScaleRecordID.String())
}

func TestVisibleRecordsFilterNarrowsNeverWidens(t *testing.T) {
	db := newTestDB(t)
	makeSystemRecord(t, db, "AI Use Scale")
	makeScRecord(t, db, "Copy B", "coordB")
	sc := makeUser(t, db, "coordA", constants.RoleSC)

	// filter eksplisit ke record sc lain tetap tidak membukanya
	records, err := VisibleRecords(db, sc, model.OwnerTypeSC, "coordB")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVisibleRecordsTutorGetsNothing(t *testing.T) {
	db := newTestDB(t)
	makeSystemRecord(t, db, "AI Use Scale")
	tutor := makeUser(t, db, "tutor1", constants.RoleTutor)

	records, err := VisibleRecords(db, tutor, "", "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCanReadRecord(t *testing.T) {
	db := newTestDB(t)
	system := makeSystemRecord(t, db, "AI Use Scale")
	own := makeScRecord(t, db, "Copy", "coordA")

	admin := makeUser(t, db, "admin1", constants.RoleAdmin)
	sc := makeUser(t, db, "coordA", constants.RoleSC)
	otherSc := makeUser(t, db, "coordB", constants.RoleSC)
	tutor := makeUser(t, db, "tutor1", constants.RoleTutor)

	assert.True(t, CanReadRecord(admin, system))
	assert.True(t, CanReadRecord(admin, own))
	assert.True(t, CanReadRecord(sc, system))
	assert.True(t, CanReadRecord(sc, own))
	assert.False(t, CanReadRecord(otherSc, own))
	assert.False(t, CanReadRecord(tutor, system))
	assert.False(t, CanReadRecord(tutor, own))
}

func TestLoadHistoryIsStableAcrossReads(t *testing.T) {
	db := newTestDB(t)
	record := makeSystemRecord(t, db, "AI Use Scale")

	_, _, err := SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R1"), UpdatedBy: "a"})
	require.NoError(t, err)
	_, _, err = SaveVersion(db, record, SaveVersionInput{Levels: oneLevel("R2"), UpdatedBy: "b"})
	require.NoError(t, err)

	first, err := LoadHistory(db, record.ScaleRecordID)
	require.NoError(t, err)
	second, err := LoadHistory(db, record.ScaleRecordID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
