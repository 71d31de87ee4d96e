package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tip-core/internal/model"
)

// NewTestDB creates an in-memory SQLite database migrated with every model.
// TranslateError matches the production connection so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// Fixture 一条可收款的完整链路: 商户 -> 门店 -> 任职 -> 二维码
type Fixture struct {
	Organization model.Organization
	Location     model.Location
	Assignment   model.StaffAssignment
	QRCode       model.QRCode
}

// SeedAssignment 写入一个激活的二维码，收款地址为 payout
func SeedAssignment(t *testing.T, db *gorm.DB, code, payout string) Fixture {
	t.Helper()

	f := Fixture{
		Organization: model.Organization{Name: "Blue Door Bistro"},
	}
	mustCreate(t, db, &f.Organization)

	f.Location = model.Location{OrganizationID: f.Organization.ID, Name: "Downtown"}
	mustCreate(t, db, &f.Location)

	f.Assignment = model.StaffAssignment{
		OrganizationID:      f.Organization.ID,
		LocationID:          f.Location.ID,
		ServerID:            42,
		ServerDisplayName:   "Sam",
		ServerEmail:         "sam@example.com",
		PayoutWalletAddress: payout,
		IsActive:            true,
	}
	mustCreate(t, db, &f.Assignment)

	f.QRCode = model.QRCode{Code: code, AssignmentID: f.Assignment.ID, IsActive: true}
	mustCreate(t, db, &f.QRCode)

	return f
}

// CountTips 当前 tips 表行数
func CountTips(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Tip{}).Count(&n).Error; err != nil {
		t.Fatalf("count tips: %v", err)
	}
	return n
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}
