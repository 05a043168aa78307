package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSettingServiceTest(t *testing.T) (*SettingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:setting_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewSettingService(repository.NewSettingRepository(db)), db
}

func TestUpsertSetting(t *testing.T) {
	svc, _ := setupSettingServiceTest(t)

	setting, created, err := svc.UpsertSetting(1, "  Site_Config ", models.JSON{
		constants.SettingFieldSiteName: "Corner Coffee",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}
	if setting.SettingsKey != "site_config" {
		t.Fatalf("expected normalized key site_config, got %s", setting.SettingsKey)
	}

	setting, created, err = svc.UpsertSetting(1, "site_config", models.JSON{
		constants.SettingFieldSiteName: "Renamed Shop",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to overwrite, not create")
	}
	if setting.ValueJSON[constants.SettingFieldSiteName] != "Renamed Shop" {
		t.Fatalf("expected overwritten value, got %v", setting.ValueJSON)
	}

	if _, _, err := svc.UpsertSetting(0, "site_config", models.JSON{}); !errors.Is(err, ErrSettingInvalid) {
		t.Fatalf("expected ErrSettingInvalid for zero business, got %v", err)
	}
	if _, _, err := svc.UpsertSetting(1, "   ", models.JSON{}); !errors.Is(err, ErrSettingInvalid) {
		t.Fatalf("expected ErrSettingInvalid for blank key, got %v", err)
	}
	if _, _, err := svc.UpsertSetting(1, "theme", nil); !errors.Is(err, ErrSettingInvalid) {
		t.Fatalf("expected ErrSettingInvalid for nil value, got %v", err)
	}
}

func TestGetSettingScopedToBusiness(t *testing.T) {
	svc, _ := setupSettingServiceTest(t)

	if _, _, err := svc.UpsertSetting(1, "theme", models.JSON{"dark_mode": true}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	setting, err := svc.GetSetting(1, "THEME")
	if err != nil {
		t.Fatalf("get setting failed: %v", err)
	}
	if setting.ValueJSON["dark_mode"] != true {
		t.Fatalf("unexpected value: %v", setting.ValueJSON)
	}

	// 同 key 不同商家互不可见
	if _, err := svc.GetSetting(2, "theme"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound for other business, got %v", err)
	}

	value, err := svc.GetSettingValue(2, "theme")
	if err != nil {
		t.Fatalf("get setting value failed: %v", err)
	}
	if len(value) != 0 {
		t.Fatalf("expected empty value for missing setting, got %v", value)
	}
}

func TestListSettings(t *testing.T) {
	svc, _ := setupSettingServiceTest(t)

	for _, key := range []string{"theme", "site_config", "hours"} {
		if _, _, err := svc.UpsertSetting(1, key, models.JSON{"set": true}); err != nil {
			t.Fatalf("upsert %s failed: %v", key, err)
		}
	}
	if _, _, err := svc.UpsertSetting(2, "theme", models.JSON{"set": true}); err != nil {
		t.Fatalf("upsert other business failed: %v", err)
	}

	settings, err := svc.ListSettings(1)
	if err != nil {
		t.Fatalf("list settings failed: %v", err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(settings))
	}
	// 按 key 排序返回
	if settings[0].SettingsKey != "hours" || settings[2].SettingsKey != "theme" {
		t.Fatalf("unexpected order: %s .. %s", settings[0].SettingsKey, settings[2].SettingsKey)
	}
}

func TestDeleteSetting(t *testing.T) {
	svc, _ := setupSettingServiceTest(t)

	if _, _, err := svc.UpsertSetting(1, "theme", models.JSON{"set": true}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.DeleteSetting(1, "Theme"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteSetting(1, "theme"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound on second delete, got %v", err)
	}
	if _, err := svc.GetSetting(1, "theme"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected setting gone, got %v", err)
	}
}
