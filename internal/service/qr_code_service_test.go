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

func setupQRCodeServiceTest(t *testing.T) (*QRCodeService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:qr_code_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Business{},
		&models.QRCode{},
		&models.QRScan{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewQRCodeService(repository.NewQRCodeRepository(db)), db
}

func TestCreateQRCode(t *testing.T) {
	svc, db := setupQRCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)

	qr, err := svc.CreateQRCode(business.ID, QRCodeInput{
		CodeType: constants.QRCodeTypeLoyalty,
		Name:     "Counter Sign",
		Content:  "Scan to join",
	})
	if err != nil {
		t.Fatalf("create qr code failed: %v", err)
	}
	if qr.Code == "" {
		t.Fatal("expected generated code value")
	}
	if !qr.IsActive {
		t.Fatal("expected qr code active by default")
	}

	if _, err := svc.CreateQRCode(business.ID, QRCodeInput{CodeType: constants.QRCodeTypeLoyalty}); !errors.Is(err, ErrQRCodeInvalid) {
		t.Fatalf("expected ErrQRCodeInvalid for blank name, got %v", err)
	}
	if _, err := svc.CreateQRCode(business.ID, QRCodeInput{CodeType: "barcode", Name: "Bad"}); !errors.Is(err, ErrQRCodeInvalid) {
		t.Fatalf("expected ErrQRCodeInvalid for unsupported type, got %v", err)
	}
}

func TestCreateQRCodeInactivePersists(t *testing.T) {
	svc, db := setupQRCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)

	inactive := false
	qr, err := svc.CreateQRCode(business.ID, QRCodeInput{
		CodeType: constants.QRCodeTypeLoyalty,
		Name:     "Draft Sign",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("create qr code failed: %v", err)
	}

	// 建档即停用的记录落库后必须仍是停用状态
	refreshed, err := svc.GetQRCode(qr.ID)
	if err != nil {
		t.Fatalf("reload qr code failed: %v", err)
	}
	if refreshed.IsActive {
		t.Fatal("expected inactive qr code persisted as inactive")
	}
}

func TestRecordScanCountsUniqueFingerprints(t *testing.T) {
	svc, db := setupQRCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	qr, err := svc.CreateQRCode(business.ID, QRCodeInput{
		CodeType: constants.QRCodeTypePromotion,
		Name:     "Poster",
	})
	if err != nil {
		t.Fatalf("create qr code failed: %v", err)
	}

	result, err := svc.RecordScan(qr.Code, "device-a")
	if err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	if !result.UniqueScan {
		t.Fatal("expected first fingerprint scan to be unique")
	}
	if result.QRCode.ScansCount != 1 || result.QRCode.UniqueScansCount != 1 {
		t.Fatalf("expected 1/1 counters, got %d/%d", result.QRCode.ScansCount, result.QRCode.UniqueScansCount)
	}

	// 同一指纹重复扫码只涨总数
	result, err = svc.RecordScan(qr.Code, "device-a")
	if err != nil {
		t.Fatalf("repeat scan failed: %v", err)
	}
	if result.UniqueScan {
		t.Fatal("expected repeat fingerprint to be non-unique")
	}
	if result.QRCode.ScansCount != 2 || result.QRCode.UniqueScansCount != 1 {
		t.Fatalf("expected 2/1 counters, got %d/%d", result.QRCode.ScansCount, result.QRCode.UniqueScansCount)
	}

	result, err = svc.RecordScan(qr.Code, "device-b")
	if err != nil {
		t.Fatalf("second device scan failed: %v", err)
	}
	if !result.UniqueScan {
		t.Fatal("expected new fingerprint to be unique")
	}
	if result.QRCode.ScansCount != 3 || result.QRCode.UniqueScansCount != 2 {
		t.Fatalf("expected 3/2 counters, got %d/%d", result.QRCode.ScansCount, result.QRCode.UniqueScansCount)
	}

	// 无指纹只计总数
	result, err = svc.RecordScan(qr.Code, "")
	if err != nil {
		t.Fatalf("anonymous scan failed: %v", err)
	}
	if result.UniqueScan {
		t.Fatal("expected anonymous scan to be non-unique")
	}
	if result.QRCode.ScansCount != 4 || result.QRCode.UniqueScansCount != 2 {
		t.Fatalf("expected 4/2 counters, got %d/%d", result.QRCode.ScansCount, result.QRCode.UniqueScansCount)
	}
}

func TestRecordScanInactiveAndMissing(t *testing.T) {
	svc, db := setupQRCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	qr, err := svc.CreateQRCode(business.ID, QRCodeInput{
		CodeType: constants.QRCodeTypeLoyalty,
		Name:     "Retired Sign",
	})
	if err != nil {
		t.Fatalf("create qr code failed: %v", err)
	}
	inactive := false
	if _, err := svc.UpdateQRCode(qr.ID, business.ID, QRCodeInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate qr code failed: %v", err)
	}

	if _, err := svc.RecordScan(qr.Code, "device-a"); !errors.Is(err, ErrQRCodeInactive) {
		t.Fatalf("expected ErrQRCodeInactive, got %v", err)
	}
	if _, err := svc.RecordScan("no-such-code", "device-a"); !errors.Is(err, ErrQRCodeNotFound) {
		t.Fatalf("expected ErrQRCodeNotFound, got %v", err)
	}
	if _, err := svc.RecordScan("   ", "device-a"); !errors.Is(err, ErrQRCodeInvalid) {
		t.Fatalf("expected ErrQRCodeInvalid for blank code, got %v", err)
	}
}

func TestUpdateQRCodeScopedToBusiness(t *testing.T) {
	svc, db := setupQRCodeServiceTest(t)
	business := createTestBusiness(t, db, 1)
	other := createTestBusiness(t, db, 2)
	qr, err := svc.CreateQRCode(business.ID, QRCodeInput{
		CodeType: constants.QRCodeTypeLoyalty,
		Name:     "Sign",
	})
	if err != nil {
		t.Fatalf("create qr code failed: %v", err)
	}

	if _, err := svc.UpdateQRCode(qr.ID, other.ID, QRCodeInput{Name: "Hijacked"}); !errors.Is(err, ErrQRCodeNotFound) {
		t.Fatalf("expected ErrQRCodeNotFound for foreign business, got %v", err)
	}
	if err := svc.DeleteQRCode(qr.ID, other.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Fatalf("expected ErrQRCodeNotFound on foreign delete, got %v", err)
	}

	if err := svc.DeleteQRCode(qr.ID, business.ID); err != nil {
		t.Fatalf("delete qr code failed: %v", err)
	}
	if _, err := svc.GetQRCode(qr.ID); !errors.Is(err, ErrQRCodeNotFound) {
		t.Fatalf("expected ErrQRCodeNotFound after delete, got %v", err)
	}
}
