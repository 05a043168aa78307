package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"

	"github.com/google/uuid"
)

// QRCodeService 二维码服务
type QRCodeService struct {
	repo repository.QRCodeRepository
}

// NewQRCodeService 创建二维码服务
func NewQRCodeService(repo repository.QRCodeRepository) *QRCodeService {
	return &QRCodeService{repo: repo}
}

// QRCodeInput 二维码创建/更新输入
type QRCodeInput struct {
	CodeType string
	Name     string
	Content  string
	LinkURL  string
	IsActive *bool
}

// ScanResult 扫码结果
type ScanResult struct {
	QRCode     *models.QRCode `json:"qr_code"`
	UniqueScan bool           `json:"unique_scan"`
}

// GetQRCode 获取二维码
func (s *QRCodeService) GetQRCode(id uint) (*models.QRCode, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrQRCodeInvalid
	}
	qr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrQRCodeFetchFailed
	}
	if qr == nil {
		return nil, ErrQRCodeNotFound
	}
	return qr, nil
}

// CreateQRCode 创建二维码
func (s *QRCodeService) CreateQRCode(businessID uint, input QRCodeInput) (*models.QRCode, error) {
	if s == nil || s.repo == nil || businessID == 0 {
		return nil, ErrQRCodeInvalid
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrQRCodeInvalid
	}
	codeType := strings.TrimSpace(strings.ToLower(input.CodeType))
	if !isQRCodeTypeSupported(codeType) {
		return nil, ErrQRCodeInvalid
	}

	now := time.Now()
	qr := &models.QRCode{
		BusinessID: businessID,
		Code:       uuid.NewString(),
		CodeType:   codeType,
		Name:       name,
		Content:    strings.TrimSpace(input.Content),
		LinkURL:    strings.TrimSpace(input.LinkURL),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.IsActive != nil {
		qr.IsActive = *input.IsActive
	}
	if err := s.repo.Create(qr); err != nil {
		return nil, ErrQRCodeCreateFailed
	}
	return qr, nil
}

// UpdateQRCode 更新二维码
func (s *QRCodeService) UpdateQRCode(id uint, businessID uint, input QRCodeInput) (*models.QRCode, error) {
	if s == nil || s.repo == nil || id == 0 {
		return nil, ErrQRCodeInvalid
	}
	qr, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrQRCodeFetchFailed
	}
	if qr == nil {
		return nil, ErrQRCodeNotFound
	}
	if businessID > 0 && qr.BusinessID != businessID {
		return nil, ErrQRCodeNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		qr.Name = name
	}
	if codeType := strings.TrimSpace(strings.ToLower(input.CodeType)); codeType != "" {
		if !isQRCodeTypeSupported(codeType) {
			return nil, ErrQRCodeInvalid
		}
		qr.CodeType = codeType
	}
	if content := strings.TrimSpace(input.Content); content != "" {
		qr.Content = content
	}
	if linkURL := strings.TrimSpace(input.LinkURL); linkURL != "" {
		qr.LinkURL = linkURL
	}
	if input.IsActive != nil {
		qr.IsActive = *input.IsActive
	}
	qr.UpdatedAt = time.Now()
	if err := s.repo.Update(qr); err != nil {
		return nil, ErrQRCodeUpdateFailed
	}
	return qr, nil
}

// DeleteQRCode 删除二维码
func (s *QRCodeService) DeleteQRCode(id uint, businessID uint) error {
	if s == nil || s.repo == nil || id == 0 {
		return ErrQRCodeInvalid
	}
	qr, err := s.repo.GetByID(id)
	if err != nil {
		return ErrQRCodeFetchFailed
	}
	if qr == nil {
		return ErrQRCodeNotFound
	}
	if businessID > 0 && qr.BusinessID != businessID {
		return ErrQRCodeNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return ErrQRCodeDeleteFailed
	}
	return nil
}

// ListQRCodes 获取二维码列表
func (s *QRCodeService) ListQRCodes(filter repository.QRCodeListFilter) ([]models.QRCode, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrQRCodeFetchFailed
	}
	qrCodes, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrQRCodeFetchFailed
	}
	return qrCodes, total, nil
}

// RecordScan 记录扫码
// 总计数恒加一；同一指纹只计入一次独立扫码（唯一索引去重）。
func (s *QRCodeService) RecordScan(code, fingerprint string) (*ScanResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrQRCodeFetchFailed
	}
	normalized := strings.TrimSpace(code)
	if normalized == "" {
		return nil, ErrQRCodeInvalid
	}
	qr, err := s.repo.GetByCode(normalized)
	if err != nil {
		return nil, ErrQRCodeFetchFailed
	}
	if qr == nil {
		return nil, ErrQRCodeNotFound
	}
	if !qr.IsActive {
		return nil, ErrQRCodeInactive
	}

	unique := false
	fp := normalizeFingerprint(fingerprint)
	if fp != "" {
		inserted, insertErr := s.repo.InsertScan(&models.QRScan{
			QRCodeID:    qr.ID,
			Fingerprint: fp,
			ScannedAt:   time.Now(),
		})
		if insertErr != nil {
			return nil, ErrQRCodeUpdateFailed
		}
		unique = inserted
	}

	if err := s.repo.IncrementScans(qr.ID, unique); err != nil {
		return nil, ErrQRCodeUpdateFailed
	}

	qr, err = s.repo.GetByID(qr.ID)
	if err != nil || qr == nil {
		return nil, ErrQRCodeFetchFailed
	}
	return &ScanResult{QRCode: qr, UniqueScan: unique}, nil
}

// normalizeFingerprint 指纹统一哈希后入库，避免存储原始客户端标识
func normalizeFingerprint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}

func isQRCodeTypeSupported(codeType string) bool {
	switch codeType {
	case constants.QRCodeTypeLoyalty,
		constants.QRCodeTypeProduct,
		constants.QRCodeTypePromotion,
		constants.QRCodeTypePayment:
		return true
	default:
		return false
	}
}
