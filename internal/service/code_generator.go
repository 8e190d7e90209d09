package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Relapt23/Refferal-system/internal/repository"
)

// ErrCodeGeneration 连续碰撞导致无法生成唯一推荐码
var ErrCodeGeneration = errors.New("生成唯一推荐码失败")

const (
	referralCodeLength     = 10
	codeGenerationAttempts = 5
)

// generateReferralCode 生成一枚推荐码：
// 随机 UUID → base64url 编码 → 截取前 10 位 → 转大写
func generateReferralCode() string {
	uid := uuid.New()
	encoded := base64.URLEncoding.EncodeToString(uid[:])
	return strings.ToUpper(encoded[:referralCodeLength])
}

// generateUniqueCode 生成未被占用的推荐码，碰撞时有限次重新生成
func generateUniqueCode(ctx context.Context, repo repository.ReferralCodeRepository) (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code := generateReferralCode()
		exists, err := repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}
