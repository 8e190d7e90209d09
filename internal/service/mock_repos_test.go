package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Relapt23/Refferal-system/internal/model"
	"github.com/Relapt23/Refferal-system/internal/repository"
	"github.com/Relapt23/Refferal-system/pkg/redis"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	byEmail map[string]*model.User
	byID    map[string]*model.User
	seq     int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.byEmail[user.Email] = user
	m.byID[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ReferralCodeRepository ──

type mockReferralCodeRepo struct {
	codes []*model.ReferralCode
	seq   int

	// forceCollisions 使前 N 次 CodeExists 返回 true，用于碰撞重试测试
	forceCollisions int
	// unscopedCalls 记录回源查询次数，用于 cache-aside 测试
	unscopedCalls int
}

func newMockReferralCodeRepo() *mockReferralCodeRepo {
	return &mockReferralCodeRepo{}
}

func (m *mockReferralCodeRepo) Create(_ context.Context, code *model.ReferralCode) error {
	m.seq++
	if code.ReferralCodeID == "" {
		code.ReferralCodeID = fmt.Sprintf("code-%d", m.seq)
	}
	// 用序号推进 CreatedAt，保证"最新"排序稳定
	code.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.codes = append(m.codes, code)
	return nil
}

func (m *mockReferralCodeRepo) GetActiveByReferrer(_ context.Context, referrerID string) (*model.ReferralCode, error) {
	for i := len(m.codes) - 1; i >= 0; i-- {
		c := m.codes[i]
		if c.ReferrerID == referrerID && !c.DeletedAt.Valid {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferralCodeRepo) GetLatestByReferrerUnscoped(_ context.Context, referrerID string) (*model.ReferralCode, error) {
	m.unscopedCalls++
	for i := len(m.codes) - 1; i >= 0; i-- {
		if m.codes[i].ReferrerID == referrerID {
			return m.codes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferralCodeRepo) GetLatestByCode(_ context.Context, code string) (*model.ReferralCode, error) {
	for i := len(m.codes) - 1; i >= 0; i-- {
		c := m.codes[i]
		if c.Code == code && !c.DeletedAt.Valid {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferralCodeRepo) CodeExists(_ context.Context, code string) (bool, error) {
	if m.forceCollisions > 0 {
		m.forceCollisions--
		return true, nil
	}
	for _, c := range m.codes {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReferralCodeRepo) SoftDelete(_ context.Context, referralCodeID string) error {
	for _, c := range m.codes {
		if c.ReferralCodeID == referralCodeID {
			c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock InvitedUserRepository ──

type mockInvitedUserRepo struct {
	records []*model.InvitedUser
	// hunterData 模拟联表 users 带出的被邀请人校验数据（key: email）
	hunterData map[string]model.JSONMap
	seq        int
}

func newMockInvitedUserRepo() *mockInvitedUserRepo {
	return &mockInvitedUserRepo{hunterData: make(map[string]model.JSONMap)}
}

func (m *mockInvitedUserRepo) Create(_ context.Context, invited *model.InvitedUser) error {
	m.seq++
	if invited.InvitedUserID == "" {
		invited.InvitedUserID = fmt.Sprintf("invited-%d", m.seq)
	}
	m.records = append(m.records, invited)
	return nil
}

func (m *mockInvitedUserRepo) ListByReferrer(_ context.Context, referrerID string) ([]repository.InvitedUserRow, error) {
	var rows []repository.InvitedUserRow
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.ReferrerID == referrerID {
			rows = append(rows, repository.InvitedUserRow{
				Email:        r.Email,
				ReferralCode: r.ReferralCode,
				HunterInfo:   m.hunterData[r.Email],
			})
		}
	}
	return rows, nil
}

// ── Mock CodeCache ──

type mockCodeCache struct {
	entries map[string]*redis.CachedCode
	gets    int
	sets    int
	deletes int
}

func newMockCodeCache() *mockCodeCache {
	return &mockCodeCache{entries: make(map[string]*redis.CachedCode)}
}

func (m *mockCodeCache) GetReferralCode(_ context.Context, email string) (*redis.CachedCode, error) {
	m.gets++
	if e, ok := m.entries[email]; ok {
		return e, nil
	}
	return nil, nil
}

func (m *mockCodeCache) SetReferralCode(_ context.Context, email string, cached *redis.CachedCode) error {
	m.sets++
	m.entries[email] = cached
	return nil
}

func (m *mockCodeCache) DeleteReferralCode(_ context.Context, email string) error {
	m.deletes++
	delete(m.entries, email)
	return nil
}

// ── Mock EmailVerifier ──

type mockVerifier struct {
	data model.JSONMap
}

func (m *mockVerifier) VerifyEmail(_ context.Context, _ string) model.JSONMap {
	if m.data == nil {
		return model.JSONMap{}
	}
	return m.data
}
