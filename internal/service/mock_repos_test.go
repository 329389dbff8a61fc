package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-planner/config"
	"course-planner/internal/model"
	"course-planner/internal/recordio"
	"course-planner/internal/repository"
)

// ── Mock SavedScheduleRepository ──

type mockSavedScheduleRepo struct {
	items   map[string]*model.SavedSchedule
	seq     int
	failErr error
}

func newMockSavedScheduleRepo() *mockSavedScheduleRepo {
	return &mockSavedScheduleRepo{items: make(map[string]*model.SavedSchedule)}
}

func (m *mockSavedScheduleRepo) Create(_ context.Context, s *model.SavedSchedule) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.seq++
	if s.SavedScheduleID == "" {
		s.SavedScheduleID = fmt.Sprintf("archive-%d", m.seq)
	}
	s.CreatedAt = time.Date(2026, 9, 1, 0, 0, m.seq, 0, time.UTC)
	m.items[s.SavedScheduleID] = s
	return nil
}

func (m *mockSavedScheduleRepo) GetByID(_ context.Context, id string) (*model.SavedSchedule, error) {
	if s, ok := m.items[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSavedScheduleRepo) List(_ context.Context, limit int) ([]model.SavedSchedule, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var result []model.SavedSchedule
	for _, s := range m.items {
		cp := *s
		cp.Records = ""
		cp.Items = ""
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockSavedScheduleRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

// ── Mock SnapshotStore ──

// 与 Redis 实现一致，快照以 JSON 字节保存
type mockSnapshotStore struct {
	mu      sync.Mutex
	snaps   map[string][]byte
	saveErr error
	saves   int
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{snaps: make(map[string][]byte)}
}

func (m *mockSnapshotStore) SaveSnapshot(_ context.Context, id string, snap any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.saves++
	m.snaps[id] = data
	return nil
}

func (m *mockSnapshotStore) LoadSnapshot(_ context.Context, id string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.snaps[id]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (m *mockSnapshotStore) DeleteSnapshot(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

// get 解码已保存的快照，不存在时返回 nil
func (m *mockSnapshotStore) get(t *testing.T, id string) *sessionSnapshot {
	t.Helper()
	var snap sessionSnapshot
	found, err := m.LoadSnapshot(context.Background(), id, &snap)
	if err != nil {
		t.Fatalf("解码快照失败: %v", err)
	}
	if !found {
		return nil
	}
	return &snap
}

var errMockDB = errors.New("mock db error")

// ── 测试辅助 ──

const testCatalog = `CSC 116,Intro to Programming - Java,001,3,jdyoung2,MW,910,1100
CSC 116,Intro to Programming - Java,002,3,spbalik,MW,1120,1310
CSC 216,Software Development Fundamentals,001,3,sesmith5,TH,1330,1445
CSC 216,Software Development Fundamentals,601,3,jep,A
CSC 226,Discrete Mathematics for Computer Scientists,001,3,tmbarnes,MWF,935,1025
CSC 230,C and Software Tools,001,3,dbsturgi,MW,1145,1300`

func testCourses(t *testing.T) []*model.Course {
	t.Helper()
	result, err := recordio.ReadCourseRecords(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("读取测试目录失败: %v", err)
	}
	return result.Courses
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{IdleTTL: time.Hour},
		Export:  config.ExportConfig{TermStart: "2026-08-17", TermWeeks: 16, Timezone: "UTC"},
	}
}

type testDeps struct {
	svc       *Service
	archives  *mockSavedScheduleRepo
	snapshots *mockSnapshotStore
}

func setupTestService(t *testing.T) *testDeps {
	t.Helper()
	archives := newMockSavedScheduleRepo()
	snapshots := newMockSnapshotStore()
	repo := &repository.Repository{SavedSchedule: archives}
	svc := NewService(testConfig(), testCourses(t), repo, snapshots, zap.NewNop())
	return &testDeps{svc: svc, archives: archives, snapshots: snapshots}
}

func newSession(t *testing.T, svc *Service) string {
	t.Helper()
	sess, err := svc.Schedule.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}
	return sess.SessionID
}

func strPtr(s string) *string { return &s }
