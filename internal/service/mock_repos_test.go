package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"classroom-portal/internal/model"
	"classroom-portal/internal/repository"
	pkgerrors "classroom-portal/pkg/errors"
)

// ── 测试仓储聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	users        *mockUserRepo
	classrooms   *mockClassroomRepo
	courses      *mockCourseRepo
	groups       *mockGroupRepo
	schedules    *mockScheduleRepo
	reservations *mockReservationRepo
	meetings     *mockMeetingRepo
	locker       *mockLocker
	txCount      int
	rollbacks    int
}

func newTestRepos() *testRepos {
	return &testRepos{
		users:        newMockUserRepo(),
		classrooms:   newMockClassroomRepo(),
		courses:      newMockCourseRepo(),
		groups:       newMockGroupRepo(),
		schedules:    newMockScheduleRepo(),
		reservations: newMockReservationRepo(),
		meetings:     newMockMeetingRepo(),
		locker:       &mockLocker{},
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:        r.users,
		Classroom:   r.classrooms,
		Course:      r.courses,
		Group:       r.groups,
		Schedule:    r.schedules,
		Reservation: r.reservations,
		Meeting:     r.meetings,
		Locker:      r.locker,
		Tx:          &mockTxManager{owner: r},
	}
}

// ── Mock TxManager ──
// fn 返回错误时恢复进入事务前的快照，模拟数据库回滚

type mockTxManager struct {
	owner *testRepos
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx *repository.Repository) error) error {
	m.owner.txCount++
	schedules := m.owner.schedules.snapshot()
	reservations := m.owner.reservations.snapshot()
	meetings := m.owner.meetings.snapshot()

	if err := fn(ctx, m.owner.toRepository()); err != nil {
		m.owner.rollbacks++
		m.owner.schedules.items = schedules
		m.owner.reservations.items = reservations
		m.owner.meetings.items = meetings
		return err
	}
	return nil
}

// ── Mock Locker ──

type mockLocker struct {
	keys []string
	err  error
}

func (m *mockLocker) Lock(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	rooms     map[string]*model.Classroom
	deleteErr error
	// 由测试直接设置的引用计数
	scheduleRefs    map[string]int64
	reservationRefs map[string]int64
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{
		rooms:           make(map[string]*model.Classroom),
		scheduleRefs:    make(map[string]int64),
		reservationRefs: make(map[string]int64),
	}
}

func (m *mockClassroomRepo) Create(_ context.Context, room *model.Classroom) error {
	for _, r := range m.rooms {
		if r.Name == room.Name {
			return fmt.Errorf("insert: %w", errUniqueViolation)
		}
	}
	if room.ClassroomID == "" {
		room.ClassroomID = "room-" + room.Name
	}
	m.rooms[room.ClassroomID] = room
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if r, ok := m.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) List(_ context.Context, roomType model.ClassroomType) ([]model.Classroom, error) {
	var result []model.Classroom
	for _, r := range m.rooms {
		if roomType != "" && r.Type != roomType {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockClassroomRepo) Update(_ context.Context, room *model.Classroom) error {
	m.rooms[room.ClassroomID] = room
	return nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *mockClassroomRepo) CountReferences(_ context.Context, id string) (int64, int64, error) {
	return m.scheduleRefs[id], m.reservationRefs[id], nil
}

// ── Mock Course / Group Repository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockGroupRepo struct {
	groups map[string]*model.StudentGroup
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.StudentGroup)}
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.StudentGroup, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	items map[string]model.RecurringSchedule
	seq   int
	// refs 供 ListBy* 预加载使用
	refs *testRepos
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{items: make(map[string]model.RecurringSchedule)}
}

func (m *mockScheduleRepo) snapshot() map[string]model.RecurringSchedule {
	cp := make(map[string]model.RecurringSchedule, len(m.items))
	for k, v := range m.items {
		cp[k] = v
	}
	return cp
}

func (m *mockScheduleRepo) Create(_ context.Context, s *model.RecurringSchedule) error {
	if s.ScheduleID == "" {
		m.seq++
		s.ScheduleID = fmt.Sprintf("sch-%d", m.seq)
	}
	m.items[s.ScheduleID] = *s
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.RecurringSchedule, error) {
	if s, ok := m.items[id]; ok {
		return &s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Update(_ context.Context, s *model.RecurringSchedule) error {
	if _, ok := m.items[s.ScheduleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.items[s.ScheduleID] = *s
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockScheduleRepo) filter(keep func(model.RecurringSchedule) bool) []model.RecurringSchedule {
	var result []model.RecurringSchedule
	for _, s := range m.items {
		if keep(s) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result
}

func (m *mockScheduleRepo) ListByClassroomAndDay(_ context.Context, classroomID string, day int) ([]model.RecurringSchedule, error) {
	return m.filter(func(s model.RecurringSchedule) bool {
		return s.ClassroomID == classroomID && s.DayOfWeek == day
	}), nil
}

func (m *mockScheduleRepo) ListByTeacherAndDay(_ context.Context, teacherID string, day int) ([]model.RecurringSchedule, error) {
	return m.filter(func(s model.RecurringSchedule) bool {
		return s.TeacherID == teacherID && s.DayOfWeek == day
	}), nil
}

func (m *mockScheduleRepo) ListByGroup(_ context.Context, groupID string) ([]model.RecurringSchedule, error) {
	return m.withRefs(m.filter(func(s model.RecurringSchedule) bool { return s.GroupID == groupID })), nil
}

func (m *mockScheduleRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.RecurringSchedule, error) {
	return m.withRefs(m.filter(func(s model.RecurringSchedule) bool { return s.TeacherID == teacherID })), nil
}

func (m *mockScheduleRepo) ListByClassroom(_ context.Context, classroomID string) ([]model.RecurringSchedule, error) {
	return m.withRefs(m.filter(func(s model.RecurringSchedule) bool { return s.ClassroomID == classroomID })), nil
}

func (m *mockScheduleRepo) withRefs(list []model.RecurringSchedule) []model.RecurringSchedule {
	if m.refs == nil {
		return list
	}
	for i := range list {
		list[i].Classroom = m.refs.classrooms.rooms[list[i].ClassroomID]
		list[i].Course = m.refs.courses.courses[list[i].CourseID]
		list[i].Teacher = m.refs.users.users[list[i].TeacherID]
		list[i].Group = m.refs.groups.groups[list[i].GroupID]
	}
	return list
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	items map[string]model.Reservation
	seq   int
	// transitionErr 指定某条预约的状态写入失败，用于验证回滚
	transitionErr map[string]error
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{
		items:         make(map[string]model.Reservation),
		transitionErr: make(map[string]error),
	}
}

func (m *mockReservationRepo) snapshot() map[string]model.Reservation {
	cp := make(map[string]model.Reservation, len(m.items))
	for k, v := range m.items {
		cp[k] = v
	}
	return cp
}

func (m *mockReservationRepo) Create(_ context.Context, r *model.Reservation) error {
	if r.ReservationID == "" {
		m.seq++
		r.ReservationID = fmt.Sprintf("res-%d", m.seq)
	}
	m.items[r.ReservationID] = *r
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	if r, ok := m.items[id]; ok {
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) List(_ context.Context, f repository.ReservationFilter) ([]model.Reservation, int64, error) {
	var all []model.Reservation
	for _, r := range m.items {
		if f.ClassroomID != "" && r.ClassroomID != f.ClassroomID {
			continue
		}
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Date != nil && !sameDay(r.Date(), *f.Date) {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ReservationID < all[j].ReservationID })
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func (m *mockReservationRepo) byClassroomAndDate(classroomID string, date time.Time, statuses ...model.RequestStatus) []model.Reservation {
	var result []model.Reservation
	for _, r := range m.items {
		if r.ClassroomID != classroomID || !sameDay(r.Date(), date) {
			continue
		}
		for _, st := range statuses {
			if r.Status == st {
				result = append(result, r)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ReservationID < result[j].ReservationID
	})
	return result
}

func (m *mockReservationRepo) ListActiveByClassroomAndDate(_ context.Context, classroomID string, date time.Time) ([]model.Reservation, error) {
	return m.byClassroomAndDate(classroomID, date, model.StatusPending, model.StatusApproved), nil
}

func (m *mockReservationRepo) ListPendingByClassroomAndDate(_ context.Context, classroomID string, date time.Time) ([]model.Reservation, error) {
	return m.byClassroomAndDate(classroomID, date, model.StatusPending), nil
}

func (m *mockReservationRepo) ListApprovedByClassroomBetween(_ context.Context, classroomID string, from, to time.Time) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.items {
		d := r.Date().Format(dateLayout)
		if r.ClassroomID == classroomID && r.Status == model.StatusApproved &&
			d >= from.Format(dateLayout) && d <= to.Format(dateLayout) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) TransitionStatus(_ context.Context, id string, from, to model.RequestStatus, d model.DecisionModel) error {
	if err := m.transitionErr[id]; err != nil {
		return err
	}
	r, ok := m.items[id]
	if !ok || r.Status != from {
		return pkgerrors.ErrStaleState
	}
	r.Status = to
	r.DecisionModel = d
	m.items[id] = r
	return nil
}

// ── Mock MeetingRepository ──

type mockMeetingRepo struct {
	items map[string]model.TeacherMeetingRequest
	seq   int
}

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{items: make(map[string]model.TeacherMeetingRequest)}
}

func (m *mockMeetingRepo) snapshot() map[string]model.TeacherMeetingRequest {
	cp := make(map[string]model.TeacherMeetingRequest, len(m.items))
	for k, v := range m.items {
		cp[k] = v
	}
	return cp
}

func (m *mockMeetingRepo) Create(_ context.Context, mt *model.TeacherMeetingRequest) error {
	if mt.MeetingID == "" {
		m.seq++
		mt.MeetingID = fmt.Sprintf("mtg-%d", m.seq)
	}
	m.items[mt.MeetingID] = *mt
	return nil
}

func (m *mockMeetingRepo) GetByID(_ context.Context, id string) (*model.TeacherMeetingRequest, error) {
	if mt, ok := m.items[id]; ok {
		return &mt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMeetingRepo) List(_ context.Context, f repository.MeetingFilter) ([]model.TeacherMeetingRequest, int64, error) {
	var all []model.TeacherMeetingRequest
	for _, mt := range m.items {
		if f.TeacherID != "" && mt.TeacherID != f.TeacherID {
			continue
		}
		if f.StudentID != "" && mt.StudentID != f.StudentID {
			continue
		}
		if f.Status != "" && mt.Status != f.Status {
			continue
		}
		all = append(all, mt)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MeetingID < all[j].MeetingID })
	return all, int64(len(all)), nil
}

func (m *mockMeetingRepo) ListApprovedByTeacherAndDate(_ context.Context, teacherID string, date time.Time) ([]model.TeacherMeetingRequest, error) {
	var result []model.TeacherMeetingRequest
	for _, mt := range m.items {
		if mt.TeacherID == teacherID && mt.Status == model.StatusApproved && sameDay(mt.Date(), date) {
			result = append(result, mt)
		}
	}
	return result, nil
}

func (m *mockMeetingRepo) ListApprovedByTeacherFrom(_ context.Context, teacherID string, from time.Time) ([]model.TeacherMeetingRequest, error) {
	var result []model.TeacherMeetingRequest
	for _, mt := range m.items {
		if mt.TeacherID == teacherID && mt.Status == model.StatusApproved &&
			mt.Date().Format(dateLayout) >= from.Format(dateLayout) {
			result = append(result, mt)
		}
	}
	return result, nil
}

func (m *mockMeetingRepo) TransitionStatus(_ context.Context, id string, from, to model.RequestStatus, d model.DecisionModel) error {
	mt, ok := m.items[id]
	if !ok || mt.Status != from {
		return pkgerrors.ErrStaleState
	}
	mt.Status = to
	mt.DecisionModel = d
	m.items[id] = mt
	return nil
}

// ── 通用辅助 ──

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}
