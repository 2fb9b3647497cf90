package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"lesson-booking/internal/availability"
	"lesson-booking/internal/domain/entity"
	"lesson-booking/internal/domain/repository"
	"lesson-booking/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[uuid.UUID]*entity.Provider
}

func newFakeProviderRepo(providers ...*entity.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: map[uuid.UUID]*entity.Provider{}}
	for _, p := range providers {
		r.providers[p.ID] = p
	}
	return r
}

func (r *fakeProviderRepo) Create(_ context.Context, p *entity.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.providers[p.ID] = &cp
	return nil
}

func (r *fakeProviderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProviderRepo) FindByEmail(_ context.Context, email string) (*entity.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProviderRepo) Update(_ context.Context, p *entity.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.providers[p.ID] = &cp
	return nil
}

func (r *fakeProviderRepo) UpdateCalendarToken(_ context.Context, id uuid.UUID, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[id].GoogleRefreshToken = token
	return nil
}

type fakeWeeklyRepo struct {
	rows  []entity.WeeklyAvailability
	calls int
}

func (r *fakeWeeklyRepo) FindByProvider(_ context.Context, providerID uuid.UUID) ([]entity.WeeklyAvailability, error) {
	r.calls++
	var out []entity.WeeklyAvailability
	for _, row := range r.rows {
		if row.ProviderID == providerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (r *fakeWeeklyRepo) FindByProviderAndDay(_ context.Context, providerID uuid.UUID, day int) (*entity.WeeklyAvailability, error) {
	for i := range r.rows {
		if r.rows[i].ProviderID == providerID && r.rows[i].DayOfWeek == day {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeWeeklyRepo) UpsertMany(_ context.Context, providerID uuid.UUID, rows []entity.WeeklyAvailability) error {
	for _, row := range rows {
		replaced := false
		for i := range r.rows {
			if r.rows[i].ProviderID == providerID && r.rows[i].DayOfWeek == row.DayOfWeek {
				r.rows[i].StartTime, r.rows[i].EndTime, r.rows[i].IsActive = row.StartTime, row.EndTime, row.IsActive
				replaced = true
			}
		}
		if !replaced {
			row.ID = len(r.rows) + 1
			r.rows = append(r.rows, row)
		}
	}
	return nil
}

type fakeOverrideRepo struct {
	rows       []entity.DateOverride
	rangeCalls int
}

func (r *fakeOverrideRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.DateOverride, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			o := r.rows[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *fakeOverrideRepo) FindByProviderAndDate(_ context.Context, providerID uuid.UUID, date string) (*entity.DateOverride, error) {
	for i := range r.rows {
		if r.rows[i].ProviderID == providerID && r.rows[i].Date == date {
			o := r.rows[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *fakeOverrideRepo) FindInRange(_ context.Context, providerID uuid.UUID, from, to string) ([]entity.DateOverride, error) {
	r.rangeCalls++
	var out []entity.DateOverride
	for _, o := range r.rows {
		if o.ProviderID == providerID && o.Date >= from && o.Date <= to {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOverrideRepo) FindUpcoming(ctx context.Context, providerID uuid.UUID, from string) ([]entity.DateOverride, error) {
	return r.FindInRange(ctx, providerID, from, "9999-12-31")
}

func (r *fakeOverrideRepo) Upsert(_ context.Context, o *entity.DateOverride) error {
	for i := range r.rows {
		if r.rows[i].ProviderID == o.ProviderID && r.rows[i].Date == o.Date {
			o.ID = r.rows[i].ID
			r.rows[i] = *o
			return nil
		}
	}
	o.ID = uuid.New()
	r.rows = append(r.rows, *o)
	return nil
}

func (r *fakeOverrideRepo) Delete(_ context.Context, providerID, id uuid.UUID) (int64, error) {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].ProviderID == providerID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeLessonTypeRepo struct {
	rows []entity.LessonType
}

func (r *fakeLessonTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.LessonType, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			lt := r.rows[i]
			return &lt, nil
		}
	}
	return nil, nil
}

func (r *fakeLessonTypeRepo) FindByProvider(_ context.Context, providerID uuid.UUID, activeOnly bool) ([]entity.LessonType, error) {
	var out []entity.LessonType
	for _, lt := range r.rows {
		if lt.ProviderID == providerID && (!activeOnly || lt.IsActive) {
			out = append(out, lt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationMinutes < out[j].DurationMinutes })
	return out, nil
}

func (r *fakeLessonTypeRepo) FindActiveByDuration(_ context.Context, providerID uuid.UUID, duration int) (*entity.LessonType, error) {
	for i := range r.rows {
		lt := r.rows[i]
		if lt.ProviderID == providerID && lt.DurationMinutes == duration && lt.IsActive {
			return &lt, nil
		}
	}
	return nil, nil
}

func (r *fakeLessonTypeRepo) UpsertMany(_ context.Context, providerID uuid.UUID, lessonTypes []entity.LessonType) error {
	for _, in := range lessonTypes {
		replaced := false
		for i := range r.rows {
			if r.rows[i].ProviderID == providerID && r.rows[i].DurationMinutes == in.DurationMinutes {
				r.rows[i].Price, r.rows[i].Currency, r.rows[i].IsActive = in.Price, in.Currency, in.IsActive
				replaced = true
			}
		}
		if !replaced {
			in.ID = uuid.New()
			r.rows = append(r.rows, in)
		}
	}
	return nil
}

// fakeBookingRepo serializes CreateIfAvailable the way the advisory lock does.
type fakeBookingRepo struct {
	mu           sync.Mutex
	bookings     []entity.Booking
	providers    *fakeProviderRepo
	overlapCalls int
	// insertCalls counts CreateIfAvailable invocations.
	insertCalls int
	// beforeLock runs on entry to CreateIfAvailable, outside the critical section.
	beforeLock func()
	// insertErr is returned by CreateIfAvailable instead of inserting.
	insertErr error
}

func (r *fakeBookingRepo) CreateIfAvailable(_ context.Context, b *entity.Booking, buffer time.Duration) error {
	if r.beforeLock != nil {
		r.beforeLock()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, existing := range r.bookings {
		if existing.ProviderID != b.ProviderID || !existing.IsConfirmed() {
			continue
		}
		if availability.Overlaps(b.StartTime.Add(-buffer), b.EndTime.Add(buffer), availability.Interval{Start: existing.StartTime, End: existing.EndTime}) {
			return repository.ErrBookingConflict
		}
	}
	b.ID = uuid.New()
	b.Status = entity.BookingStatusConfirmed
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *fakeBookingRepo) withProvider(b entity.Booking) *entity.Booking {
	if r.providers != nil {
		if p, _ := r.providers.FindByID(context.Background(), b.ProviderID); p != nil {
			b.Provider = *p
		}
	}
	return &b
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return r.withProvider(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByToken(_ context.Context, token string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ManagementToken == token {
			return r.withProvider(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindConfirmedOverlapping(_ context.Context, providerID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlapCalls++
	var out []entity.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.IsConfirmed() && b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByFilter(_ context.Context, f repository.BookingFilter) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Booking
	for _, b := range r.bookings {
		if b.ProviderID != f.ProviderID || b.StartTime.Before(f.From) || b.StartTime.After(f.To) {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.EndedBefore != nil && !b.EndTime.Before(*f.EndedBefore) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id && r.bookings[i].IsConfirmed() {
			r.bookings[i].Cancel(at)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeBookingRepo) SetCalendarEvent(_ context.Context, id uuid.UUID, eventID, meetLink *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].CalendarEventID = eventID
			r.bookings[i].MeetLink = meetLink
		}
	}
	return nil
}

func flagOf(b *entity.Booking, flag entity.NotificationFlag) *bool {
	switch flag {
	case entity.FlagReminder24h:
		return &b.Reminder24hSent
	case entity.FlagReminder1h:
		return &b.Reminder1hSent
	default:
		return &b.PostSessionSent
	}
}

func (r *fakeBookingRepo) FindDueStartingBetween(_ context.Context, flag entity.NotificationFlag, from, to time.Time) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Booking
	for i := range r.bookings {
		b := &r.bookings[i]
		if b.IsConfirmed() && !*flagOf(b, flag) && !b.StartTime.Before(from) && !b.StartTime.After(to) {
			out = append(out, *r.withProvider(*b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindDueEndedBefore(_ context.Context, flag entity.NotificationFlag, before time.Time) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Booking
	for i := range r.bookings {
		b := &r.bookings[i]
		if b.IsConfirmed() && !*flagOf(b, flag) && b.EndTime.Before(before) {
			out = append(out, *r.withProvider(*b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) MarkNotificationSent(_ context.Context, id uuid.UUID, flag entity.NotificationFlag) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			f := flagOf(&r.bookings[i], flag)
			if *f {
				return 0, nil
			}
			*f = true
			return 1, nil
		}
	}
	return 0, nil
}

type busyCall struct {
	From, To time.Time
}

type fakeCalendar struct {
	mu        sync.Mutex
	busy      []entity.BusyRange
	failed    map[string]string
	err       error
	busyCalls []busyCall
	created   []entity.CalendarEvent
	deleted   []string
	createErr error
	grant     *entity.TokenGrant
}

func (c *fakeCalendar) BusyRanges(_ context.Context, _ *entity.Provider, from, to time.Time) (entity.BusyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busyCalls = append(c.busyCalls, busyCall{From: from, To: to})
	if c.err != nil {
		return entity.BusyResult{}, c.err
	}
	return entity.BusyResult{Busy: c.busy, Failed: c.failed}, nil
}

func (c *fakeCalendar) CreateEvent(_ context.Context, _ *entity.Provider, event entity.CalendarEvent) (*entity.CreatedEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, event)
	return &entity.CreatedEvent{EventID: "evt-" + event.RequestID, MeetLink: "https://meet.google.com/abc-defg-hij"}, nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, _ *entity.Provider, _, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, eventID)
	return nil
}

func (c *fakeCalendar) AuthURL(state string) (string, error) {
	return "https://accounts.example.com/auth?state=" + state, nil
}

func (c *fakeCalendar) Exchange(context.Context, string) (*entity.TokenGrant, error) {
	if c.grant == nil {
		return nil, errors.New("exchange failed")
	}
	return c.grant, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []entity.Notification
	err  error
	// failFor makes delivery fail for one recipient.
	failFor string
}

func (n *fakeNotifier) Notify(_ context.Context, msg entity.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	if n.failFor != "" && msg.To == n.failFor {
		return errors.New("smtp: mailbox unavailable")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) kinds() []entity.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.NotificationKind, len(n.sent))
	for i, m := range n.sent {
		out[i] = m.Kind
	}
	return out
}

type fakePublisher struct {
	mu     sync.Mutex
	events []entity.BookingEvent
}

func (p *fakePublisher) Publish(_ context.Context, e entity.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (a *fakeAudit) record(action string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.actions = append(a.actions, action)
	return nil
}

func (a *fakeAudit) LogCreate(_ context.Context, _ service.Actor, action, _, _ string, _ interface{}) error {
	return a.record(action)
}

func (a *fakeAudit) LogUpdate(_ context.Context, _ service.Actor, action, _, _ string, _, _ interface{}) error {
	return a.record(action)
}

func (a *fakeAudit) LogDelete(_ context.Context, _ service.Actor, action, _, _ string, _ interface{}) error {
	return a.record(action)
}

type fakeHealth struct {
	records map[uuid.UUID]entity.CalendarHealth
}

func (h *fakeHealth) Record(_ context.Context, id uuid.UUID, health entity.CalendarHealth) {
	if h.records == nil {
		h.records = map[uuid.UUID]entity.CalendarHealth{}
	}
	h.records[id] = health
}

func (h *fakeHealth) Get(_ context.Context, id uuid.UUID) (*entity.CalendarHealth, error) {
	health, ok := h.records[id]
	if !ok {
		return nil, nil
	}
	return &health, nil
}

type fakeTokenStore struct {
	tokens map[string]bool
}

func (s *fakeTokenStore) key(id uuid.UUID, tokenID string) string { return id.String() + ":" + tokenID }

func (s *fakeTokenStore) Store(_ context.Context, id uuid.UUID, tokenID string, _ time.Duration) error {
	if s.tokens == nil {
		s.tokens = map[string]bool{}
	}
	s.tokens[s.key(id, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, id uuid.UUID, tokenID string) (bool, error) {
	return s.tokens[s.key(id, tokenID)], nil
}

func (s *fakeTokenStore) Revoke(_ context.Context, id uuid.UUID, tokenID string) error {
	delete(s.tokens, s.key(id, tokenID))
	return nil
}

// fixture is a Paris provider working 09:00-17:00 every weekday, offering 30 and 60
// minute lessons, with 24h notice and a 28 day horizon.
type fixture struct {
	provider    *entity.Provider
	lesson30    entity.LessonType
	lesson60    entity.LessonType
	providers   *fakeProviderRepo
	weekly      *fakeWeeklyRepo
	overrides   *fakeOverrideRepo
	lessonTypes *fakeLessonTypeRepo
	bookings    *fakeBookingRepo
	calendar    *fakeCalendar
	notifier    *fakeNotifier
	publisher   *fakePublisher
	audit       *fakeAudit
}

func newFixture() *fixture {
	refresh := "refresh-token"
	provider := &entity.Provider{
		ID:                    uuid.New(),
		Email:                 "teacher@example.com",
		Name:                  "Ada",
		Timezone:              "Europe/Paris",
		MinNoticeHours:        24,
		MaxAdvanceBookingDays: 28,
		SlotStepMinutes:       15,
		GoogleCalendarID:      "primary",
		GoogleRefreshToken:    &refresh,
	}

	f := &fixture{
		provider:  provider,
		providers: newFakeProviderRepo(provider),
		weekly:    &fakeWeeklyRepo{},
		overrides: &fakeOverrideRepo{},
		calendar:  &fakeCalendar{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		audit:     &fakeAudit{},
	}
	f.bookings = &fakeBookingRepo{providers: f.providers}
	for day := 1; day <= 5; day++ {
		f.weekly.rows = append(f.weekly.rows, entity.WeeklyAvailability{
			ID: day, ProviderID: provider.ID, DayOfWeek: day, StartTime: "09:00", EndTime: "17:00", IsActive: true,
		})
	}
	f.lesson30 = entity.LessonType{ID: uuid.New(), ProviderID: provider.ID, DurationMinutes: 30, Price: decimal.NewFromInt(40), Currency: "EUR", IsActive: true}
	f.lesson60 = entity.LessonType{ID: uuid.New(), ProviderID: provider.ID, DurationMinutes: 60, Price: decimal.NewFromInt(70), Currency: "EUR", IsActive: true}
	f.lessonTypes = &fakeLessonTypeRepo{rows: []entity.LessonType{f.lesson30, f.lesson60}}
	return f
}
