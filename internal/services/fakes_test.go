package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"refereehub/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
	err    error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-new-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, u := range f.byID {
		if filter.ZoneID != "" && u.Zone() != filter.ZoneID {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Level != nil {
		u.Level = *patch.Level
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.ZoneID != nil {
		u.ZoneID = patch.ZoneID
	}
	return u, nil
}

// fakeTournamentRepo is an in-memory TournamentRepository.
type fakeTournamentRepo struct {
	byID   map[string]*domain.Tournament
	nextID int
	// lastFilter records the filter of the last List call.
	lastFilter domain.TournamentFilter
}

func newFakeTournamentRepo(ts ...*domain.Tournament) *fakeTournamentRepo {
	f := &fakeTournamentRepo{byID: make(map[string]*domain.Tournament), nextID: 1}
	for _, t := range ts {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTournamentRepo) Create(ctx context.Context, t *domain.Tournament) error {
	t.ID = fmt.Sprintf("t-new-%d", f.nextID)
	f.nextID++
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	if t, ok := f.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTournamentRepo) List(ctx context.Context, filter domain.TournamentFilter, params domain.PaginationParams) ([]*domain.Tournament, int, error) {
	f.lastFilter = filter
	var out []*domain.Tournament
	for _, t := range f.byID {
		if filter.ScopeZoneID != "" && t.ZoneID != filter.ScopeZoneID && !(filter.ScopeIncludeNational && t.IsNational) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.HideDrafts && t.Status == domain.StatusDraft {
			continue
		}
		if filter.From != nil && t.EndDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.StartDate.After(*filter.To) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeTournamentRepo) Update(ctx context.Context, id string, patch domain.TournamentPatch) (*domain.Tournament, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.StartDate != nil {
		t.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		t.EndDate = *patch.EndDate
	}
	if patch.AvailabilityDeadline != nil {
		t.AvailabilityDeadline = *patch.AvailabilityDeadline
	}
	if patch.ClubID != nil {
		t.ClubID = *patch.ClubID
	}
	return t, nil
}

func (f *fakeTournamentRepo) UpdateStatus(ctx context.Context, id string, status domain.TournamentStatus) error {
	t, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeTournamentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTournamentRepo) CountByStatus(ctx context.Context, filter domain.TournamentFilter) ([]domain.StatusCount, error) {
	list, _, _ := f.List(ctx, filter, domain.PaginationParams{})
	counts := map[string]int{}
	for _, t := range list {
		counts[string(t.Status)]++
	}
	out := make([]domain.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, domain.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// fakeClubRepo is an in-memory ClubRepository.
type fakeClubRepo struct {
	byID map[string]*domain.Club
}

func newFakeClubRepo(clubs ...*domain.Club) *fakeClubRepo {
	f := &fakeClubRepo{byID: make(map[string]*domain.Club)}
	for _, c := range clubs {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeClubRepo) Create(ctx context.Context, c *domain.Club) error {
	c.ID = fmt.Sprintf("club-new-%d", len(f.byID)+1)
	f.byID[c.ID] = c
	return nil
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeClubRepo) List(ctx context.Context, filter domain.ClubFilter) ([]*domain.Club, error) {
	var out []*domain.Club
	for _, c := range f.byID {
		if filter.ZoneID != "" && c.ZoneID != filter.ZoneID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClubRepo) Update(ctx context.Context, id string, patch domain.ClubPatch) (*domain.Club, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	return c, nil
}

// fakeZoneRepo is an in-memory ZoneRepository.
type fakeZoneRepo struct {
	byID map[string]*domain.Zone
}

func newFakeZoneRepo(zones ...*domain.Zone) *fakeZoneRepo {
	f := &fakeZoneRepo{byID: make(map[string]*domain.Zone)}
	for _, z := range zones {
		f.byID[z.ID] = z
	}
	return f
}

func (f *fakeZoneRepo) Create(ctx context.Context, z *domain.Zone) error {
	for _, existing := range f.byID {
		if existing.Code == z.Code {
			return domain.ErrDuplicateCode
		}
	}
	z.ID = fmt.Sprintf("zone-new-%d", len(f.byID)+1)
	f.byID[z.ID] = z
	return nil
}

func (f *fakeZoneRepo) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	if z, ok := f.byID[id]; ok {
		return z, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeZoneRepo) List(ctx context.Context) ([]*domain.Zone, error) {
	var out []*domain.Zone
	for _, z := range f.byID {
		out = append(out, z)
	}
	return out, nil
}

// fakeTypeRepo is an in-memory TournamentTypeRepository.
type fakeTypeRepo struct {
	byID map[string]*domain.TournamentType
}

func newFakeTypeRepo(types ...*domain.TournamentType) *fakeTypeRepo {
	f := &fakeTypeRepo{byID: make(map[string]*domain.TournamentType)}
	for _, t := range types {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTypeRepo) Create(ctx context.Context, t *domain.TournamentType) error {
	t.ID = fmt.Sprintf("type-new-%d", len(f.byID)+1)
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTypeRepo) GetByID(ctx context.Context, id string) (*domain.TournamentType, error) {
	if t, ok := f.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTypeRepo) List(ctx context.Context) ([]*domain.TournamentType, error) {
	var out []*domain.TournamentType
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTypeRepo) Update(ctx context.Context, id string, patch domain.TournamentTypePatch) (*domain.TournamentType, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.MinReferees != nil {
		t.MinReferees = *patch.MinReferees
	}
	if patch.MaxReferees != nil {
		t.MaxReferees = *patch.MaxReferees
	}
	return t, nil
}

// fakeAvailabilityRepo is an in-memory AvailabilityRepository keyed by user and tournament.
type fakeAvailabilityRepo struct {
	rows    []*domain.Availability
	nextID  int
	syncErr error
}

func (f *fakeAvailabilityRepo) find(userID, tournamentID string) int {
	for i, a := range f.rows {
		if a.UserID == userID && a.TournamentID == tournamentID {
			return i
		}
	}
	return -1
}

func (f *fakeAvailabilityRepo) Create(ctx context.Context, a *domain.Availability) error {
	if f.find(a.UserID, a.TournamentID) >= 0 {
		return domain.ErrAlreadyDeclared
	}
	f.nextID++
	a.ID = fmt.Sprintf("av-%d", f.nextID)
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeAvailabilityRepo) GetByUserAndTournament(ctx context.Context, userID, tournamentID string) (*domain.Availability, error) {
	if i := f.find(userID, tournamentID); i >= 0 {
		return f.rows[i], nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAvailabilityRepo) Delete(ctx context.Context, userID, tournamentID string) error {
	i := f.find(userID, tournamentID)
	if i < 0 {
		return domain.ErrNotFound
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

func (f *fakeAvailabilityRepo) ListByTournament(ctx context.Context, tournamentID string) ([]*domain.Availability, error) {
	var out []*domain.Availability
	for _, a := range f.rows {
		if a.TournamentID == tournamentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Availability, error) {
	var out []*domain.Availability
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	list, _ := f.ListByTournament(ctx, tournamentID)
	return len(list), nil
}

func (f *fakeAvailabilityRepo) Sync(ctx context.Context, userID string, add []*domain.Availability, remove []string) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	for _, id := range remove {
		_ = f.Delete(ctx, userID, id)
	}
	for _, a := range add {
		a.UserID = userID
		if err := f.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// fakeAssignmentRepo is an in-memory AssignmentRepository.
type fakeAssignmentRepo struct {
	rows   []*domain.Assignment
	nextID int
	users  *fakeUserRepo
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	for _, existing := range f.rows {
		if existing.TournamentID == a.TournamentID && existing.UserID == a.UserID {
			return domain.ErrAlreadyAssigned
		}
	}
	f.nextID++
	a.ID = fmt.Sprintf("as-%d", f.nextID)
	if f.users != nil {
		if u, ok := f.users.byID[a.UserID]; ok {
			a.RefereeName = u.FullName()
			a.RefereeEmail = u.Email
			a.RefereeLevel = u.Level
		}
	}
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	for _, a := range f.rows {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAssignmentRepo) ListByTournament(ctx context.Context, tournamentID string) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, a := range f.rows {
		if a.TournamentID == tournamentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	list, _ := f.ListByTournament(ctx, tournamentID)
	return len(list), nil
}

func (f *fakeAssignmentRepo) Confirm(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.IsConfirmed = true
	return a, nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id string) error {
	for i, a := range f.rows {
		if a.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	rows   []*domain.Notification
	nextID int
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.nextID++
	n.ID = fmt.Sprintf("n-%d", f.nextID)
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	for _, n := range f.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationRepo) UpdateDelivery(ctx context.Context, n *domain.Notification) error {
	for i, existing := range f.rows {
		if existing.ID == n.ID {
			f.rows[i] = n
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeNotificationRepo) ListByTournamentNotification(ctx context.Context, id string) ([]*domain.Notification, error) {
	out := []*domain.Notification{}
	for _, n := range f.rows {
		if n.TournamentNotificationID == id {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountByTournamentNotification(ctx context.Context, id string) ([]domain.NotificationCount, error) {
	type key struct {
		kind   string
		status domain.NotificationStatus
	}
	counts := map[key]int{}
	var order []key
	for _, n := range f.rows {
		if n.TournamentNotificationID != id {
			continue
		}
		k := key{n.RecipientType, n.Status}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	out := make([]domain.NotificationCount, 0, len(order))
	for _, k := range order {
		out = append(out, domain.NotificationCount{RecipientType: k.kind, Status: k.status, Count: counts[k]})
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountByStatus(ctx context.Context, zoneID string) (map[domain.NotificationStatus]int, error) {
	out := map[domain.NotificationStatus]int{}
	for _, n := range f.rows {
		out[n.Status]++
	}
	return out, nil
}

// fakeSummaryRepo is an in-memory TournamentNotificationRepository.
type fakeSummaryRepo struct {
	byID          map[string]*domain.TournamentNotification
	notifications *fakeNotificationRepo
	tournaments   *fakeTournamentRepo
}

func newFakeSummaryRepo(notifications *fakeNotificationRepo, tournaments *fakeTournamentRepo) *fakeSummaryRepo {
	return &fakeSummaryRepo{byID: make(map[string]*domain.TournamentNotification), notifications: notifications, tournaments: tournaments}
}

func (f *fakeSummaryRepo) GetOrCreate(ctx context.Context, tournamentID string) (*domain.TournamentNotification, error) {
	for _, tn := range f.byID {
		if tn.TournamentID == tournamentID {
			return tn, nil
		}
	}
	tn := &domain.TournamentNotification{
		ID:            fmt.Sprintf("tn-%d", len(f.byID)+1),
		TournamentID:  tournamentID,
		Status:        domain.SummaryPending,
		TemplatesUsed: map[string]string{},
	}
	if t, ok := f.tournaments.byID[tournamentID]; ok {
		tn.TournamentName = t.Name
		tn.ZoneID = t.ZoneID
	}
	f.byID[tn.ID] = tn
	return tn, nil
}

func (f *fakeSummaryRepo) GetByID(ctx context.Context, id string) (*domain.TournamentNotification, error) {
	if tn, ok := f.byID[id]; ok {
		return tn, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSummaryRepo) Update(ctx context.Context, tn *domain.TournamentNotification) error {
	if _, ok := f.byID[tn.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[tn.ID] = tn
	return nil
}

func (f *fakeSummaryRepo) List(ctx context.Context, filter domain.TournamentNotificationFilter, params domain.PaginationParams) ([]*domain.TournamentNotification, int, error) {
	var out []*domain.TournamentNotification
	for _, tn := range f.byID {
		national := false
		if t, ok := f.tournaments.byID[tn.TournamentID]; ok {
			national = t.IsNational
		}
		if filter.ZoneID != "" && tn.ZoneID != filter.ZoneID && !(filter.IncludeNational && national) {
			continue
		}
		if filter.Status != "" && tn.Status != filter.Status {
			continue
		}
		out = append(out, tn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeSummaryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	kept := f.notifications.rows[:0]
	for _, n := range f.notifications.rows {
		if n.TournamentNotificationID != id {
			kept = append(kept, n)
		}
	}
	f.notifications.rows = kept
	return nil
}

// fakeInstitutionalRepo is an in-memory InstitutionalEmailRepository.
type fakeInstitutionalRepo struct {
	byID map[string]*domain.InstitutionalEmail
}

func newFakeInstitutionalRepo(emails ...*domain.InstitutionalEmail) *fakeInstitutionalRepo {
	f := &fakeInstitutionalRepo{byID: make(map[string]*domain.InstitutionalEmail)}
	for _, e := range emails {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeInstitutionalRepo) Create(ctx context.Context, e *domain.InstitutionalEmail) error {
	e.ID = fmt.Sprintf("ie-new-%d", len(f.byID)+1)
	f.byID[e.ID] = e
	return nil
}

func (f *fakeInstitutionalRepo) GetByID(ctx context.Context, id string) (*domain.InstitutionalEmail, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInstitutionalRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.InstitutionalEmail, error) {
	out := []*domain.InstitutionalEmail{}
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeInstitutionalRepo) List(ctx context.Context, filter domain.InstitutionalEmailFilter) ([]*domain.InstitutionalEmail, error) {
	out := []*domain.InstitutionalEmail{}
	for _, e := range f.byID {
		if filter.ZoneID != "" && e.ZoneID != nil && *e.ZoneID != filter.ZoneID {
			continue
		}
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if filter.ReceiveAllOnly && !e.ReceiveAllNotifications {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeInstitutionalRepo) Update(ctx context.Context, id string, patch domain.InstitutionalEmailPatch) (*domain.InstitutionalEmail, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Email != nil {
		e.Email = *patch.Email
	}
	if patch.IsActive != nil {
		e.IsActive = *patch.IsActive
	}
	return e, nil
}

func (f *fakeInstitutionalRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeTemplateRepo is an in-memory LetterTemplateRepository.
type fakeTemplateRepo struct {
	byID map[string]*domain.LetterTemplate
}

func newFakeTemplateRepo(templates ...*domain.LetterTemplate) *fakeTemplateRepo {
	f := &fakeTemplateRepo{byID: make(map[string]*domain.LetterTemplate)}
	for _, t := range templates {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *domain.LetterTemplate) error {
	t.ID = fmt.Sprintf("lt-new-%d", len(f.byID)+1)
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*domain.LetterTemplate, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) List(ctx context.Context, filter domain.LetterTemplateFilter) ([]*domain.LetterTemplate, error) {
	out := []*domain.LetterTemplate{}
	for _, t := range f.byID {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) FindDefault(ctx context.Context, templateType, zoneID string) (*domain.LetterTemplate, error) {
	for _, t := range f.byID {
		if t.Type != templateType || !t.IsDefault || !t.IsActive {
			continue
		}
		if (zoneID == "" && t.ZoneID == nil) || (t.ZoneID != nil && *t.ZoneID == zoneID) {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) Update(ctx context.Context, id string, patch domain.LetterTemplatePatch) (*domain.LetterTemplate, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Body != nil {
		t.Body = *patch.Body
	}
	return t, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeLetterheadRepo is an in-memory LetterheadRepository.
type fakeLetterheadRepo struct {
	byID map[string]*domain.Letterhead
}

func newFakeLetterheadRepo(letterheads ...*domain.Letterhead) *fakeLetterheadRepo {
	f := &fakeLetterheadRepo{byID: make(map[string]*domain.Letterhead)}
	for _, l := range letterheads {
		f.byID[l.ID] = l
	}
	return f
}

func (f *fakeLetterheadRepo) Create(ctx context.Context, l *domain.Letterhead) error {
	l.ID = fmt.Sprintf("lh-new-%d", len(f.byID)+1)
	f.byID[l.ID] = l
	return nil
}

func (f *fakeLetterheadRepo) GetByID(ctx context.Context, id string) (*domain.Letterhead, error) {
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLetterheadRepo) List(ctx context.Context, zoneID string) ([]*domain.Letterhead, error) {
	out := []*domain.Letterhead{}
	for _, l := range f.byID {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLetterheadRepo) FindDefault(ctx context.Context, zoneID string) (*domain.Letterhead, error) {
	var global *domain.Letterhead
	for _, l := range f.byID {
		if !l.IsDefault || !l.IsActive {
			continue
		}
		if l.ZoneID != nil && *l.ZoneID == zoneID {
			return l, nil
		}
		if l.ZoneID == nil {
			global = l
		}
	}
	if global != nil {
		return global, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLetterheadRepo) Update(ctx context.Context, id string, patch domain.LetterheadPatch) (*domain.Letterhead, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	return l, nil
}

// fakeDocumentStore is an in-memory DocumentStore keyed by kind and tournament id.
type fakeDocumentStore struct {
	files map[string][]byte
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{files: make(map[string][]byte)}
}

func docPath(kind, tournamentID, ext string) string {
	return "documents/" + tournamentID + "/" + kind + "." + ext
}

func (f *fakeDocumentStore) put(kind, tournamentID, ext string, content []byte) {
	f.files[docPath(kind, tournamentID, ext)] = content
}

func (f *fakeDocumentStore) Find(ctx context.Context, kind string, t *domain.Tournament) (*domain.StoredDocument, error) {
	for _, ext := range []string{"pdf", "html"} {
		p := docPath(kind, t.ID, ext)
		if _, ok := f.files[p]; ok {
			return &domain.StoredDocument{Kind: kind, Path: p, Filename: kind + "." + ext}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocumentStore) Read(ctx context.Context, doc *domain.StoredDocument) ([]byte, error) {
	if content, ok := f.files[doc.Path]; ok {
		return content, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocumentStore) Save(ctx context.Context, kind string, t *domain.Tournament, ext string, content []byte) (*domain.StoredDocument, error) {
	p := docPath(kind, t.ID, ext)
	f.files[p] = content
	return &domain.StoredDocument{Kind: kind, Path: p, Filename: kind + "." + ext}, nil
}

// fakeMailer records messages and fails for the addresses in failFor.
type fakeMailer struct {
	sent    []*domain.EmailMessage
	failFor map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, msg *domain.EmailMessage) error {
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeRenderer renders the embedded defaults as "<name>: <tournament_name>".
type fakeRenderer struct{}

func (fakeRenderer) Render(name string, data any) (string, string, string, error) {
	vars, _ := data.(map[string]string)
	subject := name + ": " + vars["tournament_name"]
	return subject, "<p>" + subject + "</p>", subject, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error)              { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) { return "hash-" + salt + password, nil }
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	issued *domain.Actor
}

func (f *fakeTokenIssuer) Issue(actor *domain.Actor, expiry time.Duration) (string, error) {
	f.issued = actor
	return "token-" + actor.UserID, nil
}

var (
	superAdmin = &domain.Actor{UserID: "admin-0", Email: "super@example.com", Role: domain.RoleSuperAdmin}
	northAdmin = &domain.Actor{UserID: "admin-1", Email: "nord@example.com", Role: domain.RoleAdmin, ZoneID: "zone-n"}
	southAdmin = &domain.Actor{UserID: "admin-2", Email: "sud@example.com", Role: domain.RoleAdmin, ZoneID: "zone-s"}
	nationalCO = &domain.Actor{UserID: "admin-3", Email: "crc@example.com", Role: domain.RoleNationalAdmin, ZoneID: "zone-n"}
)

func refereeActor(u *domain.User) *domain.Actor {
	return &domain.Actor{UserID: u.ID, Email: u.Email, Role: domain.RoleReferee, ZoneID: u.Zone()}
}

func newReferee(id, zoneID, level string) *domain.User {
	return &domain.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Mario",
		LastName:  id,
		Level:     level,
		ZoneID:    strPtr(zoneID),
		Role:      domain.RoleReferee,
		IsActive:  true,
	}
}

// newTournament returns a two-day tournament starting start with the deadline a week earlier.
func newTournament(id, zoneID string, status domain.TournamentStatus, start time.Time) *domain.Tournament {
	return &domain.Tournament{
		ID:                   id,
		Name:                 "Trofeo " + id,
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, 1),
		AvailabilityDeadline: start.AddDate(0, 0, -7),
		Status:               status,
		ZoneID:               zoneID,
		ClubID:               "club-" + zoneID,
		TournamentTypeID:     "type-1",
		ClubName:             "Golf Club " + zoneID,
		ClubEmail:            "segreteria@" + zoneID + ".example.com",
		ZoneCode:             zoneID,
		MinReferees:          1,
		MaxReferees:          3,
	}
}
