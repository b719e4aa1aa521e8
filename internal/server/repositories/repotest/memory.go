// Package repotest provides an in-memory RepositoryManager for tests of the
// service and HTTP layers. It enforces the same uniqueness and not-found
// rules as the PostgreSQL repositories.
package repotest

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/classifications"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/faqs"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/files"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/letters"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/users"
)

// Manager holds every table in memory. The zero value is not usable; call New.
type Manager struct {
	mu sync.Mutex

	users           map[string]*models.User
	letters         map[models.LetterKind]map[string]*models.Letter
	classifications map[int64]*models.Classification
	files           map[string]*models.File
	faqs            []*models.FAQ

	nextClassID int64
	seq         int64
	now         func() time.Time

	// Err, when set, is returned by every repository call.
	Err error
}

func New() *Manager {
	return &Manager{
		users: map[string]*models.User{},
		letters: map[models.LetterKind]map[string]*models.Letter{
			models.Incoming: {},
			models.Outgoing: {},
		},
		classifications: map[int64]*models.Classification{},
		files:           map[string]*models.File{},
		now:             time.Now,
	}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository                     { return (*userRepo)(m) }
func (m *Manager) Letters(dbx.DBTX) letters.Repository                 { return (*letterRepo)(m) }
func (m *Manager) Classifications(dbx.DBTX) classifications.Repository { return (*classRepo)(m) }
func (m *Manager) Files(dbx.DBTX) files.Repository                     { return (*fileRepo)(m) }
func (m *Manager) FAQs(dbx.DBTX) faqs.Repository                       { return (*faqRepo)(m) }

// AddFAQ appends a FAQ row.
func (m *Manager) AddFAQ(f models.FAQ) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faqs = append(m.faqs, &f)
}

// UserCount returns the number of stored users.
func (m *Manager) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// stamp returns a strictly increasing timestamp so created_at ordering is stable.
func (m *Manager) stamp() time.Time {
	m.seq++
	return m.now().Add(time.Duration(m.seq) * time.Microsecond)
}

type userRepo Manager

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := m.checkUnique(u); err != nil {
		return nil, err
	}
	u.CreatedAt = m.stamp()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *Manager) checkUnique(u *models.User) error {
	for id, other := range m.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return common.NewConflict("username")
		}
		if u.Email != nil && other.Email != nil && *u.Email == *other.Email {
			return common.NewConflict("email")
		}
	}
	return nil
}

func (r *userRepo) find(match func(*models.User) bool) (*models.User, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email != nil && *u.Email == email })
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *userRepo) Update(_ context.Context, u *models.User) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.users[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if err := m.checkUnique(u); err != nil {
		return err
	}
	cur.Username, cur.Email, cur.FullName = u.Username, u.Email, u.FullName
	cur.UpdatedAt = m.stamp()
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.users, id)
	return nil
}

func (r *userRepo) Count(context.Context) (int64, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), m.Err
}

type letterRepo Manager

func (r *letterRepo) List(_ context.Context, kind models.LetterKind, f models.LetterFilter) ([]*models.Letter, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]*models.Letter, 0)
	search := strings.ToLower(f.Search)
	for _, l := range m.letters[kind] {
		if l.IsArchived != f.Archived {
			continue
		}
		if f.ClassificationID != nil && (l.ClassificationID == nil || *l.ClassificationID != *f.ClassificationID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.LetterNumber), search) &&
			!strings.Contains(strings.ToLower(l.Subject), search) &&
			!strings.Contains(strings.ToLower(l.Party), search) {
			continue
		}
		if f.From != nil && l.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && l.Date.After(*f.To) {
			continue
		}
		out = append(out, m.withClassification(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Manager) withClassification(l *models.Letter) *models.Letter {
	cp := *l
	if l.ClassificationID != nil {
		if c, ok := m.classifications[*l.ClassificationID]; ok {
			code, desc := c.Code, c.Description
			cp.ClassificationCode, cp.ClassificationDetail = &code, &desc
		}
	}
	return &cp
}

func (r *letterRepo) Get(_ context.Context, kind models.LetterKind, id string) (*models.Letter, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	l, ok := m.letters[kind][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m.withClassification(l), nil
}

func (r *letterRepo) Create(_ context.Context, l *models.Letter) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	l.CreatedAt = m.stamp()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	m.letters[l.Kind][l.ID] = &cp
	return nil
}

func (r *letterRepo) Update(_ context.Context, l *models.Letter) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.letters[l.Kind][l.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cp := *l
	cp.FileURL, cp.RecordedByUserID, cp.CreatedAt = cur.FileURL, cur.RecordedByUserID, cur.CreatedAt
	cp.UpdatedAt = m.stamp()
	m.letters[l.Kind][l.ID] = &cp
	return nil
}

func (r *letterRepo) Delete(_ context.Context, kind models.LetterKind, id string) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.letters[kind][id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.letters[kind], id)
	return nil
}

func (r *letterRepo) SetFileURL(_ context.Context, kind models.LetterKind, id, url string) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	l, ok := m.letters[kind][id]
	if !ok {
		return common.ErrorNotFound
	}
	l.FileURL = &url
	return nil
}

func (r *letterRepo) Count(_ context.Context, kind models.LetterKind, archived *bool) (int64, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, l := range m.letters[kind] {
		if archived == nil || l.IsArchived == *archived {
			n++
		}
	}
	return n, nil
}

type classRepo Manager

func (r *classRepo) List(context.Context) ([]*models.Classification, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*models.Classification, 0, len(m.classifications))
	for _, c := range m.classifications {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *classRepo) Get(_ context.Context, id int64) (*models.Classification, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.classifications[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *Manager) codeTaken(code string, except int64) bool {
	for id, c := range m.classifications {
		if id != except && c.Code == code {
			return true
		}
	}
	return false
}

func (r *classRepo) Create(_ context.Context, c *models.Classification) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.codeTaken(c.Code, 0) {
		return common.NewConflict("code")
	}
	m.nextClassID++
	c.ID = m.nextClassID
	c.CreatedAt = m.stamp()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.classifications[c.ID] = &cp
	return nil
}

func (r *classRepo) Update(_ context.Context, c *models.Classification) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cur, ok := m.classifications[c.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if m.codeTaken(c.Code, c.ID) {
		return common.NewConflict("code")
	}
	cur.Code, cur.Description, cur.ShelfLocation = c.Code, c.Description, c.ShelfLocation
	cur.UpdatedAt = m.stamp()
	return nil
}

func (r *classRepo) Delete(_ context.Context, id int64) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.classifications[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.classifications, id)
	for _, byID := range m.letters {
		for _, l := range byID {
			if l.ClassificationID != nil && *l.ClassificationID == id {
				l.ClassificationID = nil
			}
		}
	}
	return nil
}

type fileRepo Manager

func (r *fileRepo) Create(_ context.Context, f *models.File) error {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	f.CreatedAt = m.stamp()
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (r *fileRepo) Get(_ context.Context, id string) (*models.File, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	f, ok := m.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

type faqRepo Manager

func (r *faqRepo) List(context.Context) ([]*models.FAQ, error) {
	m := (*Manager)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*models.FAQ, len(m.faqs))
	copy(out, m.faqs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}
