package contacts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/callcenter"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/cache"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/util"
)

var (
	// ErrInvalidContact is returned when a contact has neither a name nor a
	// usable phone number.
	ErrInvalidContact = errors.New("customer name or phone number is required")
	// ErrInvalidStatus is returned for statuses outside the dashboard set.
	ErrInvalidStatus = errors.New("invalid contact status")
	// ErrNotConfigured is returned when no sheet reader or store was provided.
	ErrNotConfigured = errors.New("contacts source not configured")
)

// CacheName labels the contacts cache in metrics.
const CacheName = "contacts"

// SheetReader reads a range of cell values.
type SheetReader interface {
	Values(ctx context.Context, readRange string) ([][]string, error)
}

// Store persists contact edits and manually created contacts.
type Store interface {
	FetchAllMap(ctx context.Context) (map[string]model.Contact, error)
	Upsert(ctx context.Context, c model.Contact) (model.Contact, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// QueueSource supplies the live queue snapshot.
type QueueSource interface {
	Current(ctx context.Context, maxAge time.Duration) callcenter.QueueSnapshot
}

// Deps wires a Service.
type Deps struct {
	Sheets   SheetReader
	Range    string
	Store    Store
	Queue    QueueSource
	CacheTTL time.Duration
	CacheObs cache.Observer
	Logger   *zap.Logger
	Now      func() time.Time
	Location *time.Location
}

// Service lists and edits contacts.
type Service struct {
	sheets SheetReader
	rng    string
	store  Store
	queue  QueueSource
	cache  *cache.TTL[[]model.Contact]
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
}

// NewService creates a contacts Service.
func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = 10 * time.Second
	}
	return &Service{
		sheets: d.Sheets,
		rng:    d.Range,
		store:  d.Store,
		queue:  d.Queue,
		cache:  cache.NewTTL[[]model.Contact](CacheName, d.CacheTTL, d.CacheObs).WithClock(d.Now),
		logger: d.Logger,
		now:    d.Now,
		loc:    d.Location,
	}
}

// List returns the contacts matching query. cached reports whether the result
// was served from the cache.
func (s *Service) List(ctx context.Context, query string) (contacts []model.Contact, cached bool, err error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if v, ok := s.cache.Get(key); ok {
		return v, true, nil
	}
	all, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	out := Filter(all, key)
	s.cache.Set(key, out)
	return out, false, nil
}

// Poll reloads the unfiltered list into the cache.
func (s *Service) Poll(ctx context.Context) error {
	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.cache.Set("", all)
	s.cache.Purge()
	return nil
}

func (s *Service) load(ctx context.Context) ([]model.Contact, error) {
	if s.sheets == nil {
		return nil, ErrNotConfigured
	}
	rows, err := s.sheets.Values(ctx, s.rng)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.rng, err)
	}
	contacts, err := ParseFilmContacts(rows, s.now())
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		stored, err := s.store.FetchAllMap(ctx)
		if err != nil {
			// edits are an overlay; the sheet alone is still useful
			s.logger.Warn("contact overlay unavailable", zap.Error(err))
		} else {
			contacts = overlay(contacts, stored)
		}
	}

	var snap callcenter.QueueSnapshot
	if s.queue != nil {
		snap = s.queue.Current(ctx, 3*time.Second)
	}
	return MatchInbound(contacts, snap), nil
}

// overlay applies stored edits to sheet contacts and appends stored contacts
// that did not come from the sheet.
func overlay(sheet []model.Contact, stored map[string]model.Contact) []model.Contact {
	out := make([]model.Contact, 0, len(sheet)+len(stored))
	for _, c := range sheet {
		if e, ok := stored[c.ID]; ok {
			if e.Remarks != "" {
				c.Remarks = e.Remarks
			}
			if e.NextContactDate != "" {
				c.NextContactDate = e.NextContactDate
			}
			if e.Status != "" {
				c.Status = e.Status
			}
			c.UpdatedAt = e.UpdatedAt
		}
		out = append(out, c)
	}

	var manual []model.Contact
	for id, c := range stored {
		if strings.HasPrefix(id, FilmIDPrefix) {
			continue
		}
		manual = append(manual, c)
	}
	sort.Slice(manual, func(i, j int) bool {
		if !manual[i].ContactDate.Equal(manual[j].ContactDate) {
			return manual[i].ContactDate.After(manual[j].ContactDate)
		}
		return manual[i].ID < manual[j].ID
	})
	return append(out, manual...)
}

// Create stores a manually entered contact.
func (s *Service) Create(ctx context.Context, c model.Contact) (model.Contact, error) {
	if s.store == nil {
		return model.Contact{}, ErrNotConfigured
	}
	c.CustomerName = util.CleanCell(c.CustomerName)
	c.PhoneNumber = util.CleanCell(c.PhoneNumber)
	if c.PhoneNumber != "" && util.DigitsOnly(c.PhoneNumber) == "" {
		return model.Contact{}, fmt.Errorf("%w: phone %q has no digits", ErrInvalidContact, c.PhoneNumber)
	}
	if c.CustomerName == "" && c.PhoneNumber == "" {
		return model.Contact{}, ErrInvalidContact
	}
	if c.Status == "" {
		c.Status = model.ContactPending
	}
	if !validStatus(c.Status) {
		return model.Contact{}, fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	if c.NextContactDate != "" {
		if err := s.checkDate(c.NextContactDate); err != nil {
			return model.Contact{}, err
		}
	}
	now := s.now()
	if c.ContactDate.IsZero() {
		c.ContactDate = now
	}
	c.UpdatedAt = now

	saved, err := s.store.Upsert(ctx, c)
	if err != nil {
		return model.Contact{}, err
	}
	s.cache.Invalidate()
	return saved, nil
}

// UpdateRemarks saves remarks and the next contact date (YYYY-MM-DD, may be
// empty) for a contact.
func (s *Service) UpdateRemarks(ctx context.Context, id, remarks, nextContactDate string) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	if nextContactDate != "" {
		if err := s.checkDate(nextContactDate); err != nil {
			return err
		}
	}
	err := s.store.UpdateFields(ctx, id, map[string]interface{}{
		"remarks":         remarks,
		"nextContactDate": nextContactDate,
		"updatedAt":       s.now(),
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// UpdateStatus moves a contact to another dashboard status.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if s.store == nil {
		return ErrNotConfigured
	}
	if !validStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.store.UpdateFields(ctx, id, map[string]interface{}{
		"status":    status,
		"updatedAt": s.now(),
	}); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *Service) checkDate(v string) error {
	if _, err := time.ParseInLocation("2006-01-02", v, s.loc); err != nil {
		return fmt.Errorf("invalid next contact date %q: %w", v, err)
	}
	return nil
}

func validStatus(status string) bool {
	switch status {
	case model.ContactIncoming, model.ContactOutgoing, model.ContactPending, model.ContactCompleted:
		return true
	}
	return false
}
