package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

type fakeRepo struct {
	pets        map[string]*domain.Pet
	total       int64
	searchHits  []*domain.Pet
	createErr   error
	updateErr   error
	deleteErr   error
	markedAt    []time.Time
	lastCreated *domain.Pet
	afterFind   func()
}

func newFakeRepo(pets ...*domain.Pet) *fakeRepo {
	r := &fakeRepo{pets: map[string]*domain.Pet{}}
	for _, p := range pets {
		r.pets[p.ID] = p
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, pet *domain.Pet) error {
	if r.createErr != nil {
		return r.createErr
	}
	pet.ID = "new-pet"
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	r.pets[pet.ID] = pet
	r.lastCreated = pet
	return nil
}

// Update mirrors the adapter contract: a $set of the listing fields only,
// never the purchase state.
func (r *fakeRepo) Update(_ context.Context, pet *domain.Pet) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.pets[pet.ID]
	if !ok {
		return domain.ErrPetNotFound
	}
	stored.Name = pet.Name
	stored.Species = pet.Species
	stored.FavoriteFood = pet.FavoriteFood
	stored.Description = pet.Description
	stored.Birthday = pet.Birthday
	stored.Price = pet.Price
	stored.AvatarKey = pet.AvatarKey
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.pets[id]; !ok {
		return domain.ErrPetNotFound
	}
	delete(r.pets, id)
	return nil
}

// FindByID returns a decoded copy, like the adapter: mutating the result
// does not touch the store.
func (r *fakeRepo) FindByID(_ context.Context, id string) (*domain.Pet, error) {
	pet, ok := r.pets[id]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	out := *pet
	if r.afterFind != nil {
		r.afterFind()
	}
	return &out, nil
}

func (r *fakeRepo) List(_ context.Context, page, pageSize int) ([]*domain.Pet, int64, error) {
	out := make([]*domain.Pet, 0, len(r.pets))
	for _, p := range r.pets {
		out = append(out, p)
	}
	total := r.total
	if total == 0 {
		total = int64(len(out))
	}
	return out, total, nil
}

func (r *fakeRepo) Search(_ context.Context, term string, limit int) ([]*domain.Pet, error) {
	if r.searchHits != nil {
		return r.searchHits, nil
	}
	var hits []*domain.Pet
	for _, p := range r.pets {
		if strings.Contains(strings.ToLower(p.Name+" "+p.Species), strings.ToLower(term)) {
			hits = append(hits, p)
		}
	}
	return hits, nil
}

func (r *fakeRepo) MarkPurchased(_ context.Context, id string, at time.Time) (*domain.Pet, error) {
	pet, ok := r.pets[id]
	if !ok {
		return nil, domain.ErrPetNotFound
	}
	if pet.PurchasedAt != nil {
		return nil, domain.ErrAlreadyPurchased
	}
	when := at
	pet.PurchasedAt = &when
	r.markedAt = append(r.markedAt, at)
	return pet, nil
}

type fakeStorage struct {
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads[key] = data
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.deleteErr
}

func (s *fakeStorage) URL(key string) string {
	return "https://pets.s3.us-west-1.amazonaws.com/" + key
}

type fakeCache struct {
	pets    map[string]*domain.Pet
	getErr  error
	setErr  error
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{pets: map[string]*domain.Pet{}}
}

func (c *fakeCache) GetPet(_ context.Context, id string) (*domain.Pet, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.pets[id], nil
}

func (c *fakeCache) SetPet(_ context.Context, pet *domain.Pet) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.pets[pet.ID] = pet
	return nil
}

func (c *fakeCache) DeletePet(_ context.Context, id string) error {
	c.deleted = append(c.deleted, id)
	delete(c.pets, id)
	return nil
}

type fakePublisher struct {
	subjects []string
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	return nil
}

type fakeGateway struct {
	created   []CheckoutRequest
	session   *CheckoutSession
	createErr error
	getErr    error
}

func (g *fakeGateway) CreateSession(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	return &CheckoutSession{ID: "cs_test_123"}, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*CheckoutSession, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	if g.session != nil {
		return g.session, nil
	}
	return &CheckoutSession{ID: id, CustomerEmail: "buyer@example.com"}, nil
}

type fakeMailer struct {
	customerMails []string
	adminMails    []string
	err           error
}

func (m *fakeMailer) NotifyCustomer(email string, pet *domain.Pet) error {
	m.customerMails = append(m.customerMails, email)
	return m.err
}

func (m *fakeMailer) NotifyAdmin(pet *domain.Pet, customerEmail string) error {
	m.adminMails = append(m.adminMails, customerEmail)
	return m.err
}
