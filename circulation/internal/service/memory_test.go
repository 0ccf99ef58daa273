package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

// memState mirrors the tables and the store-level guards of the postgres schema.
type memState struct {
	nextID       int64
	works        map[int64]model.Work
	readers      map[int64]bool
	copies       map[int64]model.Copy
	loans        map[int64]model.Loan
	reservations map[int64]model.Reservation
}

func newMemState() *memState {
	return &memState{
		works:        map[int64]model.Work{},
		readers:      map[int64]bool{},
		copies:       map[int64]model.Copy{},
		loans:        map[int64]model.Loan{},
		reservations: map[int64]model.Reservation{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextID = s.nextID
	for k, v := range s.works {
		c.works[k] = v
	}
	for k, v := range s.readers {
		c.readers[k] = v
	}
	for k, v := range s.copies {
		c.copies[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// memRepo serializes transactions with one mutex and rolls back by restoring a snapshot.
type memRepo struct {
	mu   *sync.Mutex
	st   *memState
	inTx bool
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{mu: &sync.Mutex{}, st: newMemState()}
}

func (r *memRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *memRepo) InTx(_ context.Context, fn func(repo repository.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.st.clone()
	if err := fn(&memRepo{mu: r.mu, st: r.st, inTx: true}); err != nil {
		*r.st = *snapshot
		return err
	}
	return nil
}

// seed helpers, used outside transactions

func (r *memRepo) addReader(id int64) {
	defer r.lock()()
	r.st.readers[id] = true
}

func (r *memRepo) addWork(isbn, title string, category *string) model.Work {
	defer r.lock()()
	w := model.Work{ID: r.st.id(), ISBN: isbn, Title: title, Category: category}
	r.st.works[w.ID] = w
	return w
}

func (r *memRepo) addCopy(workID int64, status model.CopyStatus) model.Copy {
	defer r.lock()()
	w := r.st.works[workID]
	w.CopySeq++
	r.st.works[workID] = w
	c := model.Copy{ID: r.st.id(), WorkID: workID, Code: w.ISBN + "-seed", Status: status}
	r.st.copies[c.ID] = c
	return c
}

func (r *memRepo) copyStatus(id int64) model.CopyStatus {
	defer r.lock()()
	return r.st.copies[id].Status
}

func (r *memRepo) snapshot() *memState {
	defer r.lock()()
	return r.st.clone()
}

// CopyRegistry

func (r *memRepo) GetCopy(_ context.Context, id int64, _ bool) (model.Copy, error) {
	defer r.lock()()
	c, ok := r.st.copies[id]
	if !ok {
		return model.Copy{}, errs.NotFound("copy %d not found", id)
	}
	return c, nil
}

func (r *memRepo) SetCopyStatus(_ context.Context, id int64, status model.CopyStatus) error {
	defer r.lock()()
	c, ok := r.st.copies[id]
	if !ok {
		return errs.NotFound("copy %d not found", id)
	}
	c.Status = status
	r.st.copies[id] = c
	return nil
}

func (r *memRepo) ListCopies(_ context.Context, workID int64) ([]model.Copy, error) {
	defer r.lock()()
	var out []model.Copy
	for _, c := range r.st.copies {
		if c.WorkID == workID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) FindAvailableCopy(_ context.Context, workID int64) (model.Copy, error) {
	defer r.lock()()
	var found *model.Copy
	for _, c := range r.st.copies {
		c := c
		if c.WorkID == workID && c.Status == model.CopyAvailable && (found == nil || c.ID < found.ID) {
			found = &c
		}
	}
	if found == nil {
		return model.Copy{}, errs.NotFound("no available copy of work %d", workID)
	}
	return *found, nil
}

func (r *memRepo) InsertCopies(_ context.Context, copies []model.Copy) ([]model.Copy, error) {
	defer r.lock()()
	out := make([]model.Copy, 0, len(copies))
	for _, c := range copies {
		for _, existing := range r.st.copies {
			if existing.Code == c.Code {
				return nil, errs.Conflict("copy code %s already exists", c.Code)
			}
		}
		c.ID = r.st.id()
		c.CreatedAt = time.Now()
		r.st.copies[c.ID] = c
		out = append(out, c)
	}
	return out, nil
}

func (r *memRepo) RemovableCopies(_ context.Context, workID int64, limit int) ([]model.Copy, error) {
	defer r.lock()()
	var out []model.Copy
	for _, c := range r.st.copies {
		if c.WorkID == workID && c.Status == model.CopyAvailable {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) DeleteCopies(_ context.Context, ids []int64) error {
	defer r.lock()()
	for _, id := range ids {
		delete(r.st.copies, id)
		for k, l := range r.st.loans {
			if l.CopyID != nil && *l.CopyID == id {
				l.CopyID = nil
				r.st.loans[k] = l
			}
		}
		for k, res := range r.st.reservations {
			if res.CopyID != nil && *res.CopyID == id {
				res.CopyID = nil
				r.st.reservations[k] = res
			}
		}
	}
	return nil
}

// LoanLedger

func (r *memRepo) CreateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	defer r.lock()()
	if !r.st.readers[loan.ReaderID] {
		return model.Loan{}, errs.NotFound("reader %d not found", loan.ReaderID)
	}
	if loan.CopyID == nil {
		return model.Loan{}, errs.Validation("copy is required")
	}
	if _, ok := r.st.copies[*loan.CopyID]; !ok {
		return model.Loan{}, errs.NotFound("copy %d not found", *loan.CopyID)
	}
	for _, l := range r.st.loans {
		if l.CopyID != nil && *l.CopyID == *loan.CopyID && !l.Status.Terminal() {
			return model.Loan{}, errs.Conflict("copy already has an open loan")
		}
	}
	loan.ID = r.st.id()
	r.st.loans[loan.ID] = loan
	return loan, nil
}

func (r *memRepo) GetLoan(_ context.Context, id int64, _ bool) (model.Loan, error) {
	defer r.lock()()
	l, ok := r.st.loans[id]
	if !ok {
		return model.Loan{}, errs.NotFound("loan %d not found", id)
	}
	return l, nil
}

func (r *memRepo) ListLoans(_ context.Context, f model.LoanFilter, today time.Time) (model.ListLoans, error) {
	defer r.lock()()
	var items []model.Loan
	for _, l := range r.st.loans {
		if f.ReaderID != 0 && l.ReaderID != f.ReaderID {
			continue
		}
		if f.CopyID != 0 && (l.CopyID == nil || *l.CopyID != f.CopyID) {
			continue
		}
		if f.Active != nil && *f.Active == l.Status.Terminal() {
			continue
		}
		if f.Status != "" && l.Observed(today).Status != f.Status {
			continue
		}
		items = append(items, l)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return model.ListLoans{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (r *memRepo) UpdateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	defer r.lock()()
	l, ok := r.st.loans[loan.ID]
	if !ok {
		return model.Loan{}, errs.NotFound("loan %d not found", loan.ID)
	}
	l.DueDate, l.ReturnDate, l.Status = loan.DueDate, loan.ReturnDate, loan.Status
	r.st.loans[l.ID] = l
	return l, nil
}

func (r *memRepo) DeleteLoan(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.st.loans[id]; !ok {
		return errs.NotFound("loan %d not found", id)
	}
	delete(r.st.loans, id)
	return nil
}

func (r *memRepo) CountActiveLoans(_ context.Context) (int, error) {
	defer r.lock()()
	n := 0
	for _, l := range r.st.loans {
		if !l.Status.Terminal() {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CountOverdueLoans(_ context.Context, today time.Time) (int, error) {
	defer r.lock()()
	n := 0
	for _, l := range r.st.loans {
		if l.Overdue(today) {
			n++
		}
	}
	return n, nil
}

// ReservationLedger

func (r *memRepo) CreateReservation(_ context.Context, res model.Reservation) (model.Reservation, error) {
	defer r.lock()()
	if !r.st.readers[res.ReaderID] {
		return model.Reservation{}, errs.NotFound("reader %d not found", res.ReaderID)
	}
	res.ID = r.st.id()
	r.st.reservations[res.ID] = res
	return res, nil
}

func (r *memRepo) GetReservation(_ context.Context, id int64, _ bool) (model.Reservation, error) {
	defer r.lock()()
	res, ok := r.st.reservations[id]
	if !ok {
		return model.Reservation{}, errs.NotFound("reservation %d not found", id)
	}
	return res, nil
}

func (r *memRepo) ListReservations(_ context.Context, f model.ReservationFilter) (model.ListReservations, error) {
	defer r.lock()()
	var items []model.Reservation
	for _, res := range r.st.reservations {
		if f.ReaderID != 0 && res.ReaderID != f.ReaderID {
			continue
		}
		if f.CopyID != 0 && (res.CopyID == nil || *res.CopyID != f.CopyID) {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		items = append(items, res)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return model.ListReservations{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(items)},
		Items:  items,
	}, nil
}

func (r *memRepo) UpdateReservation(_ context.Context, res model.Reservation) (model.Reservation, error) {
	defer r.lock()()
	cur, ok := r.st.reservations[res.ID]
	if !ok {
		return model.Reservation{}, errs.NotFound("reservation %d not found", res.ID)
	}
	if res.Status == model.ReservationActive && cur.CopyID != nil {
		for _, other := range r.st.reservations {
			if other.ID != res.ID && other.Status == model.ReservationActive &&
				other.CopyID != nil && *other.CopyID == *cur.CopyID {
				return model.Reservation{}, errs.Conflict("copy already has an active reservation")
			}
		}
	}
	cur.ExpirationDate, cur.Status = res.ExpirationDate, res.Status
	r.st.reservations[cur.ID] = cur
	return cur, nil
}

func (r *memRepo) DeleteReservation(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.st.reservations[id]; !ok {
		return errs.NotFound("reservation %d not found", id)
	}
	delete(r.st.reservations, id)
	return nil
}

func (r *memRepo) HasActiveReservation(_ context.Context, copyID, exceptID int64) (bool, error) {
	defer r.lock()()
	for _, res := range r.st.reservations {
		if res.ID != exceptID && res.Status == model.ReservationActive &&
			res.CopyID != nil && *res.CopyID == copyID {
			return true, nil
		}
	}
	return false, nil
}

// Catalog

func (r *memRepo) CreateWork(_ context.Context, req model.CreateWorkRequest) (model.Work, error) {
	defer r.lock()()
	for _, w := range r.st.works {
		if w.ISBN == req.ISBN {
			return model.Work{}, errs.Conflict("work with isbn %s already exists", req.ISBN)
		}
	}
	w := model.Work{ID: r.st.id(), ISBN: req.ISBN, Title: req.Title, Category: req.Category}
	r.st.works[w.ID] = w
	return w, nil
}

func (r *memRepo) GetWork(_ context.Context, id int64) (model.Work, error) {
	defer r.lock()()
	w, ok := r.st.works[id]
	if !ok {
		return model.Work{}, errs.NotFound("work %d not found", id)
	}
	return w, nil
}

func (r *memRepo) AllocateCopySeq(_ context.Context, workID int64, n int) (model.Work, error) {
	defer r.lock()()
	w, ok := r.st.works[workID]
	if !ok {
		return model.Work{}, errs.NotFound("work %d not found", workID)
	}
	w.CopySeq += n
	r.st.works[workID] = w
	return w, nil
}

func (r *memRepo) ReaderExists(_ context.Context, id int64) (bool, error) {
	defer r.lock()()
	return r.st.readers[id], nil
}

func (r *memRepo) CountWorks(_ context.Context) (int, error) {
	defer r.lock()()
	return len(r.st.works), nil
}

func (r *memRepo) CountReaders(_ context.Context) (int, error) {
	defer r.lock()()
	return len(r.st.readers), nil
}

func (r *memRepo) PopularCategories(_ context.Context, limit int) ([]model.CategoryCount, error) {
	defer r.lock()()
	counts := map[string]int{}
	for _, w := range r.st.works {
		if w.Category != nil {
			counts[*w.Category]++
		}
	}
	out := make([]model.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, model.CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CirculationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev kafka.CirculationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []kafka.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]kafka.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}
