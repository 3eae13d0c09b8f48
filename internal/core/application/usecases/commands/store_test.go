package commands_test

import (
	"context"
	"sync"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

// memoryStore is an in-process stand-in for the postgres adapters. Each unit
// of work buffers its writes and applies them on Commit. Order and dispute
// updates are conditional on the state they were loaded with, like the SQL
// updates are.
type memoryStore struct {
	mu           sync.Mutex
	orders       map[kernel.UUID]order.Snapshot
	disputes     map[kernel.UUID]dispute.Snapshot
	proofs       []*verification.Proof
	transactions []*ledger.Transaction
	members      map[kernel.UUID]*party.Member
	ratings      []*party.Rating
	commits      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:   make(map[kernel.UUID]order.Snapshot),
		disputes: make(map[kernel.UUID]dispute.Snapshot),
		members:  make(map[kernel.UUID]*party.Member),
	}
}

func (s *memoryStore) Create() commands.UoW {
	return &memoryUoW{store: s}
}

func (s *memoryStore) order(id kernel.UUID) (order.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.orders[id]
	return snap, ok
}

func (s *memoryStore) transactionsOf(orderID kernel.UUID) []*ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*ledger.Transaction
	for _, tx := range s.transactions {
		if tx.OrderID().IsEqual(orderID) {
			out = append(out, tx)
		}
	}
	return out
}

func (s *memoryStore) disputesOf(orderID kernel.UUID) []dispute.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dispute.Snapshot
	for _, d := range s.disputes {
		if d.OrderID.IsEqual(orderID) {
			out = append(out, d)
		}
	}
	return out
}

func (s *memoryStore) member(id kernel.UUID) (*party.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, false
	}
	return copyMember(m), true
}

func (s *memoryStore) putMember(m *party.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID()] = copyMember(m)
}

func copyMember(m *party.Member) *party.Member {
	c, err := party.RestoreMember(m.ID(), m.Role(), m.Availability(), m.Strikes(), m.IsBanned(),
		m.Rating(), m.TotalRatings(), m.Version())
	if err != nil {
		panic(err)
	}
	return c
}

type memoryUoW struct {
	store *memoryStore

	orders       map[kernel.UUID]order.Snapshot
	disputes     map[kernel.UUID]dispute.Snapshot
	proofs       []*verification.Proof
	transactions []*ledger.Transaction
	members      map[kernel.UUID]*party.Member
	ratings      []*party.Rating
}

func (u *memoryUoW) Begin(context.Context) error {
	u.reset()
	return nil
}

func (u *memoryUoW) reset() {
	u.orders = make(map[kernel.UUID]order.Snapshot)
	u.disputes = make(map[kernel.UUID]dispute.Snapshot)
	u.members = make(map[kernel.UUID]*party.Member)
	u.proofs, u.transactions, u.ratings = nil, nil, nil
}

func (u *memoryUoW) Commit(context.Context) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, snap := range u.orders {
		s.orders[id] = snap
	}
	for id, snap := range u.disputes {
		s.disputes[id] = snap
	}
	for id, m := range u.members {
		s.members[id] = m
	}
	s.proofs = append(s.proofs, u.proofs...)
	s.transactions = append(s.transactions, u.transactions...)
	s.ratings = append(s.ratings, u.ratings...)
	s.commits++
	u.reset()
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	u.reset()
	return nil
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository             { return memoryOrders{u} }
func (u *memoryUoW) DisputeRepository() ports.DisputeRepository         { return memoryDisputes{u} }
func (u *memoryUoW) ProofRepository() ports.ProofRepository             { return memoryProofs{u} }
func (u *memoryUoW) TransactionRepository() ports.TransactionRepository { return memoryTransactions{u} }
func (u *memoryUoW) MemberDirectory() ports.MemberDirectory             { return memoryMembers{u} }
func (u *memoryUoW) RatingRepository() ports.RatingRepository           { return memoryRatings{u} }

// current returns the order as this unit of work sees it.
func (u *memoryUoW) currentOrder(id kernel.UUID) (order.Snapshot, bool) {
	if snap, ok := u.orders[id]; ok {
		return snap, true
	}
	return u.store.order(id)
}

type memoryOrders struct{ u *memoryUoW }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	if _, exists := r.u.currentOrder(o.ID()); exists {
		return errs.NewIntegrityViolationError(errs.ErrValueIsInvalid, "duplicate order id")
	}
	r.u.orders[o.ID()] = o.Snapshot()
	o.MarkPersisted()
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	stored, ok := r.u.currentOrder(o.ID())
	if !ok {
		return errs.NewObjectNotFoundError("orderId", o.ID())
	}
	if stored.Status != o.LoadedStatus() || stored.Version != o.LoadedVersion() {
		return errs.NewConcurrentModificationError("order", o.ID())
	}
	r.u.orders[o.ID()] = o.Snapshot()
	o.MarkPersisted()
	return nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	snap, ok := r.u.currentOrder(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return order.Restore(snap)
}

func (r memoryOrders) GetDueForAutoConfirmation(_ context.Context, now time.Time, limit int) ([]*order.Order, error) {
	s := r.u.store
	s.mu.Lock()
	var due []order.Snapshot
	for _, snap := range s.orders {
		deadline := snap.DeliveryConfirmationDeadline
		if snap.Status == order.Delivered && deadline != nil && deadline.Before(now) {
			due = append(due, snap)
		}
	}
	s.mu.Unlock()

	var out []*order.Order
	for _, snap := range due {
		if len(out) == limit {
			break
		}
		o, err := order.Restore(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

type memoryDisputes struct{ u *memoryUoW }

func (r memoryDisputes) current(id kernel.UUID) (dispute.Snapshot, bool) {
	if snap, ok := r.u.disputes[id]; ok {
		return snap, true
	}
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.disputes[id]
	return snap, ok
}

func (r memoryDisputes) Add(ctx context.Context, d *dispute.Dispute) error {
	active, err := r.HasActive(ctx, d.OrderID())
	if err != nil {
		return err
	}
	if active {
		return errs.NewPreconditionFailedError(order.ErrOrderNotDisputable, "order already has an active dispute")
	}
	r.u.disputes[d.ID()] = d.Snapshot()
	d.MarkPersisted()
	return nil
}

func (r memoryDisputes) Update(_ context.Context, d *dispute.Dispute) error {
	stored, ok := r.current(d.ID())
	if !ok {
		return errs.NewObjectNotFoundError("disputeId", d.ID())
	}
	if stored.Status != d.LoadedStatus() {
		return errs.NewConcurrentModificationError("dispute", d.ID())
	}
	r.u.disputes[d.ID()] = d.Snapshot()
	d.MarkPersisted()
	return nil
}

func (r memoryDisputes) Get(_ context.Context, id kernel.UUID) (*dispute.Dispute, error) {
	snap, ok := r.current(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("disputeId", id)
	}
	return dispute.Restore(snap), nil
}

func (r memoryDisputes) HasActive(_ context.Context, orderID kernel.UUID) (bool, error) {
	for _, snap := range r.u.disputes {
		if snap.OrderID.IsEqual(orderID) && snap.Status.IsActive() {
			return true, nil
		}
	}
	for _, snap := range r.u.store.disputesOf(orderID) {
		if _, shadowed := r.u.disputes[snap.ID]; !shadowed && snap.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

type memoryProofs struct{ u *memoryUoW }

func (r memoryProofs) all() []*verification.Proof {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(append([]*verification.Proof(nil), s.proofs...), r.u.proofs...)
}

func (r memoryProofs) Add(ctx context.Context, p *verification.Proof) error {
	if _, err := r.Find(ctx, p.OrderID(), p.Checkpoint()); err == nil {
		return errs.NewPreconditionFailedError(verification.ErrAlreadyVerified, p.Checkpoint().String())
	}
	r.u.proofs = append(r.u.proofs, p)
	return nil
}

func (r memoryProofs) Find(_ context.Context, orderID kernel.UUID, c verification.Checkpoint) (*verification.Proof, error) {
	for _, p := range r.all() {
		if p.OrderID().IsEqual(orderID) && p.Checkpoint() == c {
			return p, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("proof", orderID.String()+"/"+c.String())
}

type memoryTransactions struct{ u *memoryUoW }

func (r memoryTransactions) all() []*ledger.Transaction {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(append([]*ledger.Transaction(nil), s.transactions...), r.u.transactions...)
}

func (r memoryTransactions) Add(_ context.Context, tx *ledger.Transaction) error {
	for _, existing := range r.all() {
		if existing.Reference() == tx.Reference() {
			return errs.NewIntegrityViolationError(ledger.ErrReferenceCollision, tx.Reference())
		}
		if existing.IsCompleted() && tx.IsCompleted() &&
			existing.OrderID().IsEqual(tx.OrderID()) && existing.Type() == tx.Type() {
			return errs.NewIntegrityViolationError(errs.ErrValueIsInvalid, "duplicate "+tx.Type().String())
		}
	}
	r.u.transactions = append(r.u.transactions, tx)
	return nil
}

func (r memoryTransactions) FindCompleted(
	_ context.Context,
	orderID kernel.UUID,
	txType ledger.TransactionType,
) (*ledger.Transaction, error) {
	for _, tx := range r.all() {
		if tx.OrderID().IsEqual(orderID) && tx.Type() == txType && tx.IsCompleted() {
			return tx, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("transaction", orderID.String()+"/"+txType.String())
}

func (r memoryTransactions) ReferenceExists(_ context.Context, reference string) (bool, error) {
	for _, tx := range r.all() {
		if tx.Reference() == reference {
			return true, nil
		}
	}
	return false, nil
}

type memoryMembers struct{ u *memoryUoW }

func (r memoryMembers) current(id kernel.UUID) (*party.Member, bool) {
	if m, ok := r.u.members[id]; ok {
		return copyMember(m), true
	}
	return r.u.store.member(id)
}

func (r memoryMembers) Add(_ context.Context, m *party.Member) error {
	if _, exists := r.current(m.ID()); exists {
		return errs.NewIntegrityViolationError(errs.ErrValueIsInvalid, "duplicate member")
	}
	m.MarkPersisted()
	r.u.members[m.ID()] = copyMember(m)
	return nil
}

func (r memoryMembers) Update(_ context.Context, m *party.Member) error {
	stored, ok := r.current(m.ID())
	if !ok {
		return errs.NewObjectNotFoundError("memberId", m.ID())
	}
	if stored.Version() != m.Version() {
		return errs.NewConcurrentModificationError("member", m.ID())
	}
	m.MarkPersisted()
	r.u.members[m.ID()] = copyMember(m)
	return nil
}

func (r memoryMembers) Get(_ context.Context, id kernel.UUID) (*party.Member, error) {
	m, ok := r.current(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("memberId", id)
	}
	return m, nil
}

type memoryRatings struct{ u *memoryUoW }

func (r memoryRatings) Add(ctx context.Context, rating *party.Rating) error {
	exists, err := r.Exists(ctx, rating.OrderID(), rating.RaterID(), rating.RatedUserID())
	if err != nil {
		return err
	}
	if exists {
		return errs.NewPreconditionFailedError(commands.ErrAlreadyRated, rating.RatedUserID().String())
	}
	r.u.ratings = append(r.u.ratings, rating)
	return nil
}

func (r memoryRatings) Exists(_ context.Context, orderID, raterID, ratedUserID kernel.UUID) (bool, error) {
	s := r.u.store
	s.mu.Lock()
	all := append(append([]*party.Rating(nil), s.ratings...), r.u.ratings...)
	s.mu.Unlock()
	for _, rating := range all {
		if rating.OrderID().IsEqual(orderID) && rating.RaterID().IsEqual(raterID) && rating.RatedUserID().IsEqual(ratedUserID) {
			return true, nil
		}
	}
	return false, nil
}
