package commands_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/material"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/shipment"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/core/ports"
	"lectio/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// memoryStore keeps committed orders as snapshots so every Get returns a fresh
// aggregate, the way a database would.
type memoryStore struct {
	mu        sync.Mutex
	orders    map[kernel.UUID]order.State
	materials map[kernel.UUID]*material.Material
	users     map[kernel.UUID]*user.User
	claims    map[kernel.UUID]time.Time

	// beforeUpdate runs inside Update and UpdateAssignedAdmin before the write, to simulate
	// a concurrent writer.
	beforeUpdate func(id kernel.UUID)
	commits      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:    make(map[kernel.UUID]order.State),
		materials: make(map[kernel.UUID]*material.Material),
		users:     make(map[kernel.UUID]*user.User),
		claims:    make(map[kernel.UUID]time.Time),
	}
}

func (s *memoryStore) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.orders[id]
	require.True(t, ok, "order %s not stored", id)
	o, err := order.RestoreOrder(state)
	require.NoError(t, err)
	return o
}

// mutate changes a committed order behind the handlers' back.
func (s *memoryStore) mutate(id kernel.UUID, change func(*order.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.orders[id]
	change(&state)
	s.orders[id] = state
}

func (s *memoryStore) Create() *memoryUoW {
	return &memoryUoW{store: s}
}

func (s *memoryStore) orderFactory() commands.OrderUoWFactory {
	return orderUoWFactory(func() commands.OrderUoW { return s.Create() })
}

func (s *memoryStore) uowFactory() commands.UoWFactory {
	return uoWFactory(func() commands.UoW { return s.Create() })
}

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

type uoWFactory func() commands.UoW

func (f uoWFactory) Create() commands.UoW { return f() }

// memoryUoW stages order writes until Commit.
type memoryUoW struct {
	store  *memoryStore
	active bool
	staged map[kernel.UUID]order.State
}

func (u *memoryUoW) Begin(context.Context) error {
	u.active = true
	u.staged = make(map[kernel.UUID]order.State)
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if !u.active {
		return errs.NewValueIsInvalidError("no active transaction")
	}
	u.store.mu.Lock()
	for id, state := range u.staged {
		u.store.orders[id] = state
	}
	u.store.commits++
	u.store.mu.Unlock()
	u.active, u.staged = false, nil
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	if !u.active {
		return errs.NewValueIsInvalidError("no active transaction")
	}
	u.active, u.staged = false, nil
	return nil
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository { return memoryOrders{u} }
func (u *memoryUoW) MaterialRepository() ports.MaterialRepository { return memoryMaterials{u.store} }
func (u *memoryUoW) UserRepository() ports.UserRepository { return memoryUsers{u.store} }

func (u *memoryUoW) write(id kernel.UUID, state order.State) {
	if u.active {
		u.staged[id] = state
		return
	}
	u.store.orders[id] = state
}

type memoryOrders struct{ uow *memoryUoW }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	if _, ok := r.uow.store.orders[o.ID()]; ok {
		return errs.NewValueIsInvalidError("duplicate order")
	}
	r.uow.write(o.ID(), o.State())
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order, expected order.Status) error {
	if hook := r.uow.store.beforeUpdate; hook != nil {
		hook(o.ID())
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	stored, ok := r.uow.store.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if stored.Status != expected {
		return errs.NewTransitionRejectedError("update", stored.Status.String(), expected.String())
	}
	r.uow.write(o.ID(), o.State())
	return nil
}

func (r memoryOrders) UpdateAssignedAdmin(_ context.Context, o *order.Order) error {
	if hook := r.uow.store.beforeUpdate; hook != nil {
		hook(o.ID())
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	stored, ok := r.uow.store.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	stored.AssignedAdmin = o.AssignedAdmin()
	r.uow.write(o.ID(), stored)
	return nil
}

func (r memoryOrders) ClaimShipment(_ context.Context, id kernel.UUID, claimedAt, staleBefore time.Time) (bool, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	state, ok := r.uow.store.orders[id]
	if !ok || state.Status != order.Ready || !state.Delivery.IsHomeDelivery() || state.TrackingID != "" {
		return false, nil
	}
	if at, held := r.uow.store.claims[id]; held && !at.Before(staleBefore) {
		return false, nil
	}
	r.uow.store.claims[id] = claimedAt
	return true, nil
}

func (r memoryOrders) ReleaseShipment(_ context.Context, id kernel.UUID) error {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	delete(r.uow.store.claims, id)
	return nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	state, ok := r.uow.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(state)
}

func (r memoryOrders) GetAllAwaitingShipment(_ context.Context, limit int) ([]*order.Order, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	var result []*order.Order
	for _, state := range r.uow.store.orders {
		o, err := order.RestoreOrder(state)
		if err != nil {
			return nil, err
		}
		if o.NeedsShipment() && len(result) < limit {
			result = append(result, o)
		}
	}
	return result, nil
}

type memoryMaterials struct{ store *memoryStore }

func (r memoryMaterials) Add(_ context.Context, m *material.Material) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.materials[m.ID()] = m
	return nil
}

func (r memoryMaterials) Get(_ context.Context, id kernel.UUID) (*material.Material, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.materials[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("material", id)
	}
	return m, nil
}

type memoryUsers struct{ store *memoryStore }

func (r memoryUsers) Add(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[u.ID()] = u
	return nil
}

func (r memoryUsers) Get(_ context.Context, id kernel.UUID) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("user", id)
	}
	return u, nil
}

type MockCourierClient struct{ mock.Mock }

func (m *MockCourierClient) CreateShipment(ctx context.Context, req shipment.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCourierClient) GetStatus(ctx context.Context, trackingIDs []string) (json.RawMessage, error) {
	args := m.Called(ctx, trackingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockCourierClient) MarkReady(ctx context.Context, trackingIDs []string) error {
	args := m.Called(ctx, trackingIDs)
	return args.Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...order.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) kinds() []order.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]order.EventKind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// fixture wires every handler over one memoryStore.
type fixture struct {
	store     *memoryStore
	courier   *MockCourierClient
	publisher *recordingPublisher
	metrics   *sdkmetric.ManualReader

	student *user.User
	adminA  *user.User
	adminB  *user.User

	priced100 *material.Material
	priced50  *material.Material

	create     commands.CreateOrderCommandHandler
	accept     commands.AcceptOrderCommandHandler
	markReady  commands.MarkOrderReadyCommandHandler
	deliver    commands.MarkOrderDeliveredCommandHandler
	reassign   commands.ReassignOrderAdminCommandHandler
	retry      commands.RetryPendingShipmentsCommandHandler
	dispatcher *commands.ShipmentDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     newMemoryStore(),
		courier:   new(MockCourierClient),
		publisher: &recordingPublisher{},
		metrics:   sdkmetric.NewManualReader(),
	}

	var err error
	f.student, err = user.NewUser(kernel.NewUUID(), "student@example.dz", "Nour H.", "0550111111", "Es Senia")
	require.NoError(t, err)
	f.adminA, err = user.NewUser(kernel.NewUUID(), "a@example.dz", "Admin A", "", "", user.RoleAdmin)
	require.NoError(t, err)
	f.adminB, err = user.NewUser(kernel.NewUUID(), "b@example.dz", "Admin B", "", "", user.RoleSuperAdmin)
	require.NoError(t, err)
	for _, u := range []*user.User{f.student, f.adminA, f.adminB} {
		f.store.users[u.ID()] = u
	}

	f.priced100, err = material.NewMaterial(kernel.NewUUID(), "Analyse 1", material.TypePolycopie, decimal.NewFromInt(100))
	require.NoError(t, err)
	f.priced50, err = material.NewMaterial(kernel.NewUUID(), "Algèbre", material.TypeBook, decimal.NewFromInt(50))
	require.NoError(t, err)
	f.store.materials[f.priced100.ID()] = f.priced100
	f.store.materials[f.priced50.ID()] = f.priced50

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(f.metrics))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	logger := zap.NewNop()
	f.dispatcher, err = commands.NewShipmentDispatcher(
		f.store.orderFactory(), f.courier, f.publisher, provider.Meter("test"), logger,
		commands.ShipmentDispatcherConfig{RegionCode: "31", Timeout: time.Second},
	)
	require.NoError(t, err)

	f.create = commands.NewCreateOrderCommandHandler(f.store.uowFactory(), f.publisher, logger)
	f.accept = commands.NewAcceptOrderCommandHandler(f.store.orderFactory(), f.publisher, logger)
	f.markReady = commands.NewMarkOrderReadyCommandHandler(f.store.orderFactory(), f.dispatcher, f.publisher, logger)
	f.deliver = commands.NewMarkOrderDeliveredCommandHandler(f.store.orderFactory(), f.publisher, logger)
	f.reassign = commands.NewReassignOrderAdminCommandHandler(f.store.orderFactory(), f.publisher, logger)
	f.retry = commands.NewRetryPendingShipmentsCommandHandler(f.store.orderFactory(), f.dispatcher, logger)

	return f
}

// createOrder places the two-line order (3 × 100, 1 × 50) used by the
// end-to-end scenarios.
func (f *fixture) createOrder(t *testing.T, deliveryType order.DeliveryType) *order.Order {
	t.Helper()

	var address, phone string
	if deliveryType == order.DeliveryTypeDelivery {
		address, phone = "Hai Sabah, Oran", "0770123456"
	}
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), f.student.ID(), []commands.OrderLine{
		{MaterialID: f.priced100.ID(), Quantity: 3, DeliveryType: deliveryType, DeliveryAddress: address, DeliveryPhone: phone},
		{MaterialID: f.priced50.ID(), Quantity: 1, DeliveryType: deliveryType, DeliveryAddress: address, DeliveryPhone: phone},
	})
	require.NoError(t, err)

	created, err := f.create.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return created
}

func (f *fixture) acceptOrder(t *testing.T, orderID kernel.UUID, admin *user.User) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewAcceptOrderCommand(orderID, admin.ID())
	require.NoError(t, err)
	return f.accept.Handle(t.Context(), cmd)
}

func (f *fixture) markOrderReady(t *testing.T, orderID kernel.UUID, admin *user.User, date time.Time) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewMarkOrderReadyCommand(orderID, admin.ID(), date)
	require.NoError(t, err)
	return f.markReady.Handle(t.Context(), cmd)
}

func (f *fixture) markOrderDelivered(t *testing.T, orderID kernel.UUID, admin *user.User) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewMarkOrderDeliveredCommand(orderID, admin.ID())
	require.NoError(t, err)
	return f.deliver.Handle(t.Context(), cmd)
}

// counterValue sums every data point of the named int64 counter.
func (f *fixture) counterValue(t *testing.T, name string) int64 {
	t.Helper()

	var collected metricdata.ResourceMetrics
	require.NoError(t, f.metrics.Collect(context.Background(), &collected))

	var total int64
	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, point := range sum.DataPoints {
				total += point.Value
			}
		}
	}
	return total
}
