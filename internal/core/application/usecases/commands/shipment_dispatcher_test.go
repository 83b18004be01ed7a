package commands_test

import (
	"testing"
	"time"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// readyAwaitingShipment leaves a home delivery order Ready without a tracking
// id after one failed courier call.
func readyAwaitingShipment(t *testing.T, f *fixture) *order.Order {
	t.Helper()

	created := f.createOrder(t, order.DeliveryTypeDelivery)
	_, err := f.acceptOrder(t, created.ID(), f.adminA)
	require.NoError(t, err)

	f.courier.On("CreateShipment", mock.Anything, mock.Anything).
		Return("", errs.NewCourierFailureError("create shipment", 500)).Once()
	ready, err := f.markOrderReady(t, created.ID(), f.adminA, appointment)
	require.NoError(t, err)
	require.True(t, ready.NeedsShipment())

	return ready
}

func (s *memoryStore) claim(id kernel.UUID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[id] = at
}

func TestShipmentDispatcher_FailedCallReleasesClaim(t *testing.T) {
	f := newFixture(t)
	ready := readyAwaitingShipment(t, f)

	f.store.mu.Lock()
	_, held := f.store.claims[ready.ID()]
	f.store.mu.Unlock()

	assert.False(t, held)
}

func TestShipmentDispatcher_SkipsClaimedOrder(t *testing.T) {
	f := newFixture(t)
	ready := readyAwaitingShipment(t, f)
	f.store.claim(ready.ID(), time.Now())

	err := f.dispatcher.Ship(t.Context(), ready)

	require.ErrorIs(t, err, commands.ErrShipmentInProgress)
	f.courier.AssertNumberOfCalls(t, "CreateShipment", 1)
	assert.Equal(t, order.Ready, f.store.order(t, ready.ID()).Status())
}

func TestShipmentDispatcher_TakesOverStaleClaim(t *testing.T) {
	f := newFixture(t)
	ready := readyAwaitingShipment(t, f)
	f.store.claim(ready.ID(), time.Now().Add(-time.Hour))

	f.courier.On("CreateShipment", mock.Anything, mock.Anything).Return("TRK-STALE", nil).Once()
	f.courier.On("MarkReady", mock.Anything, []string{"TRK-STALE"}).Return(nil).Once()

	err := f.dispatcher.Ship(t.Context(), ready)

	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, f.store.order(t, ready.ID()).Status())
	f.courier.AssertExpectations(t)
}

func TestRetryPendingShipments_SkipsClaimedOrders(t *testing.T) {
	f := newFixture(t)
	ready := readyAwaitingShipment(t, f)
	f.store.claim(ready.ID(), time.Now())

	cmd, err := commands.NewRetryPendingShipmentsCommand(commands.DefaultRetryBatchSize)
	require.NoError(t, err)

	shipped, err := f.retry.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Zero(t, shipped)
	f.courier.AssertNumberOfCalls(t, "CreateShipment", 1)
}

func TestShipmentDispatcher_CountsCourierOutcomes(t *testing.T) {
	f := newFixture(t)
	ready := readyAwaitingShipment(t, f)

	assert.Equal(t, int64(1), f.counterValue(t, "lectio.courier.failures"))
	assert.Zero(t, f.counterValue(t, "lectio.shipments.created"))

	f.courier.On("CreateShipment", mock.Anything, mock.Anything).Return("TRK-COUNTED", nil).Once()
	f.courier.On("MarkReady", mock.Anything, []string{"TRK-COUNTED"}).Return(nil).Once()
	require.NoError(t, f.dispatcher.Ship(t.Context(), ready))

	assert.Equal(t, int64(1), f.counterValue(t, "lectio.courier.failures"))
	assert.Equal(t, int64(1), f.counterValue(t, "lectio.shipments.created"))
}
