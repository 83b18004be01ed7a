package commands_test

import (
	"testing"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/shipment"
	"lectio/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRetryPendingShipments(t *testing.T) {
	f := newFixture(t)

	first := f.createOrder(t, order.DeliveryTypeDelivery)
	second := f.createOrder(t, order.DeliveryTypeDelivery)
	pickup := f.createOrder(t, order.DeliveryTypePickup)

	f.courier.On("CreateShipment", mock.Anything, mock.Anything).
		Return("", errs.NewCourierFailureError("create shipment", 500)).Twice()
	for _, o := range []*order.Order{first, second, pickup} {
		_, err := f.acceptOrder(t, o.ID(), f.adminA)
		require.NoError(t, err)
		_, err = f.markOrderReady(t, o.ID(), f.adminA, appointment)
		require.NoError(t, err)
	}

	f.courier.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req shipment.Request) bool {
		return req.ExternalOrderID == first.ID().String()
	})).Return("TRK-1", nil).Once()
	f.courier.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req shipment.Request) bool {
		return req.ExternalOrderID == second.ID().String()
	})).Return("", errs.NewCourierFailureError("create shipment", 502)).Once()
	f.courier.On("MarkReady", mock.Anything, []string{"TRK-1"}).Return(nil).Once()

	cmd, err := commands.NewRetryPendingShipmentsCommand(commands.DefaultRetryBatchSize)
	require.NoError(t, err)

	shipped, err := f.retry.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, shipped)
	assert.Equal(t, order.OutForDelivery, f.store.order(t, first.ID()).Status())
	assert.Equal(t, order.Ready, f.store.order(t, second.ID()).Status())
	assert.Equal(t, order.Ready, f.store.order(t, pickup.ID()).Status())
	f.courier.AssertExpectations(t)
}
