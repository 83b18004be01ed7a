package commands_test

import (
	"testing"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/core/domain/model/order"
	"lectio/internal/core/domain/model/user"
	"lectio/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReassignOrderAdmin(t *testing.T) {
	reassign := func(t *testing.T, f *fixture, orderID kernel.UUID, actor *user.User, newAdminID kernel.UUID) (*order.Order, error) {
		t.Helper()
		cmd, err := commands.NewReassignOrderAdminCommand(orderID, actor.ID(), newAdminID)
		require.NoError(t, err)
		return f.reassign.Handle(t.Context(), cmd)
	}

	t.Run("keeps the status", func(t *testing.T) {
		f := newFixture(t)
		created := f.createOrder(t, order.DeliveryTypePickup)
		_, err := f.acceptOrder(t, created.ID(), f.adminA)
		require.NoError(t, err)

		reassigned, err := reassign(t, f, created.ID(), f.adminA, f.adminB.ID())

		require.NoError(t, err)
		assert.Equal(t, order.Printing, reassigned.Status())
		assert.True(t, f.store.order(t, created.ID()).AssignedAdmin().IsEqual(f.adminB.ID()))
		assert.Contains(t, f.publisher.kinds(), order.EventAdminReassigned)
	})

	t.Run("the new admin may hand over a pickup", func(t *testing.T) {
		f := newFixture(t)
		created := f.createOrder(t, order.DeliveryTypePickup)
		_, err := f.acceptOrder(t, created.ID(), f.adminA)
		require.NoError(t, err)
		_, err = f.markOrderReady(t, created.ID(), f.adminA, appointment)
		require.NoError(t, err)

		_, err = reassign(t, f, created.ID(), f.adminA, f.adminB.ID())
		require.NoError(t, err)

		_, err = f.markOrderDelivered(t, created.ID(), f.adminA)
		require.ErrorIs(t, err, errs.ErrTransitionRejected)
		_, err = f.markOrderDelivered(t, created.ID(), f.adminB)
		require.NoError(t, err)
	})

	t.Run("target must be staff", func(t *testing.T) {
		f := newFixture(t)
		created := f.createOrder(t, order.DeliveryTypePickup)

		_, err := reassign(t, f, created.ID(), f.adminA, f.student.ID())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Nil(t, f.store.order(t, created.ID()).AssignedAdmin())
	})

	t.Run("target must exist", func(t *testing.T) {
		f := newFixture(t)
		created := f.createOrder(t, order.DeliveryTypePickup)

		_, err := reassign(t, f, created.ID(), f.adminA, kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("students cannot reassign", func(t *testing.T) {
		f := newFixture(t)
		created := f.createOrder(t, order.DeliveryTypePickup)

		_, err := reassign(t, f, created.ID(), f.student, f.adminB.ID())

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestReassignOrderAdmin_ConcurrentStatusChange(t *testing.T) {
	f := newFixture(t)
	created := f.createOrder(t, order.DeliveryTypePickup)
	_, err := f.acceptOrder(t, created.ID(), f.adminA)
	require.NoError(t, err)

	// another admin marks the order ready between load and write
	readyAt := appointment
	f.store.beforeUpdate = func(id kernel.UUID) {
		f.store.mutate(id, func(state *order.State) {
			state.Status = order.Ready
			state.AppointmentDate = &readyAt
		})
	}

	cmd, err := commands.NewReassignOrderAdminCommand(created.ID(), f.adminA.ID(), f.adminB.ID())
	require.NoError(t, err)

	_, err = f.reassign.Handle(t.Context(), cmd)

	require.NoError(t, err)
	stored := f.store.order(t, created.ID())
	assert.Equal(t, order.Ready, stored.Status())
	assert.True(t, stored.AssignedAdmin().IsEqual(f.adminB.ID()))
	require.NotNil(t, stored.AppointmentDate())
}
