package commands_test

import (
	"testing"

	"lectio/internal/core/application/usecases/commands"
	"lectio/internal/core/domain/model/kernel"
	"lectio/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReassignOrderAdminCommand_ValidInput(t *testing.T) {
	orderID, actorID, newAdminID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewReassignOrderAdminCommand(orderID, actorID, newAdminID)

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, actorID, cmd.ActorID())
	assert.Equal(t, newAdminID, cmd.NewAdminID())
}

func TestNewReassignOrderAdminCommand_MissingNewAdmin(t *testing.T) {
	_, err := commands.NewReassignOrderAdminCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestReassignOrderAdminCommand_ZeroValue(t *testing.T) {
	var cmd commands.ReassignOrderAdminCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrReassignOrderAdminCommandIsNotConstructed)
}
