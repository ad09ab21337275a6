package biometry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nfrund/starbeam/internal/biometry"
	"github.com/nfrund/starbeam/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_FullSuccess(t *testing.T) {
	fake := testutils.NewFakeBiometry()

	out, err := biometry.NewGate(fake).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, biometry.StateAuthorized, out.State)
	assert.Equal(t, []biometry.State{
		biometry.StateIdle,
		biometry.StateCheckingAvailability,
		biometry.StateMounting,
		biometry.StateRequestingAccess,
		biometry.StateAuthenticating,
		biometry.StateAuthorized,
	}, out.Trace)
	assert.Empty(t, out.Skipped)
	assert.Equal(t, []string{biometry.ReasonRequestAccess, biometry.ReasonAuthenticate}, fake.Reasons)
}

func TestGate_Unavailable(t *testing.T) {
	fake := testutils.NewFakeBiometry().Without(biometry.OpMount)

	out, err := biometry.NewGate(fake).Run(context.Background())

	require.ErrorIs(t, err, biometry.ErrUnavailable)
	assert.Equal(t, "Biometry is not available on your device", biometry.Message(err))
	assert.Equal(t, biometry.StateFailed, out.State)
	assert.Empty(t, fake.Calls, "no operation may run when biometry is unavailable")
}

func TestGate_AlreadyMounting(t *testing.T) {
	for _, msg := range []string{"already mounting", "Biometry is ALREADY MOUNTING", "err: Already Mounting."} {
		t.Run(msg, func(t *testing.T) {
			fake := testutils.NewFakeBiometry()
			fake.MountErr = errors.New(msg)

			out, err := biometry.NewGate(fake).Run(context.Background())

			require.NoError(t, err)
			assert.Equal(t, biometry.StateAuthorized, out.State)
			assert.Equal(t, 1, fake.CallCount(biometry.OpAuthenticate))
		})
	}
}

func TestGate_MountFailure(t *testing.T) {
	mountErr := errors.New("bridge closed")
	fake := testutils.NewFakeBiometry()
	fake.MountErr = mountErr

	out, err := biometry.NewGate(fake).Run(context.Background())

	require.ErrorIs(t, err, mountErr)
	assert.Empty(t, biometry.Message(err), "unexpected errors have no gate message")
	assert.Equal(t, biometry.StateFailed, out.State)
	assert.Zero(t, fake.CallCount(biometry.OpRequestAccess))
}

func TestGate_AccessDenied(t *testing.T) {
	fake := testutils.NewFakeBiometry()
	fake.Granted = false

	out, err := biometry.NewGate(fake).Run(context.Background())

	require.ErrorIs(t, err, biometry.ErrAccessDenied)
	assert.Equal(t, "Biometry access denied", biometry.Message(err))
	assert.Equal(t, biometry.StateDenied, out.State)
	assert.Zero(t, fake.CallCount(biometry.OpAuthenticate))
}

func TestGate_AuthenticationFailed(t *testing.T) {
	fake := testutils.NewFakeBiometry()
	fake.AuthStatus = "failed"

	out, err := biometry.NewGate(fake).Run(context.Background())

	require.ErrorIs(t, err, biometry.ErrAuthFailed)
	assert.Equal(t, "Authentication failed", biometry.Message(err))
	assert.Equal(t, biometry.StateFailed, out.State)
}

func TestGate_SkipsUnsupportedSteps(t *testing.T) {
	t.Run("no request access", func(t *testing.T) {
		fake := testutils.NewFakeBiometry().Without(biometry.OpRequestAccess)
		fake.Granted = false // would deny if it were asked

		out, err := biometry.NewGate(fake).Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []biometry.Operation{biometry.OpRequestAccess}, out.Skipped)
		assert.Zero(t, fake.CallCount(biometry.OpRequestAccess))
	})

	t.Run("no authenticate", func(t *testing.T) {
		fake := testutils.NewFakeBiometry().Without(biometry.OpAuthenticate)

		out, err := biometry.NewGate(fake).Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, biometry.StateAuthorized, out.State)
		assert.Equal(t, []biometry.Operation{biometry.OpAuthenticate}, out.Skipped)
	})
}

func TestGate_UnexpectedStepErrors(t *testing.T) {
	boom := errors.New("boom")

	fake := testutils.NewFakeBiometry()
	fake.AccessErr = boom
	_, err := biometry.NewGate(fake).Run(context.Background())
	assert.ErrorIs(t, err, boom)

	fake = testutils.NewFakeBiometry()
	fake.AuthErr = boom
	_, err = biometry.NewGate(fake).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestUnsupported(t *testing.T) {
	var m biometry.Manager = biometry.Unsupported{}
	assert.Empty(t, biometry.CapabilitiesOf(m))

	_, err := biometry.NewGate(m).Run(context.Background())
	assert.ErrorIs(t, err, biometry.ErrUnavailable)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "requesting_access", biometry.StateRequestingAccess.String())
	assert.True(t, biometry.StateDenied.Terminal())
	assert.False(t, biometry.StateMounting.Terminal())
}
