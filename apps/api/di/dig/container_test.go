package dig_container

import (
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/Aastha-hs1d/JyotiPortal/apps/api/echo"
	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

func TestNew(t *testing.T) {
	c := New(core.NewTestConfig)

	err := c.Invoke(func(server *echoapi.Server, runner *announcement.Runner, store core.KVStore) {
		require.NotNil(t, server)
		require.NotNil(t, runner)
		require.NoError(t, store.Close())
	})
	require.NoError(t, err)
}
