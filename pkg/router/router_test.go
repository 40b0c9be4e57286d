package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safevault/mockvault/pkg/config"
	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/vault"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

func newTestRouter(t *testing.T) (*Router, identity.PublicKey, vaulttypes.Authority) {
	t.Helper()
	v := vault.New(config.Default())
	r := New(v, 16)

	owner, err := identity.NewSigningKeyPair()
	require.NoError(t, err)
	accountName := vaulttypes.HashName(owner.Public[:])
	dst := vaulttypes.ClientManager(accountName)

	ok := r.PutMData(dst, vault.PutMDataRequest{
		Name:    accountName,
		TypeTag: config.SessionPacketTypeTag,
		Owners:  []identity.PublicKey{owner.Public},
	}, owner.Public, vaulttypes.NewMessageID())
	require.True(t, ok)

	return r, owner.Public, dst
}

func TestConnectedEventIsEmittedFirst(t *testing.T) {
	v := vault.New(config.Default())
	r := New(v, 4)

	ev := <-r.Events()
	assert.Equal(t, KindConnected, ev.Kind)
	assert.True(t, ev.MessageID.IsZero())
}

func TestEveryRequestYieldsExactlyOneMatchingResponse(t *testing.T) {
	r, _, _ := newTestRouter(t)
	<-r.Events() // Connected
	<-r.Events() // response to the account-creation PutMData in newTestRouter

	dst := vaulttypes.ClientManager(vaulttypes.Name{})
	msgID := vaulttypes.NewMessageID()
	ok := r.GetAccountInfo(dst, msgID)
	require.True(t, ok)

	ev := <-r.Events()
	assert.Equal(t, KindGetAccountInfo, ev.Kind)
	assert.Equal(t, msgID, ev.MessageID)
	assert.Error(t, ev.AccountInfo.Err)
}

func TestPutIDataThenGetIDataRoundTrips(t *testing.T) {
	r, _, dst := newTestRouter(t)
	<-r.Events() // Connected
	<-r.Events() // account creation response

	blob := []byte("round trip me")
	putID := vaulttypes.NewMessageID()
	r.PutIData(dst, blob, putID)

	ev := <-r.Events()
	require.Equal(t, KindPutIData, ev.Kind)
	require.Equal(t, putID, ev.MessageID)
	require.Nil(t, ev.Name.Err)
	name := ev.Name.Value

	getID := vaulttypes.NewMessageID()
	r.GetIData(vaulttypes.NaeManager(name), name, getID)

	ev = <-r.Events()
	require.Equal(t, KindGetIData, ev.Kind)
	require.Equal(t, getID, ev.MessageID)
	require.Nil(t, ev.Blob.Err)
	assert.Equal(t, blob, ev.Blob.Value)
}
