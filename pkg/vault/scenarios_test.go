package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safevault/mockvault/pkg/config"
	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

func newOwnedAccount(t *testing.T, v *Vault) (identity.PublicKey, vaulttypes.Authority) {
	t.Helper()
	owner, err := identity.NewSigningKeyPair()
	require.NoError(t, err)
	accountName := vaulttypes.HashName(owner.Public[:])
	dst := vaulttypes.ClientManager(accountName)

	err = v.PutMData(dst, PutMDataRequest{
		Name:    accountName,
		TypeTag: config.SessionPacketTypeTag,
		Owners:  []identity.PublicKey{owner.Public},
	}, owner.Public)
	require.NoError(t, err)

	return owner.Public, dst
}

func codeOf(t *testing.T, err error) vaulterrors.Code {
	t.Helper()
	code, ok := vaulterrors.CodeOf(err)
	require.True(t, ok, "expected a vaulterrors.Error, got %v", err)
	return code
}

// Scenario 1: immutable dedup + quota (spec.md §8.1).
func TestScenarioImmutableDedupAndQuota(t *testing.T) {
	v := New(config.Default())
	owner, dst := newOwnedAccount(t, v)
	_ = owner

	blob := make([]byte, 100)
	for i := range blob {
		blob[i] = byte(i)
	}

	name, err := v.PutIData(dst, blob)
	require.NoError(t, err)
	assert.Equal(t, vaulttypes.HashName(blob), name)

	got, err := v.GetIData(vaulttypes.NaeManager(name), name)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	info, err := v.GetAccountInfo(dst)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.MutationsDone)
	assert.Equal(t, uint64(499), info.MutationsAvailable)

	_, err = v.PutIData(dst, blob)
	require.NoError(t, err)

	info, err = v.GetAccountInfo(dst)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.MutationsDone)
	assert.Equal(t, uint64(498), info.MutationsAvailable)
}

// Scenario 2: mutable basics (spec.md §8.2).
func TestScenarioMutableBasics(t *testing.T) {
	v := New(config.Default())
	owner, dst := newOwnedAccount(t, v)

	objName := vaulttypes.HashName([]byte("object-n"))
	const tag = uint64(1000)
	require.NoError(t, v.PutMData(dst, PutMDataRequest{
		Name:    objName,
		TypeTag: tag,
		Owners:  []identity.PublicKey{owner},
	}, owner))

	version, err := v.GetMDataVersion(vaulttypes.NaeManager(objName), objName, tag)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), version)

	v0 := vaulttypes.Value{Content: []byte("v0"), EntryVersion: 0}
	v1 := vaulttypes.Value{Content: []byte("v1"), EntryVersion: 0}
	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Ins(v0),
		"key1": vaulttypes.Ins(v1),
	}, owner))

	entries, err := v.ListMDataEntries(vaulttypes.NaeManager(objName), objName, tag)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(0), entries["key0"].EntryVersion)
	assert.Equal(t, uint64(0), entries["key1"].EntryVersion)

	_, err = v.GetMDataValue(vaulttypes.NaeManager(objName), objName, tag, "key2")
	require.Error(t, err)
	assert.Equal(t, vaulterrors.NoSuchEntry, codeOf(t, err))
}

// Scenario 3: version monotonicity (spec.md §8.3).
func TestScenarioVersionMonotonicity(t *testing.T) {
	v := New(config.Default())
	owner, dst := newOwnedAccount(t, v)

	objName := vaulttypes.HashName([]byte("object-n"))
	const tag = uint64(1000)
	require.NoError(t, v.PutMData(dst, PutMDataRequest{
		Name: objName, TypeTag: tag, Owners: []identity.PublicKey{owner},
	}, owner))

	v0 := vaulttypes.Value{Content: []byte("v0"), EntryVersion: 0}
	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{"key0": vaulttypes.Ins(v0)}, owner))

	err := v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Ins(vaulttypes.Value{Content: []byte("v0"), EntryVersion: 0}),
	}, owner)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.EntryExists, codeOf(t, err))

	err = v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Update(vaulttypes.Value{Content: []byte("v1"), EntryVersion: 0}),
	}, owner)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.InvalidSuccessor, codeOf(t, err))

	err = v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Update(vaulttypes.Value{Content: []byte("v1"), EntryVersion: 314159265}),
	}, owner)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.InvalidSuccessor, codeOf(t, err))

	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Update(vaulttypes.Value{Content: []byte("v1"), EntryVersion: 1}),
	}, owner))

	err = v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Del(1),
	}, owner)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.InvalidSuccessor, codeOf(t, err))

	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"key0": vaulttypes.Del(2),
	}, owner))

	got, err := v.GetMDataValue(vaulttypes.NaeManager(objName), objName, tag, "key0")
	require.NoError(t, err)
	assert.True(t, got.IsTombstone())
	assert.Equal(t, uint64(2), got.EntryVersion)
}

// Scenario 4: permissions lifecycle (spec.md §8.4).
func TestScenarioPermissionsLifecycle(t *testing.T) {
	v := New(config.Default())
	owner, dst := newOwnedAccount(t, v)
	otherKP, err := identity.NewSigningKeyPair()
	require.NoError(t, err)
	other := otherKP.Public

	objName := vaulttypes.HashName([]byte("object-n"))
	const tag = uint64(1000)
	require.NoError(t, v.PutMData(dst, PutMDataRequest{
		Name: objName, TypeTag: tag, Owners: []identity.PublicKey{owner},
	}, owner))

	err = v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"k": vaulttypes.Ins(vaulttypes.Value{Content: []byte("v"), EntryVersion: 0}),
	}, other)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.AccessDenied, codeOf(t, err))

	var allowInsert vaulttypes.PermissionSet
	allowInsert = allowInsert.Allow(vaulttypes.ActionInsert)
	require.NoError(t, v.SetMDataUserPermissions(dst, objName, tag, vaulttypes.KeyUser(other), allowInsert, 1, owner))

	version, err := v.GetMDataVersion(vaulttypes.NaeManager(objName), objName, tag)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"k": vaulttypes.Ins(vaulttypes.Value{Content: []byte("v"), EntryVersion: 0}),
	}, other))

	err = v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"k": vaulttypes.Update(vaulttypes.Value{Content: []byte("v2"), EntryVersion: 1}),
	}, other)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.AccessDenied, codeOf(t, err))

	err = v.SetMDataUserPermissions(dst, objName, tag, vaulttypes.KeyUser(other), allowInsert, 1, owner)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.InvalidSuccessor, codeOf(t, err))

	var allowBoth vaulttypes.PermissionSet
	allowBoth = allowBoth.Allow(vaulttypes.ActionInsert).Allow(vaulttypes.ActionUpdate)
	require.NoError(t, v.SetMDataUserPermissions(dst, objName, tag, vaulttypes.KeyUser(other), allowBoth, 2, owner))

	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"k": vaulttypes.Update(vaulttypes.Value{Content: []byte("v2"), EntryVersion: 1}),
	}, other))

	require.NoError(t, v.DelMDataUserPermissions(dst, objName, tag, vaulttypes.KeyUser(other), 3, owner))

	err = v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"k2": vaulttypes.Ins(vaulttypes.Value{Content: []byte("v"), EntryVersion: 0}),
	}, other)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.AccessDenied, codeOf(t, err))
}

// Scenario 5: atomic multi-action failure (spec.md §8.5).
func TestScenarioAtomicMultiActionFailure(t *testing.T) {
	v := New(config.Default())
	owner, dst := newOwnedAccount(t, v)

	objName := vaulttypes.HashName([]byte("object-n"))
	const tag = uint64(1000)
	require.NoError(t, v.PutMData(dst, PutMDataRequest{
		Name: objName, TypeTag: tag, Owners: []identity.PublicKey{owner},
	}, owner))

	require.NoError(t, v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"a": vaulttypes.Ins(vaulttypes.Value{Content: []byte("a0"), EntryVersion: 0}),
	}, owner))

	err := v.MutateMDataEntries(dst, objName, tag, map[string]vaulttypes.EntryAction{
		"b": vaulttypes.Ins(vaulttypes.Value{Content: []byte("b0"), EntryVersion: 0}),
		"a": vaulttypes.Update(vaulttypes.Value{Content: []byte("a5"), EntryVersion: 5}),
	}, owner)
	require.Error(t, err)
	assert.Equal(t, vaulterrors.InvalidSuccessor, codeOf(t, err))

	entries, err := v.ListMDataEntries(vaulttypes.NaeManager(objName), objName, tag)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries, "a")
	assert.NotContains(t, entries, "b")
}

// Scenario 6: quota exhaustion (spec.md §8.6). Scaled to a small quota to
// keep the test fast; the mechanism doesn't depend on the default's size.
func TestScenarioQuotaExhaustion(t *testing.T) {
	cfg := config.Config{DefaultMaxMutations: 3, RouterChannelCapacity: 1}
	v := New(cfg)
	owner, dst := newOwnedAccount(t, v)
	_ = owner

	blob := []byte("x")
	for i := 0; i < 3; i++ {
		// distinct content each time; PutIData charges one mutation per call either way
		_, err := v.PutIData(dst, append(blob, byte(i)))
		require.NoError(t, err)
	}

	_, err := v.PutIData(dst, append(blob, byte(99)))
	require.Error(t, err)
	assert.Equal(t, vaulterrors.LowBalance, codeOf(t, err))

	info, err := v.GetAccountInfo(dst)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), info.MutationsDone)
	assert.Equal(t, uint64(0), info.MutationsAvailable)
}
