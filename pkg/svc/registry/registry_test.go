package registry_test

import (
	"testing"

	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`# nodes provisioned by hand
[staging-appserver]
instance_id     = i-0abc
public_dns_name = ec2-1-2-3-4.compute-1.amazonaws.com

[production-appserver]
instance_id = 4711
address     = 203.0.113.7
`)

	reg, err := registry.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"staging-appserver", "production-appserver"}, reg.Names())

	staging, ok := reg.Get("staging-appserver")
	require.True(t, ok)
	assert.Equal(t, registry.Record{
		Name:       "staging-appserver",
		InstanceID: "i-0abc",
		Address:    "ec2-1-2-3-4.compute-1.amazonaws.com",
	}, staging)

	production, ok := reg.Get("production-appserver")
	require.True(t, ok)
	assert.Equal(t, "203.0.113.7", production.Address)
}

func TestParseCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not ini", data: "this is not a registry\n"},
		{name: "missing instance id", data: "[web]\npublic_dns_name = host\n"},
		{name: "missing address", data: "[web]\ninstance_id = i-1\n"},
		{name: "blank values", data: "[web]\ninstance_id = \npublic_dns_name = host\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := registry.Parse([]byte(testCase.data))

			require.ErrorIs(t, err, registry.ErrStoreCorrupt)
		})
	}
}

func TestParseIgnoresDefaultSection(t *testing.T) {
	t.Parallel()

	reg, err := registry.Parse([]byte("owner = ops\n\n[web]\ninstance_id = i-1\npublic_dns_name = h\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"web"}, reg.Names())

	_, ok := reg.Get("DEFAULT")
	assert.False(t, ok)
}

func TestChildSectionsDoNotInherit(t *testing.T) {
	t.Parallel()

	_, err := registry.Parse([]byte("[web]\ninstance_id = i-1\npublic_dns_name = h\n\n[web.prod]\ninstance_id = i-2\n"))

	require.ErrorIs(t, err, registry.ErrStoreCorrupt, "web.prod must not borrow the address of web")
}

func TestPutGetRemove(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	record := registry.Record{Name: "web", InstanceID: "i-1", Address: "host-1"}

	require.NoError(t, reg.Put(record))

	got, ok := reg.Get("web")
	require.True(t, ok)
	assert.Equal(t, record, got)

	replaced := registry.Record{Name: "web", InstanceID: "i-2", Address: "host-2"}
	require.NoError(t, reg.Put(replaced))

	got, _ = reg.Get("web")
	assert.Equal(t, replaced, got)
	assert.Equal(t, 1, reg.Len())

	reg.Remove("web")
	reg.Remove("web")

	_, ok = reg.Get("web")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}

func TestPutReplacesAddressAlias(t *testing.T) {
	t.Parallel()

	reg, err := registry.Parse([]byte("[web]\ninstance_id = i-1\naddress = old\n"))
	require.NoError(t, err)

	require.NoError(t, reg.Put(registry.Record{Name: "web", InstanceID: "i-1", Address: "new"}))

	data, err := reg.Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "address ")
	assert.Contains(t, string(data), "public_dns_name = new")
}

func TestPutRejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record registry.Record
	}{
		{name: "empty name", record: registry.Record{InstanceID: "i-1", Address: "h"}},
		{name: "bracket in name", record: registry.Record{Name: "a]b", InstanceID: "i-1", Address: "h"}},
		{name: "newline in name", record: registry.Record{Name: "a\nb", InstanceID: "i-1", Address: "h"}},
		{name: "default section name", record: registry.Record{Name: "DEFAULT", InstanceID: "i-1", Address: "h"}},
		{name: "no instance id", record: registry.Record{Name: "web", Address: "h"}},
		{name: "no address", record: registry.Record{Name: "web", InstanceID: "i-1"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			reg := registry.New()

			require.ErrorIs(t, reg.Put(testCase.record), registry.ErrInvalidRecord)
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestGetMissingDoesNotCreateSection(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	_, ok := reg.Get("ghost")

	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
}
