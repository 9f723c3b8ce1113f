package registry

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// INI keys of a node section.
const (
	KeyInstanceID = "instance_id"
	KeyAddress    = "public_dns_name"
	// KeyAddressAlias is accepted on read for hand-written files.
	KeyAddressAlias = "address"
)

// ReservedName is the INI default section. Keys written under it do not form
// a node section, so it cannot be used as a node name.
//
//nolint:gochecknoglobals
var ReservedName = ini.DefaultSection

// loadOptions disables child-section inheritance: a node named "web.prod"
// must not pick up keys from a node named "web".
//
//nolint:gochecknoglobals
var loadOptions = ini.LoadOptions{ChildSectionDelimiter: "\x00"}

// Record describes one provisioned node.
type Record struct {
	Name       string `json:"name"`
	InstanceID string `json:"instanceID"`
	Address    string `json:"address"`
}

// Validate reports whether r can be stored.
func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidRecord)
	case strings.ContainsAny(r.Name, "[]\r\n"):
		return fmt.Errorf("%w: name %q contains '[', ']' or a line break", ErrInvalidRecord, r.Name)
	case r.Name == ReservedName:
		return fmt.Errorf("%w: name %q is reserved", ErrInvalidRecord, r.Name)
	case r.InstanceID == "":
		return fmt.Errorf("%w: %s has no instance ID", ErrInvalidRecord, r.Name)
	case r.Address == "":
		return fmt.Errorf("%w: %s has no address", ErrInvalidRecord, r.Name)
	}

	return nil
}

// Registry is the in-memory form of the registry file. It keeps the parsed
// INI document, so comments and unknown keys an operator added by hand
// survive a Save.
type Registry struct {
	file *ini.File
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{file: ini.Empty(loadOptions)}
}

// Parse decodes registry file content.
func Parse(data []byte) (*Registry, error) {
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreCorrupt, err)
	}

	reg := &Registry{file: file}

	for _, section := range reg.nodeSections() {
		_, err := recordFrom(section)
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Bytes encodes the registry in INI form.
func (r *Registry) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	_, err := r.file.WriteTo(&buf)
	if err != nil {
		return nil, fmt.Errorf("encode registry: %w", err)
	}

	return buf.Bytes(), nil
}

// Get returns the record for name.
func (r *Registry) Get(name string) (Record, bool) {
	if name == "" || name == ini.DefaultSection || !r.file.HasSection(name) {
		return Record{}, false
	}

	record, err := recordFrom(r.file.Section(name))
	if err != nil {
		return Record{}, false
	}

	return record, true
}

// Put inserts or replaces the section for record.Name.
func (r *Registry) Put(record Record) error {
	err := record.Validate()
	if err != nil {
		return err
	}

	section := r.file.Section(record.Name)
	section.DeleteKey(KeyAddressAlias)
	section.Key(KeyInstanceID).SetValue(record.InstanceID)
	section.Key(KeyAddress).SetValue(record.Address)

	return nil
}

// Remove deletes the section for name. Removing an absent name is a no-op.
func (r *Registry) Remove(name string) {
	if name == "" || name == ini.DefaultSection {
		return
	}

	r.file.DeleteSection(name)
}

// Names returns node names in file order.
func (r *Registry) Names() []string {
	sections := r.nodeSections()

	names := make([]string, 0, len(sections))
	for _, section := range sections {
		names = append(names, section.Name())
	}

	return names
}

// Records returns all records in file order.
func (r *Registry) Records() []Record {
	sections := r.nodeSections()

	records := make([]Record, 0, len(sections))

	for _, section := range sections {
		record, err := recordFrom(section)
		if err == nil {
			records = append(records, record)
		}
	}

	return records
}

// Len returns the number of nodes.
func (r *Registry) Len() int {
	return len(r.nodeSections())
}

func (r *Registry) nodeSections() []*ini.Section {
	all := r.file.Sections()

	sections := make([]*ini.Section, 0, len(all))
	for _, section := range all {
		if section.Name() != ini.DefaultSection {
			sections = append(sections, section)
		}
	}

	return sections
}

func recordFrom(section *ini.Section) (Record, error) {
	record := Record{
		Name:       section.Name(),
		InstanceID: value(section, KeyInstanceID),
		Address:    value(section, KeyAddress),
	}

	if record.Address == "" {
		record.Address = value(section, KeyAddressAlias)
	}

	if record.InstanceID == "" {
		return Record{}, fmt.Errorf("%w: section [%s] has no %s", ErrStoreCorrupt, record.Name, KeyInstanceID)
	}

	if record.Address == "" {
		return Record{}, fmt.Errorf(
			"%w: section [%s] has neither %s nor %s",
			ErrStoreCorrupt, record.Name, KeyAddress, KeyAddressAlias,
		)
	}

	return record, nil
}

// value reads a key without creating it, unlike ini.Section.Key.
func value(section *ini.Section, name string) string {
	key, err := section.GetKey(name)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(key.String())
}
