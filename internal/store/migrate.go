package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/sproutcare/sprout/ent/schema"
)

const (
	tableStudents         = "students"
	tableActivities       = "activities"
	tableGenerationEvents = "generation_events"
)

// schemaTables lists every persisted entity and its table name.
var schemaTables = []struct {
	name   string
	schema ent.Interface
}{
	{tableStudents, entschema.Student{}},
	{tableActivities, entschema.Activity{}},
	{tableGenerationEvents, entschema.GenerationEvent{}},
}

// migrate creates or updates every table described in ent/schema.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables := make([]*schema.Table, 0, len(schemaTables))
	for _, st := range schemaTables {
		t, err := buildTable(st.name, st.schema)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// buildTable converts an ent schema definition, mixins included, into the
// migration table that entc would otherwise generate.
func buildTable(name string, s ent.Interface) (*schema.Table, error) {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := schema.NewTable(name).AddPrimary(id)

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		t.AddColumn(columnFor(d))
	}
	for _, ix := range indexes {
		d := ix.Descriptor()
		for _, c := range d.Fields {
			if !t.HasColumn(c) {
				return nil, fmt.Errorf("%s: index on unknown column %q", name, c)
			}
		}
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t, nil
}

func columnFor(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional,
		Size:     int64(d.Size),
	}
	if d.StorageKey != "" {
		c.Name = d.StorageKey
	}
	for _, e := range d.Enums {
		c.Enums = append(c.Enums, e.V)
	}
	// Function defaults such as time.Now are applied in Go, not in SQL.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}
