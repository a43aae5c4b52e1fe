package submission

import (
	"strings"
	"time"
)

// isoMillis matches JavaScript's Date.toISOString, which the sheet columns were
// built around.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Record is an accepted submission. It is built once per request and never mutated.
type Record struct {
	ID        string
	Category  Category
	Fields    map[string]string
	CreatedAt time.Time
	Status    string
}

// NewRecord keeps the category's known fields (trimmed, missing ones as ""),
// assigns an identifier and stamps the creation time.
func NewRecord(category Category, raw map[string]string, now time.Time) Record {
	k := kinds[category]

	fields := make(map[string]string, len(k.fields))
	for _, name := range k.fields {
		fields[name] = strings.TrimSpace(raw[name])
	}

	return Record{
		ID:        GenerateID(k.idPrefix(fields), now),
		Category:  category,
		Fields:    fields,
		CreatedAt: now.UTC(),
		Status:    k.status,
	}
}

// Field returns the named field value, or "".
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// IDKey is the key the identifier is stored and returned under.
func (r Record) IDKey() string {
	return kinds[r.Category].idKey
}

// Timestamp renders CreatedAt as ISO-8601 with millisecond precision.
func (r Record) Timestamp() string {
	return r.CreatedAt.UTC().Format(isoMillis)
}

// Document flattens the record into the key/value shape the row stores expect:
// the identifier, every known field, the creation date, status and data type.
func (r Record) Document() map[string]any {
	k := kinds[r.Category]

	doc := make(map[string]any, len(r.Fields)+len(k.aliases)+4)
	doc[k.idKey] = r.ID
	for name, v := range r.Fields {
		doc[name] = v
	}
	for from, to := range k.aliases {
		doc[to] = r.Fields[from]
	}
	doc[k.dateKey] = r.Timestamp()
	doc["status"] = r.Status
	doc["dataType"] = k.dataType
	return doc
}
