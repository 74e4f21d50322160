package model

// Record is one extracted person (employee or dependent). Field values live
// in a canonical-field-keyed map because the output schema is closed but
// sparsely populated; Key and FamilyGroup are the only structured bookkeeping.
type Record struct {
	// Key is the source position of the row this record came from. Same-row
	// dependents share their employee's Key.
	Key RowKey `json:"key"`

	// Fields holds canonical field values. Unmapped fields are "".
	Fields map[string]string `json:"fields"`

	// FamilyGroup is assigned during grouping; 0 means not yet grouped.
	FamilyGroup int `json:"family_group"`
}

// NewRecord creates an empty record anchored at key.
func NewRecord(key RowKey) Record {
	return Record{Key: key, Fields: make(map[string]string)}
}

// Get returns the value of a canonical field ("" when absent).
func (r *Record) Get(field string) string {
	return r.Fields[field]
}

// Set assigns a canonical field value.
func (r *Record) Set(field, value string) {
	r.Fields[field] = value
}

// Clone returns a deep copy. Same-row dependent expansion starts from a copy
// of the employee record so coverage fields carry over.
func (r *Record) Clone() Record {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Record{Key: r.Key, Fields: fields, FamilyGroup: r.FamilyGroup}
}

// IsDependent reports whether the record was classified as a dependent.
func (r *Record) IsDependent() bool {
	return r.Get(FieldDependentFlag) == "Y"
}
