package store

import (
	"slices"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
)

// Table names, also the keys of the persisted id counter map.
const (
	TableUsers        = "users"
	TableCertificates = "certificates"
	TableCatalog      = "certificate_master"
	TableRequests     = "requests"
	TableLogs         = "logs"
)

// Tables lists every table in document order.
var Tables = []string{TableUsers, TableCertificates, TableCatalog, TableRequests, TableLogs}

// Document is the whole persisted state. Drivers load and flush it in one
// piece.
type Document struct {
	Users        []domain.User            `json:"users"`
	Certificates []domain.Certificate     `json:"certificates"`
	Catalog      []domain.CertificateType `json:"certificate_master"`
	Requests     []domain.Request         `json:"requests"`
	Logs         []domain.ActivityLog     `json:"logs"`
	IDs          map[string]int64         `json:"_id"`
}

// NewDocument returns an empty document with zeroed counters.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize fills nil tables and makes sure every counter is at least the
// largest id already present, so ids are never handed out twice even when a
// document was edited by hand or written without a counter.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []domain.User{}
	}
	if d.Certificates == nil {
		d.Certificates = []domain.Certificate{}
	}
	if d.Catalog == nil {
		d.Catalog = []domain.CertificateType{}
	}
	if d.Requests == nil {
		d.Requests = []domain.Request{}
	}
	if d.Logs == nil {
		d.Logs = []domain.ActivityLog{}
	}
	if d.IDs == nil {
		d.IDs = make(map[string]int64, len(Tables))
	}

	bump := func(table string, id int64) {
		if id > d.IDs[table] {
			d.IDs[table] = id
		}
	}
	for _, t := range Tables {
		bump(t, 0)
	}
	for _, u := range d.Users {
		bump(TableUsers, u.ID)
	}
	for _, c := range d.Certificates {
		bump(TableCertificates, c.ID)
	}
	for _, ct := range d.Catalog {
		bump(TableCatalog, ct.ID)
	}
	for _, r := range d.Requests {
		bump(TableRequests, r.ID)
	}
	for _, l := range d.Logs {
		bump(TableLogs, l.ID)
	}
}

// NextID advances and returns the counter for table.
func (d *Document) NextID(table string) int64 {
	if d.IDs == nil {
		d.IDs = make(map[string]int64, len(Tables))
	}
	d.IDs[table]++
	return d.IDs[table]
}

// Clone copies every table. Pointer fields inside records are shared; they
// are always replaced, never written through.
func (d *Document) Clone() *Document {
	ids := make(map[string]int64, len(d.IDs))
	for k, v := range d.IDs {
		ids[k] = v
	}
	return &Document{
		Users:        slices.Clone(d.Users),
		Certificates: slices.Clone(d.Certificates),
		Catalog:      slices.Clone(d.Catalog),
		Requests:     slices.Clone(d.Requests),
		Logs:         slices.Clone(d.Logs),
		IDs:          ids,
	}
}
