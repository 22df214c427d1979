// Package memory implementa los puertos de persistencia sobre go-memdb.
//
// Las transacciones de escritura de go-memdb se serializan con un único lock global,
// así que GetForUpdate es una lectura dentro de la transacción de escritura en curso.
// Las lecturas fuera de transacción ven un snapshot inmutable (MVCC).
// Los objetos se guardan clonados y se devuelven clonados: el árbol no debe mutarse.
//
// Solo para desarrollo y pruebas: el writer único serializa también productos distintos.
package memory

import (
	"fmt"
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	tableStock      = "stock"
	tableOperations = "operations"
	tableAlerts     = "alerts"
	tableProducts   = "products"
)

// Store base de datos en memoria del ledger.
type Store struct {
	db       *memdb.MemDB
	opSeq    atomic.Int64
	alertSeq atomic.Int64
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableStock: {
				Name: tableStock,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ProductID"}},
				},
			},
			tableOperations: {
				Name: tableOperations,
				Indexes: map[string]*memdb.IndexSchema{
					"id":      {Name: "id", Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
					"product": {Name: "product", Indexer: &memdb.StringFieldIndex{Field: "ProductID"}},
				},
			},
			tableAlerts: {
				Name: tableAlerts,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
					"product_type": {
						Name: "product_type",
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "ProductID"},
							&memdb.StringFieldIndex{Field: "Type"},
						}},
					},
					"status": {Name: "status", Indexer: &memdb.StringFieldIndex{Field: "Status"}},
				},
			},
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
		},
	}
}

// NewStore crea la base en memoria con su esquema.
func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb schema: %w", err)
	}
	return &Store{db: db}, nil
}

// read devuelve la transacción activa o abre una de solo lectura.
func (s *Store) read(txn *memdb.Txn) (*memdb.Txn, func()) {
	if txn != nil {
		return txn, func() {}
	}
	t := s.db.Txn(false)
	return t, t.Abort
}

// write ejecuta fn en la transacción activa o en una propia que confirma al terminar.
func (s *Store) write(txn *memdb.Txn, fn func(*memdb.Txn) error) error {
	if txn != nil {
		return fn(txn)
	}
	t := s.db.Txn(true)
	defer t.Abort()
	if err := fn(t); err != nil {
		return err
	}
	t.Commit()
	return nil
}

// collect recorre un iterador aplicando fn a cada objeto.
func collect(it memdb.ResultIterator, fn func(obj interface{})) {
	for obj := it.Next(); obj != nil; obj = it.Next() {
		fn(obj)
	}
}

// page recorta una lista ya ordenada según limit/offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
