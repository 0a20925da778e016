// Package tracing records simulation traces, such as node value transitions,
// into a SQLite database for offline inspection.
package tracing

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// A Recorder is a backend that can record and store trace entries.
type Recorder interface {
	// CreateTable creates a new table shaped after the sample entry.
	CreateTable(tableName string, sampleEntry interface{})

	// InsertData buffers a same-shape entry into an existing table.
	InsertData(tableName string, entry interface{})

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries into the database.
	Flush()
}

// NewSQLiteRecorder creates a Recorder backed by a SQLite database at the
// given path. An empty path picks a unique name. The recorder flushes itself
// at process exit.
func NewSQLiteRecorder(path string) Recorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []interface{}
}

// sqliteWriter is the writer that writes trace entries into a SQLite
// database.
type sqliteWriter struct {
	*sql.DB

	dbName    string
	tables    map[string]*table
	batchSize int
}

func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "relay_trace_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

// CreateTable creates a table whose columns mirror the sample entry's fields.
func (t *sqliteWriter) CreateTable(tableName string, sampleEntry interface{}) {
	structType := reflect.TypeOf(sampleEntry)
	if structType.Kind() != reflect.Struct {
		log.Panicf("trace entries must be structs, got %s", structType.Kind())
	}

	cols := make([]string, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		cols = append(cols, field.Name+" "+sqlType(field.Type.Kind()))
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)",
		tableName, strings.Join(cols, ", "))
	if _, err := t.Exec(stmt); err != nil {
		panic(err)
	}

	t.tables[tableName] = &table{structType: structType}
}

func sqlType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		log.Panicf("field kind %s cannot be recorded", kind)
		return ""
	}
}

// InsertData buffers one entry; the batch is flushed when it grows large
// enough.
func (t *sqliteWriter) InsertData(tableName string, entry interface{}) {
	tbl, ok := t.tables[tableName]
	if !ok {
		log.Panicf("table %s has not been created", tableName)
	}

	if reflect.TypeOf(entry) != tbl.structType {
		log.Panicf("entry type %s does not match table %s",
			reflect.TypeOf(entry), tableName)
	}

	tbl.entries = append(tbl.entries, entry)

	if len(tbl.entries) >= t.batchSize {
		t.flushTable(tableName, tbl)
	}
}

// ListTables returns the names of all created tables.
func (t *sqliteWriter) ListTables() []string {
	names := make([]string, 0, len(t.tables))
	for name := range t.tables {
		names = append(names, name)
	}
	return names
}

// Flush writes every buffered entry into the database.
func (t *sqliteWriter) Flush() {
	for name, tbl := range t.tables {
		t.flushTable(name, tbl)
	}
}

func (t *sqliteWriter) flushTable(name string, tbl *table) {
	if len(tbl.entries) == 0 {
		return
	}

	tx, err := t.Begin()
	if err != nil {
		panic(err)
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", tbl.structType.NumField()), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		panic(err)
	}

	for _, entry := range tbl.entries {
		v := reflect.ValueOf(entry)
		args := make([]interface{}, v.NumField())
		for i := range args {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	tbl.entries = nil
}
