package ledger

import (
	"database/sql"
	"time"
)

type Account struct {
	ID   int64
	Name string
}

type Entry struct {
	ID       int64
	Amount   sql.NullFloat64
	Memo     sql.NullString
	PostedAt sql.NullTime
	Count    sql.Null[int32]
	Account  *Account
	Zone     time.Location
	Backups  []time.Location
	URLPath  string
}
