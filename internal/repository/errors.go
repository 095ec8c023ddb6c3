// Package repository holds the data access layer.  Sentinel errors defined
// here let the service and handler layers tell failure scenarios apart
// without inspecting driver errors: a missing row is a not-found error, a
// unique key violation on a slug is ErrSlugTaken, anything else is a
// data-access failure.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrListingNotFound is returned when no listing matches the id or slug.
var ErrListingNotFound = errors.New("listing not found")

// ErrPostNotFound is returned when no blog post matches the id or slug.
var ErrPostNotFound = errors.New("post not found")

// ErrSlugTaken is returned when an insert or update collides with the
// unique slug index.  Handlers translate it into 409.
var ErrSlugTaken = errors.New("slug already exists")

// ErrChatSessionOwned is returned when a chat session id already belongs to
// a different user type or identity.
var ErrChatSessionOwned = errors.New("chat session belongs to another user")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
